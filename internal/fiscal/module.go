package fiscal

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"fiscal",
		fx.Provide(NewOrchestrator),
	)
}
