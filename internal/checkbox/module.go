package checkbox

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module(
		"checkbox",
		fx.Provide(NewClient),
	)
}
