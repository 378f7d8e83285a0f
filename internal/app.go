package internal

import (
	"checkbox-fiscalizer/internal/checkbox"
	"checkbox-fiscalizer/internal/config"
	"checkbox-fiscalizer/internal/fiscal"
	"checkbox-fiscalizer/internal/logging"
	"checkbox-fiscalizer/internal/orders"
	"checkbox-fiscalizer/internal/server"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Run() error {
	app := fx.New(
		logger.Module(),
		logger.WithFxDefaultLogger(),
		config.Module(),
		logging.Module(),
		checkbox.Module(),
		orders.Module(),
		fiscal.Module(),
		server.Module(),
	)

	app.Run()
	return app.Err()
}
