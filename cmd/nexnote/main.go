package main

import (
	"log"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"nexnote/internal/bootstrap"
	"nexnote/internal/observability"
	"nexnote/pkg/routes"
)

func main() {
	bootstrap.Loadenv()

	flush, err := observability.InitSentry(os.Getenv("SENTRY_DSN"), os.Getenv("ENV"))
	if err != nil {
		log.Println("Sentry init failed:", err)
	}
	defer flush()

	app := fx.New(
		routes.Modules,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
	)

	app.Run()
}
