package main

import (
	"context"
	"log/slog"
	"os"

	"toolbox/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	app, err := bootstrap.BuildAPI()
	if err != nil {
		logger.Error("api bootstrap failed", "event", "api_bootstrap_failed", "error", err.Error())
		os.Exit(1)
	}
	defer func() { _ = app.Close() }()

	if err := app.Run(context.Background()); err != nil {
		logger.Error("api stopped", "event", "api_stopped", "error", err.Error())
		os.Exit(1)
	}
}
