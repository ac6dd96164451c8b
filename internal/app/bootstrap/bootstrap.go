package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	talkservice "toolbox/contexts/safety-training/talk-service"
	"toolbox/contexts/safety-training/talk-service/adapters/notification"
	postgresadapter "toolbox/contexts/safety-training/talk-service/adapters/postgres"
	"toolbox/contexts/safety-training/talk-service/adapters/storage"
	"toolbox/internal/platform/config"
	"toolbox/internal/platform/db"
	"toolbox/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		// DSN-less runs serve from memory; useful for demos and local work.
		logger.Warn("no postgres dsn configured, using in-memory store",
			"event", "bootstrap_in_memory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		module := talkservice.NewInMemoryModule(nil, logger)
		return &APIApp{
			server: httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort)),
			logger: logger,
		}, nil
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := postgresadapter.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := postgresadapter.MigrateDirectory(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := talkservice.NewModule(talkservice.Dependencies{
		Talks:         repo,
		Distributions: repo,
		Confirmations: repo,
		Quizzes:       repo,
		TestLinks:     repo,
		Directory:     postgresadapter.NewDirectory(pg.DB, logger),
		Attachments:   storage.NewLocalAttachmentStore(cfg.AttachmentRoot, logger),
		Email:         notification.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom),
		SMS:           notification.NewSMSChannel(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSFrom),
		Clock:         postgresadapter.SystemClock{},
		IDGen:         postgresadapter.UUIDGenerator{},
		TokenGen:      postgresadapter.RandomTokenGenerator{},
		BaseURL:       cfg.BaseURL,
		Logger:        logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
