package talkservice

import (
	"log/slog"

	httpadapter "toolbox/contexts/safety-training/talk-service/adapters/http"
	"toolbox/contexts/safety-training/talk-service/adapters/memory"
	"toolbox/contexts/safety-training/talk-service/adapters/notification"
	"toolbox/contexts/safety-training/talk-service/application/commands"
	"toolbox/contexts/safety-training/talk-service/application/queries"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	"toolbox/contexts/safety-training/talk-service/ports"
)

type Module struct {
	Handler httpadapter.Handler

	// In-memory wiring only; nil when backed by postgres.
	Store *memory.Store
	Email *notification.ScriptedChannel
	SMS   *notification.ScriptedChannel
}

type Dependencies struct {
	Talks         ports.TalkRepository
	Distributions ports.DistributionStore
	Confirmations ports.ConfirmationStore
	Quizzes       ports.QuizStore
	TestLinks     ports.TestDistributionStore
	Directory     ports.RecipientDirectory
	Attachments   ports.AttachmentStore
	Email         ports.NotificationChannel
	SMS           ports.NotificationChannel
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	TokenGen      ports.TokenGenerator
	BaseURL       string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	talkUseCase := commands.TalkUseCase{
		Talks:   deps.Talks,
		Quizzes: deps.Quizzes,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Logger:  deps.Logger,
	}
	distributionUseCase := commands.DistributionUseCase{
		Talks:         deps.Talks,
		Distributions: deps.Distributions,
		Directory:     deps.Directory,
		Email:         deps.Email,
		SMS:           deps.SMS,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		TokenGen:      deps.TokenGen,
		BaseURL:       deps.BaseURL,
		Logger:        deps.Logger,
	}
	confirmationUseCase := commands.ConfirmationUseCase{
		Distributions: deps.Distributions,
		Confirmations: deps.Confirmations,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	quizUseCase := commands.QuizUseCase{
		Talks:         deps.Talks,
		Quizzes:       deps.Quizzes,
		Distributions: deps.Distributions,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		Logger:        deps.Logger,
	}
	lifecycleUseCase := commands.LifecycleUseCase{
		Talks:       deps.Talks,
		TestLinks:   deps.TestLinks,
		Attachments: deps.Attachments,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		TokenGen:    deps.TokenGen,
		Logger:      deps.Logger,
	}
	complianceUseCase := queries.ComplianceUseCase{
		Talks:         deps.Talks,
		Distributions: deps.Distributions,
		Confirmations: deps.Confirmations,
		Directory:     deps.Directory,
		Clock:         deps.Clock,
	}
	detailsUseCase := queries.TalkDetailsUseCase{
		Talks:         deps.Talks,
		Distributions: deps.Distributions,
		Confirmations: deps.Confirmations,
		Quizzes:       deps.Quizzes,
		Directory:     deps.Directory,
	}
	return Module{
		Handler: httpadapter.Handler{
			Talks:         talkUseCase,
			Distributions: distributionUseCase,
			Confirmations: confirmationUseCase,
			Quizzes:       quizUseCase,
			Lifecycle:     lifecycleUseCase,
			Compliance:    complianceUseCase,
			Details:       detailsUseCase,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module onto the in-memory store and scripted
// notification channels. Tests and DSN-less local runs use this wiring.
func NewInMemoryModule(seed []entities.SafetyTalk, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	email := notification.NewScriptedChannel(entities.ChannelEmail)
	sms := notification.NewScriptedChannel(entities.ChannelSMS)
	module := NewModule(Dependencies{
		Talks:         store,
		Distributions: store,
		Confirmations: store,
		Quizzes:       store,
		TestLinks:     store,
		Directory:     store,
		Attachments:   store,
		Email:         email,
		SMS:           sms,
		Clock:         store,
		IDGen:         store,
		TokenGen:      store,
		BaseURL:       "http://localhost:8080",
		Logger:        logger,
	})
	module.Store = store
	module.Email = email
	module.SMS = sms
	return module
}
