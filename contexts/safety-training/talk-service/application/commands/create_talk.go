package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "toolbox/contexts/safety-training/talk-service/application"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"
)

// CreateTalkCommand is the write-model input for drafting a safety talk.
// ActorID is the acting admin from the caller context and lands on CreatedBy.
type CreateTalkCommand struct {
	ActorID     string
	Title       string
	Description string
	Content     entities.AttachmentRef
	Quiz        []QuizQuestionInput
}

type TalkUseCase struct {
	Talks   ports.TalkRepository
	Quizzes ports.QuizStore
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// CreateDraftTalk creates a talk in draft status, optionally with an inline
// quiz. The quiz is stored through the same atomic replace path SaveQuiz uses.
func (uc TalkUseCase) CreateDraftTalk(ctx context.Context, cmd CreateTalkCommand) (entities.SafetyTalk, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.Title) == "" || cmd.Content.Empty() {
		logger.Warn("talk create validation failed",
			"event", "talk_create_validation_failed",
			"module", "safety-training/talk-service",
			"layer", "application",
			"actor_id", strings.TrimSpace(cmd.ActorID),
		)
		return entities.SafetyTalk{}, domainerrors.ErrInvalidTalkInput
	}
	if len(cmd.Quiz) > 0 {
		if err := validateQuizInput(cmd.Quiz); err != nil {
			return entities.SafetyTalk{}, err
		}
	}

	now := uc.now()
	talkID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.SafetyTalk{}, err
	}
	talk := entities.SafetyTalk{
		TalkID:      talkID,
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Content:     cmd.Content,
		HasQuiz:     len(cmd.Quiz) > 0,
		Status:      entities.TalkStatusDraft,
		CreatedBy:   strings.TrimSpace(cmd.ActorID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.Talks.CreateTalk(ctx, talk); err != nil {
		return entities.SafetyTalk{}, err
	}

	if len(cmd.Quiz) > 0 {
		questions, err := buildQuizQuestions(ctx, talkID, cmd.Quiz, uc.IDGen)
		if err != nil {
			return entities.SafetyTalk{}, err
		}
		if err := uc.Quizzes.ReplaceQuiz(ctx, talkID, questions); err != nil {
			return entities.SafetyTalk{}, err
		}
	}

	logger.Info("talk drafted",
		"event", "talk_drafted",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talk.TalkID,
		"actor_id", talk.CreatedBy,
		"has_quiz", talk.HasQuiz,
	)
	return talk, nil
}

func (uc TalkUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
