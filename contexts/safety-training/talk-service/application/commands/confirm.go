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

type RecordConfirmationCommand struct {
	DistributionID string
	SignatureImage string
	SourceAddress  string
	Understood     bool
}

type ConfirmationUseCase struct {
	Distributions ports.DistributionStore
	Confirmations ports.ConfirmationStore
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// RecordConfirmation persists the recipient's signed acknowledgement. The
// insert itself is the duplicate check: a concurrent second confirmation hits
// the store's uniqueness constraint and comes back as ErrAlreadyConfirmed.
func (uc ConfirmationUseCase) RecordConfirmation(ctx context.Context, cmd RecordConfirmationCommand) (entities.Confirmation, error) {
	logger := application.ResolveLogger(uc.Logger)
	distributionID := strings.TrimSpace(cmd.DistributionID)
	if distributionID == "" || strings.TrimSpace(cmd.SignatureImage) == "" {
		return entities.Confirmation{}, domainerrors.ErrInvalidConfirmation
	}

	distribution, err := uc.Distributions.GetDistribution(ctx, distributionID)
	if err != nil {
		return entities.Confirmation{}, err
	}

	confirmationID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Confirmation{}, err
	}
	confirmation := entities.Confirmation{
		ConfirmationID: confirmationID,
		DistributionID: distribution.DistributionID,
		SignatureImage: cmd.SignatureImage,
		SourceAddress:  strings.TrimSpace(cmd.SourceAddress),
		Understood:     cmd.Understood,
		ConfirmedAt:    uc.now(),
	}
	if err := uc.Confirmations.CreateConfirmation(ctx, confirmation); err != nil {
		return entities.Confirmation{}, err
	}

	logger.Info("confirmation recorded",
		"event", "talk_confirmation_recorded",
		"module", "safety-training/talk-service",
		"layer", "application",
		"distribution_id", distribution.DistributionID,
		"talk_id", distribution.TalkID,
		"understood", cmd.Understood,
	)
	return confirmation, nil
}

// HasConfirmed is a pure read used by the recipient-facing view.
func (uc ConfirmationUseCase) HasConfirmed(ctx context.Context, distributionID string) (bool, error) {
	_, found, err := uc.Confirmations.GetConfirmationByDistribution(ctx, strings.TrimSpace(distributionID))
	if err != nil {
		return false, err
	}
	return found, nil
}

func (uc ConfirmationUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
