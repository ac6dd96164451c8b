package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "toolbox/contexts/safety-training/talk-service/application"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"
)

// tokenAttempts bounds retries after a stored-token collision. Collisions on
// 128-bit tokens are vanishingly rare, so exhausting this is a config/RNG bug.
const tokenAttempts = 5

type RecipientOutcome string

const (
	OutcomeDistributed RecipientOutcome = "distributed"
	OutcomeSkipped     RecipientOutcome = "skipped"
	OutcomeFailed      RecipientOutcome = "failed"
)

type DistributeCommand struct {
	ActorID      string
	TalkID       string
	RecipientIDs []string
}

type RecipientResult struct {
	RecipientID    string
	Outcome        RecipientOutcome
	DistributionID string
	Reason         string
}

// DistributionReport enumerates the per-recipient outcome of one distribute
// call. Channel failures never abort the batch; they surface here instead.
type DistributionReport struct {
	TalkID      string
	Results     []RecipientResult
	Distributed int
	Skipped     int
	Failed      int
}

// DistributionUseCase owns the fan-out of a talk to its roster: idempotent
// per-recipient creation, dual-channel dispatch with isolated failures, and
// the single draft→distributed transition.
type DistributionUseCase struct {
	Talks         ports.TalkRepository
	Distributions ports.DistributionStore
	Directory     ports.RecipientDirectory
	Email         ports.NotificationChannel
	SMS           ports.NotificationChannel
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	TokenGen      ports.TokenGenerator
	BaseURL       string
	Logger        *slog.Logger
}

// Distribute fans a talk out to every recipient in the set. Calling it again
// with an overlapping set is safe: existing distributions are reported as
// skipped and no duplicate rows are created.
func (uc DistributionUseCase) Distribute(ctx context.Context, cmd DistributeCommand) (DistributionReport, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.TalkID) == "" {
		return DistributionReport{}, domainerrors.ErrInvalidTalkInput
	}
	recipients := dedupeRecipients(cmd.RecipientIDs)
	if len(recipients) == 0 {
		return DistributionReport{}, domainerrors.ErrEmptyRecipients
	}

	talkID := strings.TrimSpace(cmd.TalkID)
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return DistributionReport{}, err
	}

	logger.Info("talk distribution started",
		"event", "talk_distribute_started",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
		"recipient_count", len(recipients),
	)

	report := DistributionReport{TalkID: talkID}
	transitioned := talk.Status != entities.TalkStatusDraft
	for _, recipientID := range recipients {
		result := uc.distributeToRecipient(ctx, talk, recipientID)
		switch result.Outcome {
		case OutcomeDistributed:
			report.Distributed++
			if !transitioned {
				flipped, err := uc.Talks.MarkDistributed(ctx, talkID, uc.now())
				if err != nil {
					logger.Error("talk distributed transition failed",
						"event", "talk_distribute_transition_failed",
						"module", "safety-training/talk-service",
						"layer", "application",
						"talk_id", talkID,
						"error", err.Error(),
					)
				} else {
					transitioned = true
					if flipped {
						logger.Info("talk status transitioned to distributed",
							"event", "talk_distribute_transitioned",
							"module", "safety-training/talk-service",
							"layer", "application",
							"talk_id", talkID,
						)
					}
				}
			}
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("talk distribution finished",
		"event", "talk_distribute_finished",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"distributed", report.Distributed,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// distributeToRecipient handles one recipient in isolation; any failure here
// is folded into the report and never propagates to the batch.
func (uc DistributionUseCase) distributeToRecipient(
	ctx context.Context,
	talk entities.SafetyTalk,
	recipientID string,
) RecipientResult {
	logger := application.ResolveLogger(uc.Logger)

	if existing, found, err := uc.Distributions.GetDistributionByRecipient(ctx, talk.TalkID, recipientID); err != nil {
		return RecipientResult{RecipientID: recipientID, Outcome: OutcomeFailed, Reason: err.Error()}
	} else if found {
		return RecipientResult{
			RecipientID:    recipientID,
			Outcome:        OutcomeSkipped,
			DistributionID: existing.DistributionID,
			Reason:         "already distributed",
		}
	}

	recipient, err := uc.Directory.Lookup(ctx, recipientID)
	if err != nil {
		return RecipientResult{RecipientID: recipientID, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	distribution, err := uc.createDistribution(ctx, talk.TalkID, recipientID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateDistribution) {
			// Lost a race against a concurrent distribute; the row exists now.
			return RecipientResult{RecipientID: recipientID, Outcome: OutcomeSkipped, Reason: "already distributed"}
		}
		return RecipientResult{RecipientID: recipientID, Outcome: OutcomeFailed, Reason: err.Error()}
	}

	subject, body := uc.composeMessage(talk, distribution.Token)
	emailStatus, emailReason := uc.dispatch(ctx, uc.Email, recipient.Email, subject, body)
	smsStatus, smsReason := uc.dispatch(ctx, uc.SMS, recipient.Phone, subject, body)

	if err := uc.Distributions.UpdateDelivery(
		ctx, distribution.DistributionID, emailStatus, smsStatus, distribution.NotificationCount, uc.now(),
	); err != nil {
		logger.Error("distribution delivery update failed",
			"event", "talk_distribute_delivery_update_failed",
			"module", "safety-training/talk-service",
			"layer", "application",
			"distribution_id", distribution.DistributionID,
			"error", err.Error(),
		)
	}

	if emailStatus != entities.DeliveryStatusSent && smsStatus != entities.DeliveryStatusSent {
		return RecipientResult{
			RecipientID:    recipientID,
			Outcome:        OutcomeFailed,
			DistributionID: distribution.DistributionID,
			Reason:         fmt.Sprintf("email: %s; sms: %s", emailReason, smsReason),
		}
	}
	return RecipientResult{
		RecipientID:    recipientID,
		Outcome:        OutcomeDistributed,
		DistributionID: distribution.DistributionID,
	}
}

// createDistribution inserts the row, regenerating the token on a stored
// collision. The store's uniqueness constraint is the collision check.
func (uc DistributionUseCase) createDistribution(
	ctx context.Context,
	talkID string,
	recipientID string,
) (entities.Distribution, error) {
	distributionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Distribution{}, err
	}

	now := uc.now()
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		token, err := uc.TokenGen.NewToken(ctx)
		if err != nil {
			return entities.Distribution{}, err
		}
		distribution := entities.Distribution{
			DistributionID:    distributionID,
			TalkID:            talkID,
			RecipientID:       recipientID,
			Token:             token,
			SentAt:            now,
			EmailStatus:       entities.DeliveryStatusUnsent,
			SMSStatus:         entities.DeliveryStatusUnsent,
			NotificationCount: 1,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		err = uc.Distributions.CreateDistribution(ctx, distribution)
		if err == nil {
			return distribution, nil
		}
		if errors.Is(err, domainerrors.ErrDuplicateToken) {
			continue
		}
		return entities.Distribution{}, err
	}
	return entities.Distribution{}, domainerrors.ErrTokenGenerationExhausted
}

// dispatch sends over one channel and maps the outcome to a delivery status.
// A nil channel or missing address counts as a failed channel, not an error.
func (uc DistributionUseCase) dispatch(
	ctx context.Context,
	channel ports.NotificationChannel,
	address string,
	subject string,
	body string,
) (entities.DeliveryStatus, string) {
	if channel == nil {
		return entities.DeliveryStatusFailed, "channel not configured"
	}
	if strings.TrimSpace(address) == "" {
		return entities.DeliveryStatusFailed, "no address on file"
	}
	if err := channel.Send(ctx, address, subject, body); err != nil {
		application.ResolveLogger(uc.Logger).Warn("notification dispatch failed",
			"event", "talk_notification_dispatch_failed",
			"module", "safety-training/talk-service",
			"layer", "application",
			"channel", string(channel.Medium()),
			"error", err.Error(),
		)
		return entities.DeliveryStatusFailed, err.Error()
	}
	return entities.DeliveryStatusSent, ""
}

func (uc DistributionUseCase) composeMessage(talk entities.SafetyTalk, token string) (string, string) {
	subject := fmt.Sprintf("Safety talk: %s", talk.Title)
	link := strings.TrimRight(uc.BaseURL, "/") + "/talks/view/" + token
	body := fmt.Sprintf(
		"A safety talk %q has been assigned to you. Review and sign it here: %s",
		talk.Title, link,
	)
	return subject, body
}

func (uc DistributionUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func dedupeRecipients(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
