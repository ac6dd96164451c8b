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

// LifecycleUseCase owns archive/unarchive and the cascading delete.
type LifecycleUseCase struct {
	Talks       ports.TalkRepository
	TestLinks   ports.TestDistributionStore
	Attachments ports.AttachmentStore
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	TokenGen    ports.TokenGenerator
	Logger      *slog.Logger
}

// Archive moves a talk to archived from any prior status.
func (uc LifecycleUseCase) Archive(ctx context.Context, actorID string, talkID string) error {
	logger := application.ResolveLogger(uc.Logger)
	talkID = strings.TrimSpace(talkID)
	if _, err := uc.Talks.GetTalk(ctx, talkID); err != nil {
		return err
	}
	now := uc.now()
	if err := uc.Talks.UpdateTalkStatus(ctx, talkID, entities.TalkStatusArchived, &now, now); err != nil {
		return err
	}
	logger.Info("talk archived",
		"event", "talk_archived",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(actorID),
	)
	return nil
}

// Unarchive restores the pre-archive status. The stamped FirstDistributedAt
// decides the target, not the current (archived) status: a talk that ever
// left draft comes back as distributed.
func (uc LifecycleUseCase) Unarchive(ctx context.Context, actorID string, talkID string) error {
	logger := application.ResolveLogger(uc.Logger)
	talkID = strings.TrimSpace(talkID)
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return err
	}
	restored := entities.TalkStatusDraft
	if talk.FirstDistributedAt != nil {
		restored = entities.TalkStatusDistributed
	}
	if err := uc.Talks.UpdateTalkStatus(ctx, talkID, restored, nil, uc.now()); err != nil {
		return err
	}
	logger.Info("talk unarchived",
		"event", "talk_unarchived",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(actorID),
		"restored_status", string(restored),
	)
	return nil
}

// DeleteTalk removes the talk and every dependent row in one transaction,
// then removes the stored attachment as a best-effort side effect. Attachment
// removal failure never rolls back the already-committed cascade.
func (uc LifecycleUseCase) DeleteTalk(ctx context.Context, actorID string, talkID string) error {
	logger := application.ResolveLogger(uc.Logger)
	talkID = strings.TrimSpace(talkID)
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return err
	}

	if err := uc.Talks.DeleteTalkCascade(ctx, talkID); err != nil {
		logger.Error("talk delete cascade failed",
			"event", "talk_delete_cascade_failed",
			"module", "safety-training/talk-service",
			"layer", "application",
			"talk_id", talkID,
			"actor_id", strings.TrimSpace(actorID),
			"error", err.Error(),
		)
		return err
	}

	if talk.Content.Kind == entities.AttachmentKindFile && uc.Attachments != nil {
		if err := uc.Attachments.Remove(ctx, talk.Content); err != nil {
			logger.Warn("talk attachment removal failed after delete",
				"event", "talk_attachment_removal_failed",
				"module", "safety-training/talk-service",
				"layer", "application",
				"talk_id", talkID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("talk deleted",
		"event", "talk_deleted",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(actorID),
	)
	return nil
}

// CreateTestLink issues a recipient-less preview distribution for a talk.
func (uc LifecycleUseCase) CreateTestLink(ctx context.Context, actorID string, talkID string) (entities.TestDistribution, error) {
	logger := application.ResolveLogger(uc.Logger)
	talkID = strings.TrimSpace(talkID)
	if _, err := uc.Talks.GetTalk(ctx, talkID); err != nil {
		return entities.TestDistribution{}, err
	}
	id, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.TestDistribution{}, err
	}
	token, err := uc.TokenGen.NewToken(ctx)
	if err != nil {
		return entities.TestDistribution{}, err
	}
	testDistribution := entities.TestDistribution{
		TestDistributionID: id,
		TalkID:             talkID,
		Token:              token,
		CreatedAt:          uc.now(),
	}
	if err := uc.TestLinks.CreateTestDistribution(ctx, testDistribution); err != nil {
		return entities.TestDistribution{}, err
	}
	logger.Info("test link created",
		"event", "talk_test_link_created",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(actorID),
	)
	return testDistribution, nil
}

// PurgeExpiredTestLinks removes preview links older than the retention
// window. Runs independently of the talk delete cascade.
func (uc LifecycleUseCase) PurgeExpiredTestLinks(ctx context.Context, retentionDays int) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	if retentionDays <= 0 {
		return 0, domainerrors.ErrInvalidTalkInput
	}
	cutoff := uc.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	purged, err := uc.TestLinks.DeleteTestDistributionsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logger.Info("expired test links purged",
		"event", "talk_test_links_purged",
		"module", "safety-training/talk-service",
		"layer", "application",
		"purged", purged,
		"retention_days", retentionDays,
	)
	return purged, nil
}

func (uc LifecycleUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
