package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"toolbox/contexts/safety-training/talk-service/adapters/memory"
	"toolbox/contexts/safety-training/talk-service/adapters/notification"
	"toolbox/contexts/safety-training/talk-service/application/commands"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"
)

// scriptedTokens replays a fixed token sequence, then repeats the last one.
type scriptedTokens struct {
	mu     sync.Mutex
	tokens []string
}

func (s *scriptedTokens) NewToken(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tokens) > 1 {
		token := s.tokens[0]
		s.tokens = s.tokens[1:]
		return token, nil
	}
	return s.tokens[0], nil
}

func newCollisionFixture(t *testing.T, tokens *scriptedTokens) (commands.DistributionUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore([]entities.SafetyTalk{{
		TalkID:    "talk-1",
		Title:     "Scaffolding checks",
		Content:   entities.AttachmentRef{Kind: entities.AttachmentKindInline, Body: "Inspect before use."},
		Status:    entities.TalkStatusDraft,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}})
	store.SetRecipient(ports.Recipient{
		RecipientID: "emp-1",
		Name:        "Alice Acker",
		Email:       "alice@example.com",
	})

	// A foreign distribution already holds the colliding token.
	err := store.CreateDistribution(context.Background(), entities.Distribution{
		DistributionID: "dist-other",
		TalkID:         "talk-other",
		RecipientID:    "emp-9",
		Token:          "collision",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed colliding distribution failed: %v", err)
	}

	return commands.DistributionUseCase{
		Talks:         store,
		Distributions: store,
		Directory:     store,
		Email:         notification.NewScriptedChannel(entities.ChannelEmail),
		SMS:           notification.NewScriptedChannel(entities.ChannelSMS),
		Clock:         store,
		IDGen:         store,
		TokenGen:      tokens,
		BaseURL:       "http://localhost:8080",
	}, store
}

func TestDistributeRetriesOnTokenCollision(t *testing.T) {
	uc, store := newCollisionFixture(t, &scriptedTokens{tokens: []string{"collision", "collision", "fresh"}})

	report, err := uc.Distribute(context.Background(), commands.DistributeCommand{
		ActorID:      "manager-1",
		TalkID:       "talk-1",
		RecipientIDs: []string{"emp-1"},
	})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if report.Distributed != 1 {
		t.Fatalf("expected distribution despite collisions, got %+v", report)
	}

	distribution, found, err := store.GetDistributionByRecipient(context.Background(), "talk-1", "emp-1")
	if err != nil || !found {
		t.Fatalf("expected stored distribution, found=%v err=%v", found, err)
	}
	if distribution.Token != "fresh" {
		t.Fatalf("expected regenerated token, got %q", distribution.Token)
	}
}

func TestDistributeGivesUpAfterRepeatedCollisions(t *testing.T) {
	uc, store := newCollisionFixture(t, &scriptedTokens{tokens: []string{"collision"}})

	report, err := uc.Distribute(context.Background(), commands.DistributeCommand{
		ActorID:      "manager-1",
		TalkID:       "talk-1",
		RecipientIDs: []string{"emp-1"},
	})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	if report.Failed != 1 || report.Distributed != 0 {
		t.Fatalf("expected failed outcome after exhausted retries, got %+v", report)
	}
	if report.Results[0].Reason != domainerrors.ErrTokenGenerationExhausted.Error() {
		t.Fatalf("unexpected failure reason: %q", report.Results[0].Reason)
	}

	if _, found, _ := store.GetDistributionByRecipient(context.Background(), "talk-1", "emp-1"); found {
		t.Fatalf("no distribution row may exist after exhausted retries")
	}
}
