package ports

import (
	"context"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
)

type TalkRepository interface {
	CreateTalk(ctx context.Context, talk entities.SafetyTalk) error
	GetTalk(ctx context.Context, talkID string) (entities.SafetyTalk, error)
	ListTalksByStatus(ctx context.Context, status entities.TalkStatus) ([]entities.SafetyTalk, error)
	// MarkDistributed performs the single conditional draft→distributed
	// transition. Returns true only for the call that actually flipped the row.
	MarkDistributed(ctx context.Context, talkID string, at time.Time) (bool, error)
	UpdateTalkStatus(ctx context.Context, talkID string, status entities.TalkStatus, archivedAt *time.Time, updatedAt time.Time) error
	SetHasQuiz(ctx context.Context, talkID string, hasQuiz bool, updatedAt time.Time) error
	// DeleteTalkCascade removes quiz answers, quiz questions, quiz results,
	// confirmations, distributions, test distributions, and the talk row in a
	// single transaction. Partial deletes must never commit.
	DeleteTalkCascade(ctx context.Context, talkID string) error
}

type DistributionStore interface {
	// CreateDistribution relies on storage-level uniqueness for both the
	// (talk, recipient) pair and the token; the insert is the duplicate check.
	CreateDistribution(ctx context.Context, distribution entities.Distribution) error
	GetDistribution(ctx context.Context, distributionID string) (entities.Distribution, error)
	GetDistributionByRecipient(ctx context.Context, talkID string, recipientID string) (entities.Distribution, bool, error)
	ListDistributionsByTalk(ctx context.Context, talkID string) ([]entities.Distribution, error)
	UpdateDelivery(ctx context.Context, distributionID string, emailStatus entities.DeliveryStatus, smsStatus entities.DeliveryStatus, notificationCount int, updatedAt time.Time) error
}

type ConfirmationStore interface {
	// CreateConfirmation relies on the unique distribution_id constraint; a
	// second insert for the same distribution fails with ErrAlreadyConfirmed.
	CreateConfirmation(ctx context.Context, confirmation entities.Confirmation) error
	GetConfirmationByDistribution(ctx context.Context, distributionID string) (entities.Confirmation, bool, error)
	ListConfirmedDistributionIDs(ctx context.Context, talkID string) ([]string, error)
}

type QuizStore interface {
	// ReplaceQuiz atomically swaps the full question/answer set for a talk.
	ReplaceQuiz(ctx context.Context, talkID string, questions []entities.QuizQuestion) error
	GetQuiz(ctx context.Context, talkID string) ([]entities.QuizQuestion, error)
	UpsertQuizResult(ctx context.Context, result entities.QuizResult) error
	GetQuizResultByDistribution(ctx context.Context, distributionID string) (entities.QuizResult, bool, error)
}

type TestDistributionStore interface {
	CreateTestDistribution(ctx context.Context, testDistribution entities.TestDistribution) error
	ListTestDistributionsByTalk(ctx context.Context, talkID string) ([]entities.TestDistribution, error)
	DeleteTestDistributionsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Recipient is the read-only identity projection served by the surrounding
// user module; this core never mutates recipient records.
type Recipient struct {
	RecipientID string
	Name        string
	Email       string
	Phone       string
}

type RecipientDirectory interface {
	Lookup(ctx context.Context, recipientID string) (Recipient, error)
}

// NotificationChannel delivers one message over one medium. Implementations
// report failure as an error return and never panic or block unbounded.
type NotificationChannel interface {
	Medium() entities.Channel
	Send(ctx context.Context, address string, subject string, body string) error
}

// AttachmentStore removes externally stored talk files after a committed
// delete cascade; removal is best effort and never rolls the delete back.
type AttachmentStore interface {
	Remove(ctx context.Context, ref entities.AttachmentRef) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// TokenGenerator yields unguessable distribution tokens with at least 128
// bits of entropy from a cryptographically secure source.
type TokenGenerator interface {
	NewToken(ctx context.Context) (string, error)
}
