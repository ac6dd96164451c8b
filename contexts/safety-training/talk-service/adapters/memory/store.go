package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory implementation of every talk-service port. It
// enforces the same uniqueness constraints the postgres adapter gets from the
// schema, so application code sees identical duplicate/race semantics.
type Store struct {
	mu sync.RWMutex

	talks             map[string]entities.SafetyTalk
	distributions     map[string]entities.Distribution
	byRecipient       map[string]string // talkID+"/"+recipientID -> distributionID
	byToken           map[string]string // token -> distributionID
	confirmations     map[string]entities.Confirmation // keyed by distributionID
	questions         map[string][]entities.QuizQuestion
	quizResults       map[string]entities.QuizResult // keyed by distributionID
	testDistributions map[string]entities.TestDistribution
	recipients        map[string]ports.Recipient

	writeErr           error
	removedAttachments []entities.AttachmentRef
	distributedFlips   int
}

func NewStore(seed []entities.SafetyTalk) *Store {
	talks := make(map[string]entities.SafetyTalk, len(seed))
	for _, talk := range seed {
		talks[talk.TalkID] = talk
	}
	return &Store{
		talks:             talks,
		distributions:     make(map[string]entities.Distribution),
		byRecipient:       make(map[string]string),
		byToken:           make(map[string]string),
		confirmations:     make(map[string]entities.Confirmation),
		questions:         make(map[string][]entities.QuizQuestion),
		quizResults:       make(map[string]entities.QuizResult),
		testDistributions: make(map[string]entities.TestDistribution),
		recipients:        make(map[string]ports.Recipient),
	}
}

// SetRecipient seeds the directory projection.
func (s *Store) SetRecipient(recipient ports.Recipient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients[strings.TrimSpace(recipient.RecipientID)] = recipient
}

// SetWriteError makes every subsequent mutating call fail with err until
// cleared with nil. Used to exercise rollback and fault-isolation paths.
func (s *Store) SetWriteError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// DistributedFlips reports how many MarkDistributed calls actually flipped a
// draft row; the single-transition invariant keeps this at one per talk.
func (s *Store) DistributedFlips() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.distributedFlips
}

// RemovedAttachments lists attachment refs handed to Remove.
func (s *Store) RemovedAttachments() []entities.AttachmentRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.AttachmentRef(nil), s.removedAttachments...)
}

func recipientKey(talkID, recipientID string) string {
	return strings.TrimSpace(talkID) + "/" + strings.TrimSpace(recipientID)
}

// --- TalkRepository ---

func (s *Store) CreateTalk(_ context.Context, talk entities.SafetyTalk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.talks[strings.TrimSpace(talk.TalkID)] = talk
	return nil
}

func (s *Store) GetTalk(_ context.Context, talkID string) (entities.SafetyTalk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	talk, ok := s.talks[strings.TrimSpace(talkID)]
	if !ok {
		return entities.SafetyTalk{}, domainerrors.ErrTalkNotFound
	}
	return talk, nil
}

func (s *Store) ListTalksByStatus(_ context.Context, status entities.TalkStatus) ([]entities.SafetyTalk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.SafetyTalk, 0)
	for _, talk := range s.talks {
		if talk.Status == status {
			items = append(items, talk)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TalkID < items[j].TalkID })
	return items, nil
}

func (s *Store) MarkDistributed(_ context.Context, talkID string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return false, s.writeErr
	}
	talk, ok := s.talks[strings.TrimSpace(talkID)]
	if !ok {
		return false, domainerrors.ErrTalkNotFound
	}
	if talk.Status != entities.TalkStatusDraft {
		return false, nil
	}
	stamped := at.UTC()
	talk.Status = entities.TalkStatusDistributed
	talk.FirstDistributedAt = &stamped
	talk.UpdatedAt = stamped
	s.talks[talk.TalkID] = talk
	s.distributedFlips++
	return true, nil
}

func (s *Store) UpdateTalkStatus(
	_ context.Context,
	talkID string,
	status entities.TalkStatus,
	archivedAt *time.Time,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	talk, ok := s.talks[strings.TrimSpace(talkID)]
	if !ok {
		return domainerrors.ErrTalkNotFound
	}
	talk.Status = status
	talk.ArchivedAt = archivedAt
	talk.UpdatedAt = updatedAt.UTC()
	s.talks[talk.TalkID] = talk
	return nil
}

func (s *Store) SetHasQuiz(_ context.Context, talkID string, hasQuiz bool, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	talk, ok := s.talks[strings.TrimSpace(talkID)]
	if !ok {
		return domainerrors.ErrTalkNotFound
	}
	talk.HasQuiz = hasQuiz
	talk.UpdatedAt = updatedAt.UTC()
	s.talks[talk.TalkID] = talk
	return nil
}

func (s *Store) DeleteTalkCascade(_ context.Context, talkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		// Surface as a failed transaction: nothing below is touched.
		return s.writeErr
	}
	talkID = strings.TrimSpace(talkID)
	if _, ok := s.talks[talkID]; !ok {
		return domainerrors.ErrTalkNotFound
	}

	delete(s.questions, talkID)
	for distributionID, distribution := range s.distributions {
		if distribution.TalkID != talkID {
			continue
		}
		delete(s.quizResults, distributionID)
		delete(s.confirmations, distributionID)
		delete(s.byToken, distribution.Token)
		delete(s.byRecipient, recipientKey(talkID, distribution.RecipientID))
		delete(s.distributions, distributionID)
	}
	for id, testDistribution := range s.testDistributions {
		if testDistribution.TalkID == talkID {
			delete(s.testDistributions, id)
		}
	}
	delete(s.talks, talkID)
	return nil
}

// --- DistributionStore ---

func (s *Store) CreateDistribution(_ context.Context, distribution entities.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	key := recipientKey(distribution.TalkID, distribution.RecipientID)
	if _, exists := s.byRecipient[key]; exists {
		return domainerrors.ErrDuplicateDistribution
	}
	if _, exists := s.byToken[distribution.Token]; exists {
		return domainerrors.ErrDuplicateToken
	}
	s.distributions[distribution.DistributionID] = distribution
	s.byRecipient[key] = distribution.DistributionID
	s.byToken[distribution.Token] = distribution.DistributionID
	return nil
}

func (s *Store) GetDistribution(_ context.Context, distributionID string) (entities.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	distribution, ok := s.distributions[strings.TrimSpace(distributionID)]
	if !ok {
		return entities.Distribution{}, domainerrors.ErrDistributionNotFound
	}
	return distribution, nil
}

func (s *Store) GetDistributionByRecipient(
	_ context.Context,
	talkID string,
	recipientID string,
) (entities.Distribution, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	distributionID, ok := s.byRecipient[recipientKey(talkID, recipientID)]
	if !ok {
		return entities.Distribution{}, false, nil
	}
	return s.distributions[distributionID], true, nil
}

func (s *Store) ListDistributionsByTalk(_ context.Context, talkID string) ([]entities.Distribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	talkID = strings.TrimSpace(talkID)
	items := make([]entities.Distribution, 0)
	for _, distribution := range s.distributions {
		if distribution.TalkID == talkID {
			items = append(items, distribution)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].RecipientID < items[j].RecipientID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateDelivery(
	_ context.Context,
	distributionID string,
	emailStatus entities.DeliveryStatus,
	smsStatus entities.DeliveryStatus,
	notificationCount int,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	distribution, ok := s.distributions[strings.TrimSpace(distributionID)]
	if !ok {
		return domainerrors.ErrDistributionNotFound
	}
	distribution.EmailStatus = emailStatus
	distribution.SMSStatus = smsStatus
	distribution.NotificationCount = notificationCount
	distribution.UpdatedAt = updatedAt.UTC()
	s.distributions[distribution.DistributionID] = distribution
	return nil
}

// --- ConfirmationStore ---

func (s *Store) CreateConfirmation(_ context.Context, confirmation entities.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	distributionID := strings.TrimSpace(confirmation.DistributionID)
	if _, exists := s.confirmations[distributionID]; exists {
		return domainerrors.ErrAlreadyConfirmed
	}
	s.confirmations[distributionID] = confirmation
	return nil
}

func (s *Store) GetConfirmationByDistribution(_ context.Context, distributionID string) (entities.Confirmation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	confirmation, ok := s.confirmations[strings.TrimSpace(distributionID)]
	return confirmation, ok, nil
}

func (s *Store) ListConfirmedDistributionIDs(_ context.Context, talkID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	talkID = strings.TrimSpace(talkID)
	ids := make([]string, 0)
	for distributionID := range s.confirmations {
		distribution, ok := s.distributions[distributionID]
		if ok && distribution.TalkID == talkID {
			ids = append(ids, distributionID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// --- QuizStore ---

func (s *Store) ReplaceQuiz(_ context.Context, talkID string, questions []entities.QuizQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	talkID = strings.TrimSpace(talkID)
	replacement := make([]entities.QuizQuestion, len(questions))
	copy(replacement, questions)
	sort.Slice(replacement, func(i, j int) bool { return replacement[i].Position < replacement[j].Position })
	s.questions[talkID] = replacement
	return nil
}

func (s *Store) GetQuiz(_ context.Context, talkID string) ([]entities.QuizQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions, ok := s.questions[strings.TrimSpace(talkID)]
	if !ok {
		return nil, domainerrors.ErrQuizNotFound
	}
	return append([]entities.QuizQuestion(nil), questions...), nil
}

func (s *Store) UpsertQuizResult(_ context.Context, result entities.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	distributionID := strings.TrimSpace(result.DistributionID)
	if existing, ok := s.quizResults[distributionID]; ok {
		// Retake: keep the original row identity, overwrite the attempt.
		result.ResultID = existing.ResultID
	}
	s.quizResults[distributionID] = result
	return nil
}

func (s *Store) GetQuizResultByDistribution(_ context.Context, distributionID string) (entities.QuizResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.quizResults[strings.TrimSpace(distributionID)]
	return result, ok, nil
}

// --- TestDistributionStore ---

func (s *Store) CreateTestDistribution(_ context.Context, testDistribution entities.TestDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.testDistributions[testDistribution.TestDistributionID] = testDistribution
	return nil
}

func (s *Store) ListTestDistributionsByTalk(_ context.Context, talkID string) ([]entities.TestDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	talkID = strings.TrimSpace(talkID)
	items := make([]entities.TestDistribution, 0)
	for _, testDistribution := range s.testDistributions {
		if testDistribution.TalkID == talkID {
			items = append(items, testDistribution)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *Store) DeleteTestDistributionsBefore(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	purged := 0
	for id, testDistribution := range s.testDistributions {
		if testDistribution.CreatedAt.Before(cutoff) {
			delete(s.testDistributions, id)
			purged++
		}
	}
	return purged, nil
}

// --- RecipientDirectory ---

func (s *Store) Lookup(_ context.Context, recipientID string) (ports.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipient, ok := s.recipients[strings.TrimSpace(recipientID)]
	if !ok {
		return ports.Recipient{}, domainerrors.ErrRecipientNotFound
	}
	return recipient, nil
}

// --- AttachmentStore ---

func (s *Store) Remove(_ context.Context, ref entities.AttachmentRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removedAttachments = append(s.removedAttachments, ref)
	return nil
}

// --- Clock / IDGenerator / TokenGenerator ---

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewToken(_ context.Context) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
