package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements every talk-service store port on postgres. Uniqueness
// invariants (one distribution per talk/recipient, one confirmation per
// distribution, globally unique tokens) live in the schema; application code
// sees them as domain sentinels.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the talk-service tables, including the unique
// indexes the duplicate/race semantics depend on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&talkModel{},
		&distributionModel{},
		&confirmationModel{},
		&quizQuestionModel{},
		&quizAnswerModel{},
		&quizResultModel{},
		&testDistributionModel{},
	)
}

// --- TalkRepository ---

func (r *Repository) CreateTalk(ctx context.Context, talk entities.SafetyTalk) error {
	row := talkModelFromEntity(talk)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("talk_repo_create_talk_failed", err, "talk_id", row.ID)
	}
	return nil
}

func (r *Repository) GetTalk(ctx context.Context, talkID string) (entities.SafetyTalk, error) {
	var row talkModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(talkID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.SafetyTalk{}, domainerrors.ErrTalkNotFound
		}
		return entities.SafetyTalk{}, r.logError("talk_repo_get_talk_failed", err, "talk_id", strings.TrimSpace(talkID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListTalksByStatus(ctx context.Context, status entities.TalkStatus) ([]entities.SafetyTalk, error) {
	var rows []talkModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("talk_repo_list_talks_failed", err, "status", string(status))
	}
	items := make([]entities.SafetyTalk, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// MarkDistributed is the single conditional write for the draft→distributed
// transition: the status predicate is part of the UPDATE, so concurrent
// callers cannot both stamp first_distributed_at.
func (r *Repository) MarkDistributed(ctx context.Context, talkID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&talkModel{}).
		Where("id = ?", strings.TrimSpace(talkID)).
		Where("status = ?", string(entities.TalkStatusDraft)).
		Updates(map[string]any{
			"status":               string(entities.TalkStatusDistributed),
			"first_distributed_at": at.UTC(),
			"updated_at":           at.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("talk_repo_mark_distributed_failed", result.Error, "talk_id", strings.TrimSpace(talkID))
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UpdateTalkStatus(
	ctx context.Context,
	talkID string,
	status entities.TalkStatus,
	archivedAt *time.Time,
	updatedAt time.Time,
) error {
	updates := map[string]any{
		"status":      string(status),
		"archived_at": archivedAt,
		"updated_at":  updatedAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Model(&talkModel{}).
		Where("id = ?", strings.TrimSpace(talkID)).
		Updates(updates)
	if result.Error != nil {
		return r.logError("talk_repo_update_status_failed", result.Error, "talk_id", strings.TrimSpace(talkID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTalkNotFound
	}
	return nil
}

func (r *Repository) SetHasQuiz(ctx context.Context, talkID string, hasQuiz bool, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&talkModel{}).
		Where("id = ?", strings.TrimSpace(talkID)).
		Updates(map[string]any{
			"has_quiz":   hasQuiz,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("talk_repo_set_has_quiz_failed", result.Error, "talk_id", strings.TrimSpace(talkID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTalkNotFound
	}
	return nil
}

// DeleteTalkCascade removes every dependent row and the talk inside one
// transaction, child tables first. Any failure rolls the whole cascade back.
func (r *Repository) DeleteTalkCascade(ctx context.Context, talkID string) error {
	talkID = strings.TrimSpace(talkID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("talk_id = ?", talkID).Delete(&quizAnswerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talk_id = ?", talkID).Delete(&quizQuestionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talk_id = ?", talkID).Delete(&quizResultModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where(
			"distribution_id IN (?)",
			tx.Model(&distributionModel{}).Select("id").Where("talk_id = ?", talkID),
		).Delete(&confirmationModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talk_id = ?", talkID).Delete(&distributionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talk_id = ?", talkID).Delete(&testDistributionModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", talkID).Delete(&talkModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrTalkNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrTalkNotFound) {
			return err
		}
		r.logger.Error("talk delete cascade rolled back",
			"event", "talk_repo_delete_cascade_failed",
			"module", "safety-training/talk-service",
			"layer", "adapter",
			"talk_id", talkID,
			"error", err.Error(),
		)
		return fmt.Errorf("delete talk %s: %w", talkID, domainerrors.ErrCascadeFailed)
	}
	return nil
}

// --- DistributionStore ---

func (r *Repository) CreateDistribution(ctx context.Context, distribution entities.Distribution) error {
	row := distributionModelFromEntity(distribution)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if constraint, violated := uniqueViolation(err); violated {
			if strings.Contains(constraint, "token") {
				return domainerrors.ErrDuplicateToken
			}
			return domainerrors.ErrDuplicateDistribution
		}
		return r.logError("talk_repo_create_distribution_failed", err,
			"distribution_id", row.ID,
			"talk_id", row.TalkID,
			"recipient_id", row.RecipientID,
		)
	}
	return nil
}

func (r *Repository) GetDistribution(ctx context.Context, distributionID string) (entities.Distribution, error) {
	var row distributionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(distributionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Distribution{}, domainerrors.ErrDistributionNotFound
		}
		return entities.Distribution{}, r.logError("talk_repo_get_distribution_failed", err,
			"distribution_id", strings.TrimSpace(distributionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetDistributionByRecipient(
	ctx context.Context,
	talkID string,
	recipientID string,
) (entities.Distribution, bool, error) {
	var row distributionModel
	err := r.db.WithContext(ctx).
		Where("talk_id = ?", strings.TrimSpace(talkID)).
		Where("recipient_id = ?", strings.TrimSpace(recipientID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Distribution{}, false, nil
		}
		return entities.Distribution{}, false, r.logError("talk_repo_get_distribution_by_recipient_failed", err,
			"talk_id", strings.TrimSpace(talkID),
			"recipient_id", strings.TrimSpace(recipientID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListDistributionsByTalk(ctx context.Context, talkID string) ([]entities.Distribution, error) {
	var rows []distributionModel
	if err := r.db.WithContext(ctx).
		Where("talk_id = ?", strings.TrimSpace(talkID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("talk_repo_list_distributions_failed", err, "talk_id", strings.TrimSpace(talkID))
	}
	items := make([]entities.Distribution, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateDelivery(
	ctx context.Context,
	distributionID string,
	emailStatus entities.DeliveryStatus,
	smsStatus entities.DeliveryStatus,
	notificationCount int,
	updatedAt time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&distributionModel{}).
		Where("id = ?", strings.TrimSpace(distributionID)).
		Updates(map[string]any{
			"email_status":       string(emailStatus),
			"sms_status":         string(smsStatus),
			"notification_count": notificationCount,
			"updated_at":         updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("talk_repo_update_delivery_failed", result.Error,
			"distribution_id", strings.TrimSpace(distributionID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrDistributionNotFound
	}
	return nil
}

// --- ConfirmationStore ---

func (r *Repository) CreateConfirmation(ctx context.Context, confirmation entities.Confirmation) error {
	row := confirmationModelFromEntity(confirmation)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if _, violated := uniqueViolation(err); violated {
			return domainerrors.ErrAlreadyConfirmed
		}
		return r.logError("talk_repo_create_confirmation_failed", err,
			"confirmation_id", row.ID,
			"distribution_id", row.DistributionID,
		)
	}
	return nil
}

func (r *Repository) GetConfirmationByDistribution(ctx context.Context, distributionID string) (entities.Confirmation, bool, error) {
	var row confirmationModel
	err := r.db.WithContext(ctx).
		Where("distribution_id = ?", strings.TrimSpace(distributionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Confirmation{}, false, nil
		}
		return entities.Confirmation{}, false, r.logError("talk_repo_get_confirmation_failed", err,
			"distribution_id", strings.TrimSpace(distributionID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListConfirmedDistributionIDs(ctx context.Context, talkID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&confirmationModel{}).
		Select("confirmations.distribution_id").
		Joins("JOIN distributions ON distributions.id = confirmations.distribution_id").
		Where("distributions.talk_id = ?", strings.TrimSpace(talkID)).
		Scan(&ids).
		Error
	if err != nil {
		return nil, r.logError("talk_repo_list_confirmed_failed", err, "talk_id", strings.TrimSpace(talkID))
	}
	return ids, nil
}

// --- QuizStore ---

// ReplaceQuiz deletes the prior question/answer set and inserts the new one
// inside one transaction; readers never observe a partial quiz.
func (r *Repository) ReplaceQuiz(ctx context.Context, talkID string, questions []entities.QuizQuestion) error {
	talkID = strings.TrimSpace(talkID)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("talk_id = ?", talkID).Delete(&quizAnswerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("talk_id = ?", talkID).Delete(&quizQuestionModel{}).Error; err != nil {
			return err
		}
		for _, question := range questions {
			questionRow := quizQuestionModelFromEntity(question)
			if err := tx.Create(&questionRow).Error; err != nil {
				return err
			}
			for _, answer := range question.Answers {
				answerRow := quizAnswerModelFromEntity(answer)
				if err := tx.Create(&answerRow).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("talk_repo_replace_quiz_failed", err, "talk_id", talkID)
	}
	return nil
}

func (r *Repository) GetQuiz(ctx context.Context, talkID string) ([]entities.QuizQuestion, error) {
	talkID = strings.TrimSpace(talkID)
	var questionRows []quizQuestionModel
	if err := r.db.WithContext(ctx).
		Where("talk_id = ?", talkID).
		Order("position ASC").
		Find(&questionRows).Error; err != nil {
		return nil, r.logError("talk_repo_get_quiz_questions_failed", err, "talk_id", talkID)
	}
	if len(questionRows) == 0 {
		return nil, domainerrors.ErrQuizNotFound
	}
	var answerRows []quizAnswerModel
	if err := r.db.WithContext(ctx).
		Where("talk_id = ?", talkID).
		Order("position ASC").
		Find(&answerRows).Error; err != nil {
		return nil, r.logError("talk_repo_get_quiz_answers_failed", err, "talk_id", talkID)
	}

	answersByQuestion := make(map[string][]entities.QuizAnswer, len(questionRows))
	for _, row := range answerRows {
		answersByQuestion[row.QuestionID] = append(answersByQuestion[row.QuestionID], row.toEntity())
	}
	questions := make([]entities.QuizQuestion, 0, len(questionRows))
	for _, row := range questionRows {
		question := row.toEntity()
		question.Answers = answersByQuestion[row.ID]
		questions = append(questions, question)
	}
	return questions, nil
}

func (r *Repository) UpsertQuizResult(ctx context.Context, result entities.QuizResult) error {
	row := quizResultModelFromEntity(result)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "distribution_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":        row.Score,
			"passed":       row.Passed,
			"attempted_at": row.AttemptedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("talk_repo_upsert_quiz_result_failed", create.Error,
			"distribution_id", row.DistributionID,
		)
	}
	return nil
}

func (r *Repository) GetQuizResultByDistribution(ctx context.Context, distributionID string) (entities.QuizResult, bool, error) {
	var row quizResultModel
	err := r.db.WithContext(ctx).
		Where("distribution_id = ?", strings.TrimSpace(distributionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.QuizResult{}, false, nil
		}
		return entities.QuizResult{}, false, r.logError("talk_repo_get_quiz_result_failed", err,
			"distribution_id", strings.TrimSpace(distributionID),
		)
	}
	return row.toEntity(), true, nil
}

// --- TestDistributionStore ---

func (r *Repository) CreateTestDistribution(ctx context.Context, testDistribution entities.TestDistribution) error {
	row := testDistributionModelFromEntity(testDistribution)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if _, violated := uniqueViolation(err); violated {
			return domainerrors.ErrDuplicateToken
		}
		return r.logError("talk_repo_create_test_distribution_failed", err, "talk_id", row.TalkID)
	}
	return nil
}

func (r *Repository) ListTestDistributionsByTalk(ctx context.Context, talkID string) ([]entities.TestDistribution, error) {
	var rows []testDistributionModel
	if err := r.db.WithContext(ctx).
		Where("talk_id = ?", strings.TrimSpace(talkID)).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("talk_repo_list_test_distributions_failed", err, "talk_id", strings.TrimSpace(talkID))
	}
	items := make([]entities.TestDistribution, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteTestDistributionsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff.UTC()).
		Delete(&testDistributionModel{})
	if result.Error != nil {
		return 0, r.logError("talk_repo_purge_test_distributions_failed", result.Error)
	}
	return int(result.RowsAffected), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "safety-training/talk-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("talk repository operation failed", fields...)
	return err
}

func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}
