package postgresadapter

import (
	"strings"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
)

type talkModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	Title              string     `gorm:"column:title"`
	Description        string     `gorm:"column:description"`
	ContentKind        string     `gorm:"column:content_kind"`
	ContentBody        string     `gorm:"column:content_body"`
	ContentPath        string     `gorm:"column:content_path"`
	ContentURL         string     `gorm:"column:content_url"`
	HasQuiz            bool       `gorm:"column:has_quiz"`
	Status             string     `gorm:"column:status;index"`
	CreatedBy          string     `gorm:"column:created_by"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	FirstDistributedAt *time.Time `gorm:"column:first_distributed_at"`
	ArchivedAt         *time.Time `gorm:"column:archived_at"`
}

func (talkModel) TableName() string {
	return "safety_talks"
}

func talkModelFromEntity(talk entities.SafetyTalk) talkModel {
	row := talkModel{
		ID:                 strings.TrimSpace(talk.TalkID),
		Title:              talk.Title,
		Description:        talk.Description,
		ContentKind:        string(talk.Content.Kind),
		ContentBody:        talk.Content.Body,
		ContentPath:        talk.Content.Path,
		ContentURL:         talk.Content.URL,
		HasQuiz:            talk.HasQuiz,
		Status:             string(talk.Status),
		CreatedBy:          strings.TrimSpace(talk.CreatedBy),
		CreatedAt:          talk.CreatedAt.UTC(),
		UpdatedAt:          talk.UpdatedAt.UTC(),
		FirstDistributedAt: talk.FirstDistributedAt,
		ArchivedAt:         talk.ArchivedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m talkModel) toEntity() entities.SafetyTalk {
	return entities.SafetyTalk{
		TalkID:      m.ID,
		Title:       m.Title,
		Description: m.Description,
		Content: entities.AttachmentRef{
			Kind: entities.AttachmentKind(m.ContentKind),
			Body: m.ContentBody,
			Path: m.ContentPath,
			URL:  m.ContentURL,
		},
		HasQuiz:            m.HasQuiz,
		Status:             entities.TalkStatus(m.Status),
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		FirstDistributedAt: m.FirstDistributedAt,
		ArchivedAt:         m.ArchivedAt,
	}
}

type distributionModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	TalkID            string    `gorm:"column:talk_id;uniqueIndex:idx_distributions_talk_recipient"`
	RecipientID       string    `gorm:"column:recipient_id;uniqueIndex:idx_distributions_talk_recipient"`
	Token             string    `gorm:"column:token;uniqueIndex:idx_distributions_token"`
	SentAt            time.Time `gorm:"column:sent_at"`
	EmailStatus       string    `gorm:"column:email_status"`
	SMSStatus         string    `gorm:"column:sms_status"`
	NotificationCount int       `gorm:"column:notification_count"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (distributionModel) TableName() string {
	return "distributions"
}

func distributionModelFromEntity(distribution entities.Distribution) distributionModel {
	return distributionModel{
		ID:                strings.TrimSpace(distribution.DistributionID),
		TalkID:            strings.TrimSpace(distribution.TalkID),
		RecipientID:       strings.TrimSpace(distribution.RecipientID),
		Token:             distribution.Token,
		SentAt:            distribution.SentAt.UTC(),
		EmailStatus:       string(distribution.EmailStatus),
		SMSStatus:         string(distribution.SMSStatus),
		NotificationCount: distribution.NotificationCount,
		CreatedAt:         distribution.CreatedAt.UTC(),
		UpdatedAt:         distribution.UpdatedAt.UTC(),
	}
}

func (m distributionModel) toEntity() entities.Distribution {
	return entities.Distribution{
		DistributionID:    m.ID,
		TalkID:            m.TalkID,
		RecipientID:       m.RecipientID,
		Token:             m.Token,
		SentAt:            m.SentAt,
		EmailStatus:       entities.DeliveryStatus(m.EmailStatus),
		SMSStatus:         entities.DeliveryStatus(m.SMSStatus),
		NotificationCount: m.NotificationCount,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

type confirmationModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	DistributionID string    `gorm:"column:distribution_id;uniqueIndex:idx_confirmations_distribution"`
	SignatureImage string    `gorm:"column:signature_image"`
	SourceAddress  string    `gorm:"column:source_address"`
	Understood     bool      `gorm:"column:understood"`
	ConfirmedAt    time.Time `gorm:"column:confirmed_at"`
}

func (confirmationModel) TableName() string {
	return "confirmations"
}

func confirmationModelFromEntity(confirmation entities.Confirmation) confirmationModel {
	return confirmationModel{
		ID:             strings.TrimSpace(confirmation.ConfirmationID),
		DistributionID: strings.TrimSpace(confirmation.DistributionID),
		SignatureImage: confirmation.SignatureImage,
		SourceAddress:  confirmation.SourceAddress,
		Understood:     confirmation.Understood,
		ConfirmedAt:    confirmation.ConfirmedAt.UTC(),
	}
}

func (m confirmationModel) toEntity() entities.Confirmation {
	return entities.Confirmation{
		ConfirmationID: m.ID,
		DistributionID: m.DistributionID,
		SignatureImage: m.SignatureImage,
		SourceAddress:  m.SourceAddress,
		Understood:     m.Understood,
		ConfirmedAt:    m.ConfirmedAt,
	}
}

type quizQuestionModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	TalkID   string `gorm:"column:talk_id;index"`
	Position int    `gorm:"column:position"`
	Text     string `gorm:"column:text"`
}

func (quizQuestionModel) TableName() string {
	return "quiz_questions"
}

func quizQuestionModelFromEntity(question entities.QuizQuestion) quizQuestionModel {
	return quizQuestionModel{
		ID:       strings.TrimSpace(question.QuestionID),
		TalkID:   strings.TrimSpace(question.TalkID),
		Position: question.Position,
		Text:     question.Text,
	}
}

func (m quizQuestionModel) toEntity() entities.QuizQuestion {
	return entities.QuizQuestion{
		QuestionID: m.ID,
		TalkID:     m.TalkID,
		Position:   m.Position,
		Text:       m.Text,
	}
}

type quizAnswerModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	QuestionID string `gorm:"column:question_id;index"`
	TalkID     string `gorm:"column:talk_id;index"`
	Position   int    `gorm:"column:position"`
	Text       string `gorm:"column:text"`
	Correct    bool   `gorm:"column:correct"`
}

func (quizAnswerModel) TableName() string {
	return "quiz_answers"
}

func quizAnswerModelFromEntity(answer entities.QuizAnswer) quizAnswerModel {
	return quizAnswerModel{
		ID:         strings.TrimSpace(answer.AnswerID),
		QuestionID: strings.TrimSpace(answer.QuestionID),
		TalkID:     strings.TrimSpace(answer.TalkID),
		Position:   answer.Position,
		Text:       answer.Text,
		Correct:    answer.Correct,
	}
}

func (m quizAnswerModel) toEntity() entities.QuizAnswer {
	return entities.QuizAnswer{
		AnswerID:   m.ID,
		QuestionID: m.QuestionID,
		TalkID:     m.TalkID,
		Position:   m.Position,
		Text:       m.Text,
		Correct:    m.Correct,
	}
}

type quizResultModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	DistributionID string    `gorm:"column:distribution_id;uniqueIndex:idx_quiz_results_distribution"`
	TalkID         string    `gorm:"column:talk_id;index"`
	Score          int       `gorm:"column:score"`
	Passed         bool      `gorm:"column:passed"`
	AttemptedAt    time.Time `gorm:"column:attempted_at"`
}

func (quizResultModel) TableName() string {
	return "quiz_results"
}

func quizResultModelFromEntity(result entities.QuizResult) quizResultModel {
	return quizResultModel{
		ID:             strings.TrimSpace(result.ResultID),
		DistributionID: strings.TrimSpace(result.DistributionID),
		TalkID:         strings.TrimSpace(result.TalkID),
		Score:          result.Score,
		Passed:         result.Passed,
		AttemptedAt:    result.AttemptedAt.UTC(),
	}
}

func (m quizResultModel) toEntity() entities.QuizResult {
	return entities.QuizResult{
		ResultID:       m.ID,
		DistributionID: m.DistributionID,
		TalkID:         m.TalkID,
		Score:          m.Score,
		Passed:         m.Passed,
		AttemptedAt:    m.AttemptedAt,
	}
}

type testDistributionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	TalkID    string    `gorm:"column:talk_id;index"`
	Token     string    `gorm:"column:token;uniqueIndex:idx_test_distributions_token"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (testDistributionModel) TableName() string {
	return "test_distributions"
}

func testDistributionModelFromEntity(testDistribution entities.TestDistribution) testDistributionModel {
	return testDistributionModel{
		ID:        strings.TrimSpace(testDistribution.TestDistributionID),
		TalkID:    strings.TrimSpace(testDistribution.TalkID),
		Token:     testDistribution.Token,
		CreatedAt: testDistribution.CreatedAt.UTC(),
	}
}

func (m testDistributionModel) toEntity() entities.TestDistribution {
	return entities.TestDistribution{
		TestDistributionID: m.ID,
		TalkID:             m.TalkID,
		Token:              m.Token,
		CreatedAt:          m.CreatedAt,
	}
}
