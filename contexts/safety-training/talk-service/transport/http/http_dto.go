package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AttachmentRefDTO struct {
	Kind string `json:"kind"`
	Body string `json:"body,omitempty"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

type QuizQuestionRequest struct {
	Text               string   `json:"text"`
	Answers            []string `json:"answers"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

type CreateTalkRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Content     AttachmentRefDTO      `json:"content"`
	Quiz        []QuizQuestionRequest `json:"quiz,omitempty"`
}

type TalkResponse struct {
	TalkID             string           `json:"talk_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Content            AttachmentRefDTO `json:"content"`
	HasQuiz            bool             `json:"has_quiz"`
	Status             string           `json:"status"`
	CreatedBy          string           `json:"created_by"`
	CreatedAt          time.Time        `json:"created_at"`
	FirstDistributedAt *time.Time       `json:"first_distributed_at,omitempty"`
	ArchivedAt         *time.Time       `json:"archived_at,omitempty"`
}

type DistributeRequest struct {
	RecipientIDs []string `json:"recipient_ids"`
}

type RecipientResultResponse struct {
	RecipientID    string `json:"recipient_id"`
	Outcome        string `json:"outcome"`
	DistributionID string `json:"distribution_id,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

type DistributionReportResponse struct {
	TalkID      string                    `json:"talk_id"`
	Distributed int                       `json:"distributed"`
	Skipped     int                       `json:"skipped"`
	Failed      int                       `json:"failed"`
	Results     []RecipientResultResponse `json:"results"`
}

type ReminderRequest struct {
	Channels []string `json:"channels"`
}

type ChannelFailureResponse struct {
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

type ReminderResponse struct {
	DistributionID    string                   `json:"distribution_id"`
	Delivered         []string                 `json:"delivered"`
	Failures          []ChannelFailureResponse `json:"failures,omitempty"`
	NotificationCount int                      `json:"notification_count"`
}

type ConfirmRequest struct {
	SignatureImage string `json:"signature_image"`
	Understood     bool   `json:"understood"`
}

type ConfirmResponse struct {
	ConfirmationID string    `json:"confirmation_id"`
	DistributionID string    `json:"distribution_id"`
	Understood     bool      `json:"understood"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

type SaveQuizRequest struct {
	Questions []QuizQuestionRequest `json:"questions"`
}

type QuizAnswerResponse struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

type QuizQuestionResponse struct {
	Text    string               `json:"text"`
	Answers []QuizAnswerResponse `json:"answers"`
}

type QuizResponse struct {
	TalkID    string                 `json:"talk_id"`
	Questions []QuizQuestionResponse `json:"questions"`
}

type QuizResultRequest struct {
	Score  int  `json:"score"`
	Passed bool `json:"passed"`
}

type QuizResultResponse struct {
	DistributionID string    `json:"distribution_id"`
	Score          int       `json:"score"`
	Passed         bool      `json:"passed"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

type DistributionDetailResponse struct {
	DistributionID    string              `json:"distribution_id"`
	RecipientID       string              `json:"recipient_id"`
	RecipientName     string              `json:"recipient_name,omitempty"`
	SentAt            time.Time           `json:"sent_at"`
	EmailStatus       string              `json:"email_status"`
	SMSStatus         string              `json:"sms_status"`
	NotificationCount int                 `json:"notification_count"`
	Confirmed         bool                `json:"confirmed"`
	ConfirmedAt       *time.Time          `json:"confirmed_at,omitempty"`
	Understood        bool                `json:"understood,omitempty"`
	QuizResult        *QuizResultResponse `json:"quiz_result,omitempty"`
}

type TalkDetailsResponse struct {
	Talk          TalkResponse                 `json:"talk"`
	Quiz          []QuizQuestionResponse       `json:"quiz,omitempty"`
	Distributions []DistributionDetailResponse `json:"distributions"`
}

type TestLinkResponse struct {
	TalkID    string    `json:"talk_id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type PurgeTestLinksResponse struct {
	Purged int `json:"purged"`
}

type PendingRecipientResponse struct {
	RecipientID string `json:"recipient_id"`
	Name        string `json:"name"`
}

type PendingSignaturesReportResponse struct {
	TalkID             string                     `json:"talk_id"`
	Title              string                     `json:"title"`
	FirstDistributedAt time.Time                  `json:"first_distributed_at"`
	TotalDistributed   int                        `json:"total_distributed"`
	TotalSigned        int                        `json:"total_signed"`
	Pending            []PendingRecipientResponse `json:"pending"`
}

type PendingSignaturesResponse struct {
	WindowDays int                               `json:"window_days"`
	Reports    []PendingSignaturesReportResponse `json:"reports"`
}

type OverallStatusResponse struct {
	TotalTalks         int `json:"total_talks"`
	TotalDistributions int `json:"total_distributions"`
	TotalConfirmations int `json:"total_confirmations"`
}
