package entities

import "time"

type QuizQuestion struct {
	QuestionID string
	TalkID     string
	Position   int
	Text       string
	Answers    []QuizAnswer
}

type QuizAnswer struct {
	AnswerID   string
	QuestionID string
	TalkID     string
	Position   int
	Text       string
	Correct    bool
}

// QuizResult keeps only the latest attempt per distribution; retakes
// overwrite the prior row.
type QuizResult struct {
	ResultID       string
	DistributionID string
	TalkID         string
	Score          int
	Passed         bool
	AttemptedAt    time.Time
}
