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

type QuizQuestionInput struct {
	Text               string
	Answers            []string
	CorrectAnswerIndex int
}

type SaveQuizCommand struct {
	ActorID   string
	TalkID    string
	Questions []QuizQuestionInput
}

type RecordQuizResultCommand struct {
	DistributionID string
	Score          int
	Passed         bool
}

type QuizUseCase struct {
	Talks         ports.TalkRepository
	Quizzes       ports.QuizStore
	Distributions ports.DistributionStore
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

// SaveQuiz replaces the talk's quiz with the submitted question set. The
// replace is delete-then-insert inside one store transaction; a partially
// written quiz is never visible.
func (uc QuizUseCase) SaveQuiz(ctx context.Context, cmd SaveQuizCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	talkID := strings.TrimSpace(cmd.TalkID)
	if talkID == "" {
		return domainerrors.ErrInvalidQuizInput
	}
	if err := validateQuizInput(cmd.Questions); err != nil {
		logger.Warn("quiz validation failed",
			"event", "quiz_save_validation_failed",
			"module", "safety-training/talk-service",
			"layer", "application",
			"talk_id", talkID,
		)
		return err
	}
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return err
	}

	questions, err := buildQuizQuestions(ctx, talkID, cmd.Questions, uc.IDGen)
	if err != nil {
		return err
	}
	if err := uc.Quizzes.ReplaceQuiz(ctx, talkID, questions); err != nil {
		return err
	}
	if !talk.HasQuiz {
		if err := uc.Talks.SetHasQuiz(ctx, talkID, true, uc.now()); err != nil {
			return err
		}
	}

	logger.Info("quiz saved",
		"event", "quiz_saved",
		"module", "safety-training/talk-service",
		"layer", "application",
		"talk_id", talkID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
		"question_count", len(questions),
	)
	return nil
}

// RecordQuizResult upserts the latest attempt for a distribution. Retakes
// overwrite the prior row instead of adding a second one.
func (uc QuizUseCase) RecordQuizResult(ctx context.Context, cmd RecordQuizResultCommand) (entities.QuizResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	distributionID := strings.TrimSpace(cmd.DistributionID)
	if distributionID == "" || cmd.Score < 0 || cmd.Score > 100 {
		return entities.QuizResult{}, domainerrors.ErrInvalidQuizResult
	}
	distribution, err := uc.Distributions.GetDistribution(ctx, distributionID)
	if err != nil {
		return entities.QuizResult{}, err
	}

	resultID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.QuizResult{}, err
	}
	result := entities.QuizResult{
		ResultID:       resultID,
		DistributionID: distribution.DistributionID,
		TalkID:         distribution.TalkID,
		Score:          cmd.Score,
		Passed:         cmd.Passed,
		AttemptedAt:    uc.now(),
	}
	if err := uc.Quizzes.UpsertQuizResult(ctx, result); err != nil {
		return entities.QuizResult{}, err
	}

	logger.Info("quiz result recorded",
		"event", "quiz_result_recorded",
		"module", "safety-training/talk-service",
		"layer", "application",
		"distribution_id", distribution.DistributionID,
		"talk_id", distribution.TalkID,
		"score", cmd.Score,
		"passed", cmd.Passed,
	)
	return result, nil
}

func (uc QuizUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func validateQuizInput(questions []QuizQuestionInput) error {
	if len(questions) == 0 {
		return domainerrors.ErrInvalidQuizInput
	}
	for _, question := range questions {
		if strings.TrimSpace(question.Text) == "" || len(question.Answers) < 2 {
			return domainerrors.ErrInvalidQuizInput
		}
		if question.CorrectAnswerIndex < 0 || question.CorrectAnswerIndex >= len(question.Answers) {
			return domainerrors.ErrInvalidQuizInput
		}
		for _, answer := range question.Answers {
			if strings.TrimSpace(answer) == "" {
				return domainerrors.ErrInvalidQuizInput
			}
		}
	}
	return nil
}

func buildQuizQuestions(
	ctx context.Context,
	talkID string,
	inputs []QuizQuestionInput,
	idGen ports.IDGenerator,
) ([]entities.QuizQuestion, error) {
	questions := make([]entities.QuizQuestion, 0, len(inputs))
	for position, input := range inputs {
		questionID, err := idGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		question := entities.QuizQuestion{
			QuestionID: questionID,
			TalkID:     talkID,
			Position:   position,
			Text:       strings.TrimSpace(input.Text),
		}
		for answerPosition, answerText := range input.Answers {
			answerID, err := idGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			question.Answers = append(question.Answers, entities.QuizAnswer{
				AnswerID:   answerID,
				QuestionID: questionID,
				TalkID:     talkID,
				Position:   answerPosition,
				Text:       strings.TrimSpace(answerText),
				Correct:    answerPosition == input.CorrectAnswerIndex,
			})
		}
		questions = append(questions, question)
	}
	return questions, nil
}
