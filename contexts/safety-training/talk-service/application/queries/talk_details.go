package queries

import (
	"context"
	"strings"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"
)

type DistributionDetail struct {
	Distribution entities.Distribution
	Recipient    ports.Recipient
	Confirmed    bool
	ConfirmedAt  *time.Time
	Understood   bool
	QuizResult   *entities.QuizResult
}

type TalkDetails struct {
	Talk          entities.SafetyTalk
	Quiz          []entities.QuizQuestion
	Distributions []DistributionDetail
}

type TalkDetailsUseCase struct {
	Talks         ports.TalkRepository
	Distributions ports.DistributionStore
	Confirmations ports.ConfirmationStore
	Quizzes       ports.QuizStore
	Directory     ports.RecipientDirectory
}

// GetTalkDetails assembles the admin detail view: the talk, its quiz when one
// exists, and every distribution annotated with acknowledgement state.
func (uc TalkDetailsUseCase) GetTalkDetails(ctx context.Context, talkID string) (TalkDetails, error) {
	talkID = strings.TrimSpace(talkID)
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return TalkDetails{}, err
	}
	details := TalkDetails{Talk: talk}

	if talk.HasQuiz {
		quiz, err := uc.Quizzes.GetQuiz(ctx, talkID)
		if err != nil {
			return TalkDetails{}, err
		}
		details.Quiz = quiz
	}

	distributions, err := uc.Distributions.ListDistributionsByTalk(ctx, talkID)
	if err != nil {
		return TalkDetails{}, err
	}
	for _, distribution := range distributions {
		detail := DistributionDetail{Distribution: distribution}
		if recipient, err := uc.Directory.Lookup(ctx, distribution.RecipientID); err == nil {
			detail.Recipient = recipient
		} else {
			detail.Recipient = ports.Recipient{RecipientID: distribution.RecipientID}
		}
		if confirmation, found, err := uc.Confirmations.GetConfirmationByDistribution(ctx, distribution.DistributionID); err != nil {
			return TalkDetails{}, err
		} else if found {
			confirmedAt := confirmation.ConfirmedAt
			detail.Confirmed = true
			detail.ConfirmedAt = &confirmedAt
			detail.Understood = confirmation.Understood
		}
		if result, found, err := uc.Quizzes.GetQuizResultByDistribution(ctx, distribution.DistributionID); err != nil {
			return TalkDetails{}, err
		} else if found {
			quizResult := result
			detail.QuizResult = &quizResult
		}
		details.Distributions = append(details.Distributions, detail)
	}
	return details, nil
}

// GetQuiz returns the ordered question/answer structure for a talk.
func (uc TalkDetailsUseCase) GetQuiz(ctx context.Context, talkID string) ([]entities.QuizQuestion, error) {
	talkID = strings.TrimSpace(talkID)
	talk, err := uc.Talks.GetTalk(ctx, talkID)
	if err != nil {
		return nil, err
	}
	if !talk.HasQuiz {
		return nil, domainerrors.ErrQuizNotFound
	}
	return uc.Quizzes.GetQuiz(ctx, talkID)
}
