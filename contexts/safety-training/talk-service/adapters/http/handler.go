package httpadapter

import (
	"context"
	"log/slog"

	"toolbox/contexts/safety-training/talk-service/application/commands"
	"toolbox/contexts/safety-training/talk-service/application/queries"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	httptransport "toolbox/contexts/safety-training/talk-service/transport/http"
)

type Handler struct {
	Talks         commands.TalkUseCase
	Distributions commands.DistributionUseCase
	Confirmations commands.ConfirmationUseCase
	Quizzes       commands.QuizUseCase
	Lifecycle     commands.LifecycleUseCase
	Compliance    queries.ComplianceUseCase
	Details       queries.TalkDetailsUseCase
	Logger        *slog.Logger
}

func (h Handler) CreateTalkHandler(
	ctx context.Context,
	actorID string,
	req httptransport.CreateTalkRequest,
) (httptransport.TalkResponse, error) {
	talk, err := h.Talks.CreateDraftTalk(ctx, commands.CreateTalkCommand{
		ActorID:     actorID,
		Title:       req.Title,
		Description: req.Description,
		Content: entities.AttachmentRef{
			Kind: entities.AttachmentKind(req.Content.Kind),
			Body: req.Content.Body,
			Path: req.Content.Path,
			URL:  req.Content.URL,
		},
		Quiz: mapQuizInputs(req.Quiz),
	})
	if err != nil {
		return httptransport.TalkResponse{}, err
	}
	return mapTalk(talk), nil
}

func (h Handler) DistributeHandler(
	ctx context.Context,
	actorID string,
	talkID string,
	req httptransport.DistributeRequest,
) (httptransport.DistributionReportResponse, error) {
	report, err := h.Distributions.Distribute(ctx, commands.DistributeCommand{
		ActorID:      actorID,
		TalkID:       talkID,
		RecipientIDs: req.RecipientIDs,
	})
	if err != nil {
		return httptransport.DistributionReportResponse{}, err
	}
	resp := httptransport.DistributionReportResponse{
		TalkID:      report.TalkID,
		Distributed: report.Distributed,
		Skipped:     report.Skipped,
		Failed:      report.Failed,
	}
	for _, result := range report.Results {
		resp.Results = append(resp.Results, httptransport.RecipientResultResponse{
			RecipientID:    result.RecipientID,
			Outcome:        string(result.Outcome),
			DistributionID: result.DistributionID,
			Reason:         result.Reason,
		})
	}
	return resp, nil
}

func (h Handler) ReminderHandler(
	ctx context.Context,
	actorID string,
	distributionID string,
	req httptransport.ReminderRequest,
) (httptransport.ReminderResponse, error) {
	channels := make([]entities.Channel, 0, len(req.Channels))
	for _, channel := range req.Channels {
		channels = append(channels, entities.Channel(channel))
	}
	result, err := h.Distributions.SendReminder(ctx, commands.ReminderCommand{
		ActorID:        actorID,
		DistributionID: distributionID,
		Channels:       channels,
	})
	if err != nil {
		return httptransport.ReminderResponse{}, err
	}
	resp := httptransport.ReminderResponse{
		DistributionID:    result.DistributionID,
		Delivered:         make([]string, 0, len(result.Delivered)),
		NotificationCount: result.NotificationCount,
	}
	for _, channel := range result.Delivered {
		resp.Delivered = append(resp.Delivered, string(channel))
	}
	for _, failure := range result.Failures {
		resp.Failures = append(resp.Failures, httptransport.ChannelFailureResponse{
			Channel: string(failure.Channel),
			Reason:  failure.Reason,
		})
	}
	return resp, nil
}

func (h Handler) ConfirmHandler(
	ctx context.Context,
	distributionID string,
	sourceAddress string,
	req httptransport.ConfirmRequest,
) (httptransport.ConfirmResponse, error) {
	confirmation, err := h.Confirmations.RecordConfirmation(ctx, commands.RecordConfirmationCommand{
		DistributionID: distributionID,
		SignatureImage: req.SignatureImage,
		SourceAddress:  sourceAddress,
		Understood:     req.Understood,
	})
	if err != nil {
		return httptransport.ConfirmResponse{}, err
	}
	return httptransport.ConfirmResponse{
		ConfirmationID: confirmation.ConfirmationID,
		DistributionID: confirmation.DistributionID,
		Understood:     confirmation.Understood,
		ConfirmedAt:    confirmation.ConfirmedAt,
	}, nil
}

func (h Handler) SaveQuizHandler(
	ctx context.Context,
	actorID string,
	talkID string,
	req httptransport.SaveQuizRequest,
) error {
	return h.Quizzes.SaveQuiz(ctx, commands.SaveQuizCommand{
		ActorID:   actorID,
		TalkID:    talkID,
		Questions: mapQuizInputs(req.Questions),
	})
}

func (h Handler) GetQuizHandler(ctx context.Context, talkID string) (httptransport.QuizResponse, error) {
	questions, err := h.Details.GetQuiz(ctx, talkID)
	if err != nil {
		return httptransport.QuizResponse{}, err
	}
	return httptransport.QuizResponse{
		TalkID:    talkID,
		Questions: mapQuizQuestions(questions),
	}, nil
}

func (h Handler) QuizResultHandler(
	ctx context.Context,
	distributionID string,
	req httptransport.QuizResultRequest,
) (httptransport.QuizResultResponse, error) {
	result, err := h.Quizzes.RecordQuizResult(ctx, commands.RecordQuizResultCommand{
		DistributionID: distributionID,
		Score:          req.Score,
		Passed:         req.Passed,
	})
	if err != nil {
		return httptransport.QuizResultResponse{}, err
	}
	return httptransport.QuizResultResponse{
		DistributionID: result.DistributionID,
		Score:          result.Score,
		Passed:         result.Passed,
		AttemptedAt:    result.AttemptedAt,
	}, nil
}

func (h Handler) ArchiveHandler(ctx context.Context, actorID string, talkID string) error {
	return h.Lifecycle.Archive(ctx, actorID, talkID)
}

func (h Handler) UnarchiveHandler(ctx context.Context, actorID string, talkID string) error {
	return h.Lifecycle.Unarchive(ctx, actorID, talkID)
}

func (h Handler) DeleteTalkHandler(ctx context.Context, actorID string, talkID string) error {
	return h.Lifecycle.DeleteTalk(ctx, actorID, talkID)
}

func (h Handler) TestLinkHandler(ctx context.Context, actorID string, talkID string) (httptransport.TestLinkResponse, error) {
	testDistribution, err := h.Lifecycle.CreateTestLink(ctx, actorID, talkID)
	if err != nil {
		return httptransport.TestLinkResponse{}, err
	}
	return httptransport.TestLinkResponse{
		TalkID:    testDistribution.TalkID,
		Token:     testDistribution.Token,
		CreatedAt: testDistribution.CreatedAt,
	}, nil
}

func (h Handler) PurgeTestLinksHandler(ctx context.Context, retentionDays int) (httptransport.PurgeTestLinksResponse, error) {
	purged, err := h.Lifecycle.PurgeExpiredTestLinks(ctx, retentionDays)
	if err != nil {
		return httptransport.PurgeTestLinksResponse{}, err
	}
	return httptransport.PurgeTestLinksResponse{Purged: purged}, nil
}

func (h Handler) TalkDetailsHandler(ctx context.Context, talkID string) (httptransport.TalkDetailsResponse, error) {
	details, err := h.Details.GetTalkDetails(ctx, talkID)
	if err != nil {
		return httptransport.TalkDetailsResponse{}, err
	}
	resp := httptransport.TalkDetailsResponse{
		Talk: mapTalk(details.Talk),
		Quiz: mapQuizQuestions(details.Quiz),
	}
	for _, detail := range details.Distributions {
		item := httptransport.DistributionDetailResponse{
			DistributionID:    detail.Distribution.DistributionID,
			RecipientID:       detail.Distribution.RecipientID,
			RecipientName:     detail.Recipient.Name,
			SentAt:            detail.Distribution.SentAt,
			EmailStatus:       string(detail.Distribution.EmailStatus),
			SMSStatus:         string(detail.Distribution.SMSStatus),
			NotificationCount: detail.Distribution.NotificationCount,
			Confirmed:         detail.Confirmed,
			ConfirmedAt:       detail.ConfirmedAt,
			Understood:        detail.Understood,
		}
		if detail.QuizResult != nil {
			item.QuizResult = &httptransport.QuizResultResponse{
				DistributionID: detail.QuizResult.DistributionID,
				Score:          detail.QuizResult.Score,
				Passed:         detail.QuizResult.Passed,
				AttemptedAt:    detail.QuizResult.AttemptedAt,
			}
		}
		resp.Distributions = append(resp.Distributions, item)
	}
	return resp, nil
}

func (h Handler) PendingSignaturesHandler(ctx context.Context, windowDays int) (httptransport.PendingSignaturesResponse, error) {
	reports, err := h.Compliance.PendingSignatures(ctx, windowDays)
	if err != nil {
		return httptransport.PendingSignaturesResponse{}, err
	}
	resp := httptransport.PendingSignaturesResponse{WindowDays: windowDays}
	for _, report := range reports {
		item := httptransport.PendingSignaturesReportResponse{
			TalkID:             report.TalkID,
			Title:              report.Title,
			FirstDistributedAt: report.FirstDistributedAt,
			TotalDistributed:   report.TotalDistributed,
			TotalSigned:        report.TotalSigned,
		}
		for _, pending := range report.Pending {
			item.Pending = append(item.Pending, httptransport.PendingRecipientResponse{
				RecipientID: pending.RecipientID,
				Name:        pending.Name,
			})
		}
		resp.Reports = append(resp.Reports, item)
	}
	return resp, nil
}

func (h Handler) OverallStatusHandler(ctx context.Context) (httptransport.OverallStatusResponse, error) {
	status, err := h.Compliance.Overall(ctx)
	if err != nil {
		return httptransport.OverallStatusResponse{}, err
	}
	return httptransport.OverallStatusResponse{
		TotalTalks:         status.TotalTalks,
		TotalDistributions: status.TotalDistributions,
		TotalConfirmations: status.TotalConfirmations,
	}, nil
}

func mapQuizInputs(questions []httptransport.QuizQuestionRequest) []commands.QuizQuestionInput {
	inputs := make([]commands.QuizQuestionInput, 0, len(questions))
	for _, question := range questions {
		inputs = append(inputs, commands.QuizQuestionInput{
			Text:               question.Text,
			Answers:            question.Answers,
			CorrectAnswerIndex: question.CorrectAnswerIndex,
		})
	}
	return inputs
}

func mapQuizQuestions(questions []entities.QuizQuestion) []httptransport.QuizQuestionResponse {
	items := make([]httptransport.QuizQuestionResponse, 0, len(questions))
	for _, question := range questions {
		item := httptransport.QuizQuestionResponse{Text: question.Text}
		for _, answer := range question.Answers {
			item.Answers = append(item.Answers, httptransport.QuizAnswerResponse{
				Text:    answer.Text,
				Correct: answer.Correct,
			})
		}
		items = append(items, item)
	}
	return items
}

func mapTalk(talk entities.SafetyTalk) httptransport.TalkResponse {
	return httptransport.TalkResponse{
		TalkID:      talk.TalkID,
		Title:       talk.Title,
		Description: talk.Description,
		Content: httptransport.AttachmentRefDTO{
			Kind: string(talk.Content.Kind),
			Body: talk.Content.Body,
			Path: talk.Content.Path,
			URL:  talk.Content.URL,
		},
		HasQuiz:            talk.HasQuiz,
		Status:             string(talk.Status),
		CreatedBy:          talk.CreatedBy,
		CreatedAt:          talk.CreatedAt,
		FirstDistributedAt: talk.FirstDistributedAt,
		ArchivedAt:         talk.ArchivedAt,
	}
}
