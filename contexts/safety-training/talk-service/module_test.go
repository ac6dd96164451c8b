package talkservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	talkservice "toolbox/contexts/safety-training/talk-service"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
	"toolbox/contexts/safety-training/talk-service/ports"
	httptransport "toolbox/contexts/safety-training/talk-service/transport/http"
)

func newModuleWithRoster() talkservice.Module {
	module := talkservice.NewInMemoryModule(nil, nil)
	module.Store.SetRecipient(ports.Recipient{
		RecipientID: "emp-1",
		Name:        "Alice Acker",
		Email:       "alice@example.com",
		Phone:       "+4915110000001",
	})
	module.Store.SetRecipient(ports.Recipient{
		RecipientID: "emp-2",
		Name:        "Bob Brandt",
		Email:       "bob@example.com",
		Phone:       "+4915110000002",
	})
	module.Store.SetRecipient(ports.Recipient{
		RecipientID: "emp-3",
		Name:        "Carla Cruz",
		Email:       "carla@example.com",
		Phone:       "+4915110000003",
	})
	return module
}

func createTalk(t *testing.T, module talkservice.Module, title string) httptransport.TalkResponse {
	t.Helper()
	talk, err := module.Handler.CreateTalkHandler(context.Background(), "manager-1", httptransport.CreateTalkRequest{
		Title:       title,
		Description: "mandatory briefing",
		Content:     httptransport.AttachmentRefDTO{Kind: "inline", Body: "Wear your harness above 2m."},
	})
	if err != nil {
		t.Fatalf("create talk failed: %v", err)
	}
	return talk
}

func distribute(t *testing.T, module talkservice.Module, talkID string, recipientIDs ...string) httptransport.DistributionReportResponse {
	t.Helper()
	report, err := module.Handler.DistributeHandler(context.Background(), "manager-1", talkID, httptransport.DistributeRequest{
		RecipientIDs: recipientIDs,
	})
	if err != nil {
		t.Fatalf("distribute failed: %v", err)
	}
	return report
}

func TestDistributeChannelIsolationAndIdempotency(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Working at heights")

	// emp-1 loses only SMS; emp-2 loses both channels.
	module.SMS.FailAddress("+4915110000001")
	module.Email.FailAddress("bob@example.com")
	module.SMS.FailAddress("+4915110000002")

	report := distribute(t, module, talk.TalkID, "emp-1", "emp-2")
	if report.Distributed != 1 || report.Failed != 1 || report.Skipped != 0 {
		t.Fatalf("unexpected report counts: %+v", report)
	}

	outcomes := make(map[string]httptransport.RecipientResultResponse, len(report.Results))
	for _, result := range report.Results {
		outcomes[result.RecipientID] = result
	}
	if outcomes["emp-1"].Outcome != "distributed" {
		t.Fatalf("expected emp-1 distributed, got %+v", outcomes["emp-1"])
	}
	if outcomes["emp-2"].Outcome != "failed" || outcomes["emp-2"].Reason == "" {
		t.Fatalf("expected emp-2 failed with reason, got %+v", outcomes["emp-2"])
	}

	details, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if details.Talk.Status != "distributed" {
		t.Fatalf("expected talk distributed after one successful delivery, got %s", details.Talk.Status)
	}
	if len(details.Distributions) != 2 {
		t.Fatalf("expected distribution rows for both recipients, got %d", len(details.Distributions))
	}
	for _, row := range details.Distributions {
		if row.RecipientID == "emp-1" {
			if row.EmailStatus != "sent" || row.SMSStatus != "failed" {
				t.Fatalf("unexpected emp-1 delivery state: %+v", row)
			}
		}
		if row.RecipientID == "emp-2" && (row.EmailStatus != "failed" || row.SMSStatus != "failed") {
			t.Fatalf("unexpected emp-2 delivery state: %+v", row)
		}
	}

	// Re-distributing an already covered recipient skips without new rows.
	again := distribute(t, module, talk.TalkID, "emp-1")
	if again.Skipped != 1 || again.Distributed != 0 {
		t.Fatalf("expected pure skip on re-distribute, got %+v", again)
	}
	details, err = module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if len(details.Distributions) != 2 {
		t.Fatalf("re-distribute must not add rows, got %d", len(details.Distributions))
	}
}

func TestDistributeValidation(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Ladder safety")

	_, err := module.Handler.DistributeHandler(context.Background(), "manager-1", talk.TalkID, httptransport.DistributeRequest{})
	if !errors.Is(err, domainerrors.ErrEmptyRecipients) {
		t.Fatalf("expected ErrEmptyRecipients, got %v", err)
	}

	_, err = module.Handler.DistributeHandler(context.Background(), "manager-1", "no-such-talk", httptransport.DistributeRequest{
		RecipientIDs: []string{"emp-1"},
	})
	if !errors.Is(err, domainerrors.ErrTalkNotFound) {
		t.Fatalf("expected ErrTalkNotFound, got %v", err)
	}

	// An unknown recipient fails in isolation and the talk stays draft.
	report := distribute(t, module, talk.TalkID, "ghost-9")
	if report.Failed != 1 || report.Distributed != 0 {
		t.Fatalf("expected single failed outcome, got %+v", report)
	}
	details, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if details.Talk.Status != "draft" {
		t.Fatalf("talk must stay draft without a successful delivery, got %s", details.Talk.Status)
	}
}

func TestDistributeSingleStatusTransition(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Lockout tagout")

	distribute(t, module, talk.TalkID, "emp-1")
	first, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if first.Talk.FirstDistributedAt == nil {
		t.Fatalf("expected first_distributed_at stamped")
	}

	distribute(t, module, talk.TalkID, "emp-2")
	distribute(t, module, talk.TalkID, "emp-3")

	if flips := module.Store.DistributedFlips(); flips != 1 {
		t.Fatalf("expected exactly one draft to distributed flip, got %d", flips)
	}
	second, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if !second.Talk.FirstDistributedAt.Equal(*first.Talk.FirstDistributedAt) {
		t.Fatalf("first_distributed_at must never move: %v vs %v",
			first.Talk.FirstDistributedAt, second.Talk.FirstDistributedAt)
	}
}

func TestConfirmationSingleSignature(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Hearing protection")
	report := distribute(t, module, talk.TalkID, "emp-1")
	distributionID := report.Results[0].DistributionID

	confirmation, err := module.Handler.ConfirmHandler(context.Background(), distributionID, "10.0.0.7", httptransport.ConfirmRequest{
		SignatureImage: "data:image/png;base64,iVBORw0KGgo=",
		Understood:     true,
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmation.DistributionID != distributionID || !confirmation.Understood {
		t.Fatalf("unexpected confirmation: %+v", confirmation)
	}

	_, err = module.Handler.ConfirmHandler(context.Background(), distributionID, "10.0.0.8", httptransport.ConfirmRequest{
		SignatureImage: "data:image/png;base64,iVBORw0KGgo=",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed on second signature, got %v", err)
	}

	_, err = module.Handler.ConfirmHandler(context.Background(), distributionID, "10.0.0.8", httptransport.ConfirmRequest{})
	if !errors.Is(err, domainerrors.ErrInvalidConfirmation) {
		t.Fatalf("expected ErrInvalidConfirmation for missing signature, got %v", err)
	}

	_, err = module.Handler.ConfirmHandler(context.Background(), "no-such-distribution", "10.0.0.8", httptransport.ConfirmRequest{
		SignatureImage: "data:image/png;base64,iVBORw0KGgo=",
	})
	if !errors.Is(err, domainerrors.ErrDistributionNotFound) {
		t.Fatalf("expected ErrDistributionNotFound, got %v", err)
	}

	details, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if !details.Distributions[0].Confirmed || details.Distributions[0].ConfirmedAt == nil {
		t.Fatalf("expected confirmed distribution in details: %+v", details.Distributions[0])
	}
}

func TestQuizSaveReplaceAndFetch(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Fire extinguisher basics")

	err := module.Handler.SaveQuizHandler(context.Background(), "manager-1", talk.TalkID, httptransport.SaveQuizRequest{
		Questions: []httptransport.QuizQuestionRequest{
			{
				Text:               "Which class covers electrical fires?",
				Answers:            []string{"Class A", "Class C", "Class K"},
				CorrectAnswerIndex: 1,
			},
			{
				Text:               "First step when you spot a fire?",
				Answers:            []string{"Fight it", "Raise the alarm"},
				CorrectAnswerIndex: 1,
			},
		},
	})
	if err != nil {
		t.Fatalf("save quiz failed: %v", err)
	}

	quiz, err := module.Handler.GetQuizHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("get quiz failed: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if !quiz.Questions[0].Answers[1].Correct || quiz.Questions[0].Answers[0].Correct {
		t.Fatalf("correct flag landed on the wrong answer: %+v", quiz.Questions[0])
	}

	details, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if !details.Talk.HasQuiz {
		t.Fatalf("expected has_quiz set after save")
	}

	// Saving again fully replaces the previous question set.
	err = module.Handler.SaveQuizHandler(context.Background(), "manager-1", talk.TalkID, httptransport.SaveQuizRequest{
		Questions: []httptransport.QuizQuestionRequest{
			{
				Text:               "Extinguishers are checked how often?",
				Answers:            []string{"Monthly", "Yearly"},
				CorrectAnswerIndex: 0,
			},
		},
	})
	if err != nil {
		t.Fatalf("replace quiz failed: %v", err)
	}
	quiz, err = module.Handler.GetQuizHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("get quiz failed: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("expected replaced quiz with 1 question, got %d", len(quiz.Questions))
	}

	err = module.Handler.SaveQuizHandler(context.Background(), "manager-1", talk.TalkID, httptransport.SaveQuizRequest{
		Questions: []httptransport.QuizQuestionRequest{
			{Text: "Broken", Answers: []string{"Only one"}, CorrectAnswerIndex: 0},
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuizInput) {
		t.Fatalf("expected ErrInvalidQuizInput for single-answer question, got %v", err)
	}
	err = module.Handler.SaveQuizHandler(context.Background(), "manager-1", talk.TalkID, httptransport.SaveQuizRequest{
		Questions: []httptransport.QuizQuestionRequest{
			{Text: "Broken", Answers: []string{"A", "B"}, CorrectAnswerIndex: 2},
		},
	})
	if !errors.Is(err, domainerrors.ErrInvalidQuizInput) {
		t.Fatalf("expected ErrInvalidQuizInput for out-of-range index, got %v", err)
	}
}

func TestQuizNotFoundWithoutQuiz(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "No quiz here")

	_, err := module.Handler.GetQuizHandler(context.Background(), talk.TalkID)
	if !errors.Is(err, domainerrors.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizResultRetakeOverwrites(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Chemical handling")
	report := distribute(t, module, talk.TalkID, "emp-1")
	distributionID := report.Results[0].DistributionID

	first, err := module.Handler.QuizResultHandler(context.Background(), distributionID, httptransport.QuizResultRequest{
		Score: 40, Passed: false,
	})
	if err != nil {
		t.Fatalf("record quiz result failed: %v", err)
	}
	if first.Score != 40 || first.Passed {
		t.Fatalf("unexpected first attempt: %+v", first)
	}

	second, err := module.Handler.QuizResultHandler(context.Background(), distributionID, httptransport.QuizResultRequest{
		Score: 90, Passed: true,
	})
	if err != nil {
		t.Fatalf("record retake failed: %v", err)
	}
	if second.Score != 90 || !second.Passed {
		t.Fatalf("unexpected retake: %+v", second)
	}

	details, err := module.Handler.TalkDetailsHandler(context.Background(), talk.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	result := details.Distributions[0].QuizResult
	if result == nil || result.Score != 90 || !result.Passed {
		t.Fatalf("expected retake to overwrite stored result, got %+v", result)
	}

	_, err = module.Handler.QuizResultHandler(context.Background(), distributionID, httptransport.QuizResultRequest{Score: 101})
	if !errors.Is(err, domainerrors.ErrInvalidQuizResult) {
		t.Fatalf("expected ErrInvalidQuizResult for score above 100, got %v", err)
	}
	_, err = module.Handler.QuizResultHandler(context.Background(), "no-such-distribution", httptransport.QuizResultRequest{Score: 50})
	if !errors.Is(err, domainerrors.ErrDistributionNotFound) {
		t.Fatalf("expected ErrDistributionNotFound, got %v", err)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	module := newModuleWithRoster()
	ctx := context.Background()

	// A never-distributed talk comes back as draft.
	draft := createTalk(t, module, "Draft only")
	if err := module.Handler.ArchiveHandler(ctx, "manager-1", draft.TalkID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	details, err := module.Handler.TalkDetailsHandler(ctx, draft.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if details.Talk.Status != "archived" || details.Talk.ArchivedAt == nil {
		t.Fatalf("expected archived with date, got %+v", details.Talk)
	}
	if err := module.Handler.UnarchiveHandler(ctx, "manager-1", draft.TalkID); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	details, err = module.Handler.TalkDetailsHandler(ctx, draft.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if details.Talk.Status != "draft" || details.Talk.ArchivedAt != nil {
		t.Fatalf("expected draft restored, got %+v", details.Talk)
	}

	// A talk that ever left draft comes back as distributed.
	distributed := createTalk(t, module, "Was distributed")
	distribute(t, module, distributed.TalkID, "emp-1")
	if err := module.Handler.ArchiveHandler(ctx, "manager-1", distributed.TalkID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if err := module.Handler.UnarchiveHandler(ctx, "manager-1", distributed.TalkID); err != nil {
		t.Fatalf("unarchive failed: %v", err)
	}
	details, err = module.Handler.TalkDetailsHandler(ctx, distributed.TalkID)
	if err != nil {
		t.Fatalf("talk details failed: %v", err)
	}
	if details.Talk.Status != "distributed" {
		t.Fatalf("expected distributed restored, got %s", details.Talk.Status)
	}

	if err := module.Handler.ArchiveHandler(ctx, "manager-1", "no-such-talk"); !errors.Is(err, domainerrors.ErrTalkNotFound) {
		t.Fatalf("expected ErrTalkNotFound, got %v", err)
	}
}

func TestDeleteTalkCascade(t *testing.T) {
	module := newModuleWithRoster()
	ctx := context.Background()

	talk, err := module.Handler.CreateTalkHandler(ctx, "manager-1", httptransport.CreateTalkRequest{
		Title:   "Forklift refresher",
		Content: httptransport.AttachmentRefDTO{Kind: "file", Path: "talks/forklift.pdf"},
		Quiz: []httptransport.QuizQuestionRequest{
			{Text: "Max load?", Answers: []string{"1t", "2t"}, CorrectAnswerIndex: 0},
		},
	})
	if err != nil {
		t.Fatalf("create talk failed: %v", err)
	}
	report := distribute(t, module, talk.TalkID, "emp-1", "emp-2")
	distributionID := report.Results[0].DistributionID
	if _, err := module.Handler.ConfirmHandler(ctx, distributionID, "10.0.0.7", httptransport.ConfirmRequest{
		SignatureImage: "sig", Understood: true,
	}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := module.Handler.QuizResultHandler(ctx, distributionID, httptransport.QuizResultRequest{Score: 80, Passed: true}); err != nil {
		t.Fatalf("quiz result failed: %v", err)
	}
	if _, err := module.Handler.TestLinkHandler(ctx, "manager-1", talk.TalkID); err != nil {
		t.Fatalf("test link failed: %v", err)
	}

	// A failing cascade leaves everything in place.
	module.Store.SetWriteError(errors.New("storage offline"))
	if err := module.Handler.DeleteTalkHandler(ctx, "manager-1", talk.TalkID); err == nil {
		t.Fatalf("expected delete to fail while storage is down")
	}
	module.Store.SetWriteError(nil)
	details, err := module.Handler.TalkDetailsHandler(ctx, talk.TalkID)
	if err != nil {
		t.Fatalf("talk must survive a failed cascade: %v", err)
	}
	if len(details.Distributions) != 2 || len(details.Quiz) != 1 {
		t.Fatalf("dependents must survive a failed cascade: %+v", details)
	}
	if len(module.Store.RemovedAttachments()) != 0 {
		t.Fatalf("attachment must not be removed after a failed cascade")
	}

	if err := module.Handler.DeleteTalkHandler(ctx, "manager-1", talk.TalkID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := module.Handler.TalkDetailsHandler(ctx, talk.TalkID); !errors.Is(err, domainerrors.ErrTalkNotFound) {
		t.Fatalf("expected ErrTalkNotFound after delete, got %v", err)
	}
	if _, err := module.Handler.ConfirmHandler(ctx, distributionID, "10.0.0.7", httptransport.ConfirmRequest{
		SignatureImage: "sig",
	}); !errors.Is(err, domainerrors.ErrDistributionNotFound) {
		t.Fatalf("expected distributions gone after delete, got %v", err)
	}
	removed := module.Store.RemovedAttachments()
	if len(removed) != 1 || removed[0].Path != "talks/forklift.pdf" {
		t.Fatalf("expected stored file removed after delete, got %+v", removed)
	}
}

func TestReminderDeliveryAndCount(t *testing.T) {
	module := newModuleWithRoster()
	talk := createTalk(t, module, "Eye protection")
	report := distribute(t, module, talk.TalkID, "emp-1")
	distributionID := report.Results[0].DistributionID

	result, err := module.Handler.ReminderHandler(context.Background(), "manager-1", distributionID, httptransport.ReminderRequest{
		Channels: []string{"email", "sms"},
	})
	if err != nil {
		t.Fatalf("reminder failed: %v", err)
	}
	if len(result.Delivered) != 2 || result.NotificationCount != 2 {
		t.Fatalf("expected both channels delivered and count 2, got %+v", result)
	}

	// An all-fail reminder is reported, not errored, and does not bump the count.
	module.Email.FailAddress("alice@example.com")
	module.SMS.FailAddress("+4915110000001")
	result, err = module.Handler.ReminderHandler(context.Background(), "manager-1", distributionID, httptransport.ReminderRequest{
		Channels: []string{"email", "sms"},
	})
	if err != nil {
		t.Fatalf("all-fail reminder must not error: %v", err)
	}
	if len(result.Delivered) != 0 || len(result.Failures) != 2 || result.NotificationCount != 2 {
		t.Fatalf("unexpected all-fail result: %+v", result)
	}

	_, err = module.Handler.ReminderHandler(context.Background(), "manager-1", distributionID, httptransport.ReminderRequest{
		Channels: []string{"fax"},
	})
	if !errors.Is(err, domainerrors.ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel, got %v", err)
	}
	_, err = module.Handler.ReminderHandler(context.Background(), "manager-1", distributionID, httptransport.ReminderRequest{})
	if !errors.Is(err, domainerrors.ErrInvalidChannel) {
		t.Fatalf("expected ErrInvalidChannel for empty selection, got %v", err)
	}
}

func TestPendingSignaturesAndOverall(t *testing.T) {
	module := newModuleWithRoster()
	ctx := context.Background()

	talk := createTalk(t, module, "Hard hat areas")
	report := distribute(t, module, talk.TalkID, "emp-1", "emp-2", "emp-3")
	var aliceDistribution string
	for _, result := range report.Results {
		if result.RecipientID == "emp-1" {
			aliceDistribution = result.DistributionID
		}
	}
	if _, err := module.Handler.ConfirmHandler(ctx, aliceDistribution, "10.0.0.7", httptransport.ConfirmRequest{
		SignatureImage: "sig", Understood: true,
	}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	// A fully signed talk never shows up in the pending report.
	signed := createTalk(t, module, "Fully signed talk")
	signedReport := distribute(t, module, signed.TalkID, "emp-2")
	if _, err := module.Handler.ConfirmHandler(ctx, signedReport.Results[0].DistributionID, "10.0.0.9", httptransport.ConfirmRequest{
		SignatureImage: "sig",
	}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	pending, err := module.Handler.PendingSignaturesHandler(ctx, 30)
	if err != nil {
		t.Fatalf("pending signatures failed: %v", err)
	}
	if len(pending.Reports) != 1 {
		t.Fatalf("expected one talk with outstanding signatures, got %d", len(pending.Reports))
	}
	row := pending.Reports[0]
	if row.TalkID != talk.TalkID || row.TotalDistributed != 3 || row.TotalSigned != 1 {
		t.Fatalf("unexpected report row: %+v", row)
	}
	if len(row.Pending) != 2 {
		t.Fatalf("expected two unsigned recipients, got %+v", row.Pending)
	}
	if row.Pending[0].Name != "Bob Brandt" || row.Pending[1].Name != "Carla Cruz" {
		t.Fatalf("expected pending recipients sorted by name, got %+v", row.Pending)
	}

	overall, err := module.Handler.OverallStatusHandler(ctx)
	if err != nil {
		t.Fatalf("overall status failed: %v", err)
	}
	if overall.TotalTalks != 2 || overall.TotalDistributions != 4 || overall.TotalConfirmations != 2 {
		t.Fatalf("unexpected overall status: %+v", overall)
	}
}

func TestTestLinksAndPurge(t *testing.T) {
	module := newModuleWithRoster()
	ctx := context.Background()
	talk := createTalk(t, module, "Preview me")

	link, err := module.Handler.TestLinkHandler(ctx, "manager-1", talk.TalkID)
	if err != nil {
		t.Fatalf("test link failed: %v", err)
	}
	if link.TalkID != talk.TalkID || len(link.Token) < 32 {
		t.Fatalf("expected 128-bit token on test link, got %+v", link)
	}

	// Seed one link past the retention window.
	err = module.Store.CreateTestDistribution(ctx, entities.TestDistribution{
		TestDistributionID: "test-old",
		TalkID:             talk.TalkID,
		Token:              "stale-token",
		CreatedAt:          time.Now().UTC().Add(-40 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed old test link failed: %v", err)
	}

	purge, err := module.Handler.PurgeTestLinksHandler(ctx, 30)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purge.Purged != 1 {
		t.Fatalf("expected exactly the stale link purged, got %d", purge.Purged)
	}

	if _, err := module.Handler.PurgeTestLinksHandler(ctx, 0); !errors.Is(err, domainerrors.ErrInvalidTalkInput) {
		t.Fatalf("expected rejection of non-positive retention, got %v", err)
	}
}
