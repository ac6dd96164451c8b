package queries

import (
	"context"
	"sort"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
	"toolbox/contexts/safety-training/talk-service/ports"
)

const defaultWindowDays = 30

type PendingRecipient struct {
	RecipientID string
	Name        string
}

type PendingSignaturesReport struct {
	TalkID             string
	Title              string
	FirstDistributedAt time.Time
	TotalDistributed   int
	TotalSigned        int
	Pending            []PendingRecipient
}

type OverallStatus struct {
	TotalTalks         int
	TotalDistributions int
	TotalConfirmations int
}

// ComplianceUseCase is the read-only aggregation over talks, distributions,
// and confirmations used for oversight of outstanding signatures.
type ComplianceUseCase struct {
	Talks         ports.TalkRepository
	Distributions ports.DistributionStore
	Confirmations ports.ConfirmationStore
	Directory     ports.RecipientDirectory
	Clock         ports.Clock
}

// PendingSignatures lists distributed talks inside the window that still have
// unsigned recipients. Fully signed talks are excluded.
func (uc ComplianceUseCase) PendingSignatures(ctx context.Context, windowDays int) ([]PendingSignaturesReport, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	now := uc.now()
	since := now.Add(-time.Duration(windowDays) * 24 * time.Hour)

	talks, err := uc.Talks.ListTalksByStatus(ctx, entities.TalkStatusDistributed)
	if err != nil {
		return nil, err
	}

	reports := make([]PendingSignaturesReport, 0, len(talks))
	for _, talk := range talks {
		if talk.FirstDistributedAt == nil || talk.FirstDistributedAt.Before(since) {
			continue
		}
		distributions, err := uc.Distributions.ListDistributionsByTalk(ctx, talk.TalkID)
		if err != nil {
			return nil, err
		}
		confirmedIDs, err := uc.Confirmations.ListConfirmedDistributionIDs(ctx, talk.TalkID)
		if err != nil {
			return nil, err
		}
		confirmed := make(map[string]struct{}, len(confirmedIDs))
		for _, id := range confirmedIDs {
			confirmed[id] = struct{}{}
		}

		report := PendingSignaturesReport{
			TalkID:             talk.TalkID,
			Title:              talk.Title,
			FirstDistributedAt: *talk.FirstDistributedAt,
			TotalDistributed:   len(distributions),
			TotalSigned:        len(confirmed),
		}
		for _, distribution := range distributions {
			if _, ok := confirmed[distribution.DistributionID]; ok {
				continue
			}
			report.Pending = append(report.Pending, PendingRecipient{
				RecipientID: distribution.RecipientID,
				Name:        uc.resolveName(ctx, distribution.RecipientID),
			})
		}
		if len(report.Pending) == 0 {
			continue
		}
		sort.Slice(report.Pending, func(i, j int) bool {
			return report.Pending[i].Name < report.Pending[j].Name
		})
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].FirstDistributedAt.Equal(reports[j].FirstDistributedAt) {
			return reports[i].TalkID < reports[j].TalkID
		}
		return reports[i].FirstDistributedAt.After(reports[j].FirstDistributedAt)
	})
	return reports, nil
}

// Overall aggregates counts across all distributed talks.
func (uc ComplianceUseCase) Overall(ctx context.Context) (OverallStatus, error) {
	talks, err := uc.Talks.ListTalksByStatus(ctx, entities.TalkStatusDistributed)
	if err != nil {
		return OverallStatus{}, err
	}
	status := OverallStatus{TotalTalks: len(talks)}
	for _, talk := range talks {
		distributions, err := uc.Distributions.ListDistributionsByTalk(ctx, talk.TalkID)
		if err != nil {
			return OverallStatus{}, err
		}
		confirmedIDs, err := uc.Confirmations.ListConfirmedDistributionIDs(ctx, talk.TalkID)
		if err != nil {
			return OverallStatus{}, err
		}
		status.TotalDistributions += len(distributions)
		status.TotalConfirmations += len(confirmedIDs)
	}
	return status, nil
}

// resolveName degrades to the raw id when the directory cannot serve the
// lookup; the report is more useful incomplete than failed.
func (uc ComplianceUseCase) resolveName(ctx context.Context, recipientID string) string {
	recipient, err := uc.Directory.Lookup(ctx, recipientID)
	if err != nil || recipient.Name == "" {
		return recipientID
	}
	return recipient.Name
}

func (uc ComplianceUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
