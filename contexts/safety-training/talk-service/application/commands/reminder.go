package commands

import (
	"context"
	"strings"

	application "toolbox/contexts/safety-training/talk-service/application"
	"toolbox/contexts/safety-training/talk-service/domain/entities"
	domainerrors "toolbox/contexts/safety-training/talk-service/domain/errors"
)

type ReminderCommand struct {
	ActorID        string
	DistributionID string
	Channels       []entities.Channel
}

type ChannelFailure struct {
	Channel entities.Channel
	Reason  string
}

// ReminderResult reports per-channel outcomes of one reminder. Delivered is
// empty when every requested channel failed; that is a result, not an error.
type ReminderResult struct {
	DistributionID    string
	Delivered         []entities.Channel
	Failures          []ChannelFailure
	NotificationCount int
}

// SendReminder re-notifies the recipient of an existing distribution over the
// requested channel subset. A reminder never creates a distribution and never
// touches talk status; on any channel success NotificationCount increments by
// exactly one.
func (uc DistributionUseCase) SendReminder(ctx context.Context, cmd ReminderCommand) (ReminderResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	channels, err := normalizeChannels(cmd.Channels)
	if err != nil {
		return ReminderResult{}, err
	}
	distributionID := strings.TrimSpace(cmd.DistributionID)
	if distributionID == "" {
		return ReminderResult{}, domainerrors.ErrDistributionNotFound
	}

	distribution, err := uc.Distributions.GetDistribution(ctx, distributionID)
	if err != nil {
		return ReminderResult{}, err
	}
	talk, err := uc.Talks.GetTalk(ctx, distribution.TalkID)
	if err != nil {
		return ReminderResult{}, err
	}
	recipient, err := uc.Directory.Lookup(ctx, distribution.RecipientID)
	if err != nil {
		return ReminderResult{}, err
	}

	subject, body := uc.composeMessage(talk, distribution.Token)
	result := ReminderResult{DistributionID: distribution.DistributionID}
	emailStatus := distribution.EmailStatus
	smsStatus := distribution.SMSStatus
	for _, channel := range channels {
		var status entities.DeliveryStatus
		var reason string
		switch channel {
		case entities.ChannelEmail:
			status, reason = uc.dispatch(ctx, uc.Email, recipient.Email, subject, body)
			emailStatus = status
		case entities.ChannelSMS:
			status, reason = uc.dispatch(ctx, uc.SMS, recipient.Phone, subject, body)
			smsStatus = status
		}
		if status == entities.DeliveryStatusSent {
			result.Delivered = append(result.Delivered, channel)
		} else {
			result.Failures = append(result.Failures, ChannelFailure{Channel: channel, Reason: reason})
		}
	}

	count := distribution.NotificationCount
	if len(result.Delivered) > 0 {
		count++
	}
	result.NotificationCount = count
	if err := uc.Distributions.UpdateDelivery(
		ctx, distribution.DistributionID, emailStatus, smsStatus, count, uc.now(),
	); err != nil {
		return ReminderResult{}, err
	}

	logger.Info("reminder sent",
		"event", "talk_reminder_sent",
		"module", "safety-training/talk-service",
		"layer", "application",
		"distribution_id", distribution.DistributionID,
		"talk_id", distribution.TalkID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
		"delivered_channels", len(result.Delivered),
		"failed_channels", len(result.Failures),
		"notification_count", count,
	)
	return result, nil
}

func normalizeChannels(channels []entities.Channel) ([]entities.Channel, error) {
	if len(channels) == 0 {
		return nil, domainerrors.ErrInvalidChannel
	}
	seen := make(map[entities.Channel]struct{}, len(channels))
	out := make([]entities.Channel, 0, len(channels))
	for _, channel := range channels {
		if channel != entities.ChannelEmail && channel != entities.ChannelSMS {
			return nil, domainerrors.ErrInvalidChannel
		}
		if _, ok := seen[channel]; ok {
			continue
		}
		seen[channel] = struct{}{}
		out = append(out, channel)
	}
	return out, nil
}
