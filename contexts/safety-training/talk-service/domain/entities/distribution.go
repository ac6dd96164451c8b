package entities

import "time"

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

type DeliveryStatus string

const (
	DeliveryStatusUnsent DeliveryStatus = "unsent"
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Distribution records one talk sent to one recipient. Token is the
// high-entropy access credential for the recipient-facing view/confirm page.
type Distribution struct {
	DistributionID    string
	TalkID            string
	RecipientID       string
	Token             string
	SentAt            time.Time
	EmailStatus       DeliveryStatus
	SMSStatus         DeliveryStatus
	NotificationCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Delivered reports whether at least one channel reached the recipient.
func (d Distribution) Delivered() bool {
	return d.EmailStatus == DeliveryStatusSent || d.SMSStatus == DeliveryStatusSent
}

// Confirmation is the recipient's signed acknowledgement. Immutable once
// recorded; at most one per distribution.
type Confirmation struct {
	ConfirmationID string
	DistributionID string
	SignatureImage string
	SourceAddress  string
	Understood     bool
	ConfirmedAt    time.Time
}

// TestDistribution is a preview link for admins; it carries no recipient and
// is purged on a retention schedule rather than by the talk delete cascade.
type TestDistribution struct {
	TestDistributionID string
	TalkID             string
	Token              string
	CreatedAt          time.Time
}
