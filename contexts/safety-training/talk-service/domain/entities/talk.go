package entities

import "time"

type TalkStatus string

const (
	TalkStatusDraft       TalkStatus = "draft"
	TalkStatusDistributed TalkStatus = "distributed"
	TalkStatusArchived    TalkStatus = "archived"
)

type AttachmentKind string

const (
	AttachmentKindInline AttachmentKind = "inline"
	AttachmentKindFile   AttachmentKind = "file"
	AttachmentKindLink   AttachmentKind = "link"
)

// AttachmentRef is the tagged content variant of a talk: inline text, an
// uploaded document/video path, or an external website link. Exactly one of
// Body/Path/URL is meaningful depending on Kind.
type AttachmentRef struct {
	Kind AttachmentKind
	Body string
	Path string
	URL  string
}

func (a AttachmentRef) Empty() bool {
	switch a.Kind {
	case AttachmentKindInline:
		return a.Body == ""
	case AttachmentKindFile:
		return a.Path == ""
	case AttachmentKindLink:
		return a.URL == ""
	default:
		return true
	}
}

type SafetyTalk struct {
	TalkID             string
	Title              string
	Description        string
	Content            AttachmentRef
	HasQuiz            bool
	Status             TalkStatus
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	FirstDistributedAt *time.Time
	ArchivedAt         *time.Time
}

// ArchivedAsOf applies the canonical archive rule: a talk counts as archived
// iff its archive date is set and strictly before the reference instant.
func (t SafetyTalk) ArchivedAsOf(now time.Time) bool {
	return t.ArchivedAt != nil && t.ArchivedAt.Before(now)
}
