package errors

import "errors"

var (
	ErrInvalidTalkInput         = errors.New("invalid safety talk input")
	ErrInvalidQuizInput         = errors.New("invalid quiz input")
	ErrInvalidQuizResult        = errors.New("invalid quiz result input")
	ErrInvalidConfirmation      = errors.New("invalid confirmation input")
	ErrInvalidChannel           = errors.New("invalid notification channel selection")
	ErrEmptyRecipients          = errors.New("recipient list is empty")
	ErrTalkNotFound             = errors.New("safety talk not found")
	ErrDistributionNotFound     = errors.New("distribution not found")
	ErrRecipientNotFound        = errors.New("recipient not found")
	ErrQuizNotFound             = errors.New("quiz not found")
	ErrDuplicateDistribution    = errors.New("distribution already exists for this recipient")
	ErrDuplicateToken           = errors.New("distribution token already in use")
	ErrAlreadyConfirmed         = errors.New("distribution is already confirmed")
	ErrCascadeFailed            = errors.New("talk delete cascade failed")
	ErrTokenGenerationExhausted = errors.New("could not generate a unique distribution token")
)
