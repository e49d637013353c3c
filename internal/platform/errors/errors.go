package apperrors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrInvalidState     = errors.New("transition not allowed from current status")
	ErrAlreadyCompleted = errors.New("book already completed by this reader")
	ErrSessionTerminal  = errors.New("session is in a terminal status")
	ErrStatsUnavailable = errors.New("statistics are unavailable")
)
