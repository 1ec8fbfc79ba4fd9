package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrAlreadyRostered       = errors.New("member already on roster")
	ErrInvalidSwapCandidate  = errors.New("invalid swap candidate")
	ErrAdviceQuotaExhausted  = errors.New("advice quota exhausted")
	ErrInvalidState          = errors.New("invalid start/sit state")
)
