package services

import "errors"

var (
	ErrForbidden              = errors.New("forbidden")
	ErrConflict               = errors.New("conflict")
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidInviteCode      = errors.New("invalid invite code")
	ErrTraineeLimitReached    = errors.New("trainee limit reached")
	ErrCoachNotVerified       = errors.New("coach is not verified")
	ErrDuplicateRequest       = errors.New("connection request already pending")
	ErrStorageUnavailable     = errors.New("storage service is not configured")
)
