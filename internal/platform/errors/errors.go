package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrNoActiveSession     = errors.New("no active session")
	ErrActiveSessionExists = errors.New("active session already exists")
	ErrSessionLocked       = errors.New("session is locked for review")

	ErrInvalidIndex  = errors.New("invalid sample index")
	ErrInvalidToken  = errors.New("invalid status token")
	ErrInvalidNumber = errors.New("invalid number")
	ErrIncomplete    = errors.New("evaluation incomplete")

	ErrAlreadySaved   = errors.New("session already saved")
	ErrStorageCorrupt = errors.New("stored evaluations are corrupt")
	ErrStorageWrite   = errors.New("storage write failed")
)
