package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource conflict")
	ErrSessionActive   = errors.New("a sleep session is already active")
	ErrNoActiveSession = errors.New("no active sleep session")
	ErrInvalidInput    = errors.New("invalid input")
)
