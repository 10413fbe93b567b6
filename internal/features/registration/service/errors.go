package service

import "errors"

// Custom errors for registration service
var (
	ErrNoSession      = errors.New("no active registration session")
	ErrNotSubscribed  = errors.New("channel subscription is not confirmed")
	ErrUnexpectedStep = errors.New("input does not match the current registration step")
	ErrEmptyInput     = errors.New("empty input")
	ErrSaveFailed     = errors.New("failed to save participant")
)
