package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientDeposit = errors.New("insufficient deposit")
	ErrPreconditionFailed  = errors.New("precondition failed")
)
