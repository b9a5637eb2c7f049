package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAccountBlocked   = errors.New("account blocked")
	ErrMatchNotFinished = errors.New("match not finished or has no score")
	ErrInsufficientData = errors.New("insufficient data")
)
