package card

import "errors"

var (
	ErrInvalidAmount       = errors.New("point amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrNotFound            = errors.New("no card stored")
)
