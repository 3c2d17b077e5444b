package ledger

import "errors"

var (
	ErrInvalidType   = errors.New("transaction type must be add or use")
	ErrInvalidAmount = errors.New("transaction points must be greater than zero")
)
