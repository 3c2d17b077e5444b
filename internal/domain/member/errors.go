package member

import "errors"

var (
	ErrNoCard            = errors.New("no member card loaded")
	ErrAlreadyRegistered = errors.New("a member card already exists")
	ErrInvalidProfile    = errors.New("invalid registration profile")
)
