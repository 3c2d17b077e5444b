// Package usermsg maps domain errors to the notification text shown to the
// member. The core surfaces sentinel errors; this is the one place they
// become user-facing copy.
package usermsg

import (
	"errors"

	"github.com/memberclub/memberclub-core/internal/domain/backend"
	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/domain/member"
)

// Message is a user-facing notification.
type Message struct {
	Code string
	Text string
	// Retryable marks failures the member may simply try again.
	Retryable bool
}

// FromError translates a domain error into its notification.
func FromError(err error) Message {
	switch {
	case err == nil:
		return Message{Code: "OK", Text: "Operation completed successfully."}
	case errors.Is(err, card.ErrInvalidAmount):
		return Message{Code: "INVALID_AMOUNT", Text: "The number of points must be greater than zero."}
	case errors.Is(err, card.ErrInsufficientBalance), errors.Is(err, backend.ErrInsufficientBalance):
		return Message{Code: "INSUFFICIENT_BALANCE", Text: "Insufficient point balance for this operation."}
	case errors.Is(err, backend.ErrInvalidRequest):
		return Message{Code: "INVALID_REQUEST", Text: "Card number and points are required."}
	case errors.Is(err, backend.ErrTransient):
		return Message{Code: "SERVICE_UNAVAILABLE", Text: "The service is temporarily unavailable. Try again.", Retryable: true}
	case errors.Is(err, member.ErrInvalidProfile):
		return Message{Code: "INVALID_PROFILE", Text: "Please review the registration data."}
	case errors.Is(err, member.ErrAlreadyRegistered):
		return Message{Code: "ALREADY_REGISTERED", Text: "A member card already exists for this session."}
	case errors.Is(err, member.ErrNoCard), errors.Is(err, card.ErrNotFound):
		return Message{Code: "NO_CARD", Text: "No member card found. Register first."}
	default:
		return Message{Code: "INTERNAL_ERROR", Text: "Something went wrong. Try again.", Retryable: true}
	}
}
