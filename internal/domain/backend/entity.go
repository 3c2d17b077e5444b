package backend

import (
	"time"

	"github.com/memberclub/memberclub-core/internal/domain/card"
)

// Registration is the record synthesized for a newly registered member.
type Registration struct {
	ID string `json:"id"`
	card.Profile
	CardNumber string    `json:"cardNumber"`
	Points     int       `json:"points"`
	Level      string    `json:"level"`
	CreatedAt  time.Time `json:"createdAt"`
	ValidUntil time.Time `json:"validUntil"`
}

// Operation is the delta record returned by a successful point mutation.
// Exactly one of AddedPoints/UsedPoints is set.
type Operation struct {
	CardNumber      string    `json:"cardNumber"`
	PreviousBalance int       `json:"previousBalance"`
	AddedPoints     int       `json:"addedPoints,omitempty"`
	UsedPoints      int       `json:"usedPoints,omitempty"`
	NewBalance      int       `json:"newBalance"`
	OperationID     string    `json:"operationId"`
	Timestamp       time.Time `json:"timestamp"`
}
