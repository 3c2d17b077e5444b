// Package card holds the loyalty card entity and its balance invariants.
package card

import (
	"github.com/memberclub/memberclub-core/internal/pkg/clock"
)

// New creates a card for profile with a fresh number, zero balance and a
// validity window of validityYears from now.
func New(profile Profile, clk clock.Clock, gen *NumberGenerator, validityYears int) *Card {
	now := clk.Now()
	return &Card{
		Profile:    profile,
		Points:     0,
		CardNumber: gen.Generate(),
		CreatedAt:  now,
		ValidUntil: now.AddDate(validityYears, 0, 0),
	}
}

// AddPoints increases the balance by n. n must be positive.
func (c *Card) AddPoints(n int) (int, error) {
	if n <= 0 {
		return c.Points, ErrInvalidAmount
	}
	c.Points += n
	return c.Points, nil
}

// UsePoints decreases the balance by n. n must be positive and not exceed
// the current balance; on rejection the balance is untouched.
func (c *Card) UsePoints(n int) (int, error) {
	if n <= 0 {
		return c.Points, ErrInvalidAmount
	}
	if n > c.Points {
		return c.Points, ErrInsufficientBalance
	}
	c.Points -= n
	return c.Points, nil
}

// Details returns the presentation projection of the card.
func (c *Card) Details() Details {
	return Details{
		Name:       c.Name,
		CardNumber: c.CardNumber,
		Points:     c.Points,
		ValidUntil: c.ValidUntil,
	}
}
