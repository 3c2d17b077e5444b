package card

import "time"

// Profile is the passenger data captured at registration. The core never
// interprets it beyond validation; it travels with the card record.
type Profile struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Birthdate string `json:"birthdate"`
}

// Card is the loyalty entity: identity plus point balance. Points never go
// negative; CardNumber, CreatedAt and ValidUntil are immutable after creation.
type Card struct {
	Profile
	Points     int       `json:"points"`
	CardNumber string    `json:"cardNumber"`
	CreatedAt  time.Time `json:"createdAt"`
	ValidUntil time.Time `json:"validUntil"`
}

// Details is the presentation projection of a card.
type Details struct {
	Name       string    `json:"name"`
	CardNumber string    `json:"cardNumber"`
	Points     int       `json:"points"`
	ValidUntil time.Time `json:"validUntil"`
}
