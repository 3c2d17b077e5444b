package ledger

import "time"

type TransactionType string

const (
	TypeAdd TransactionType = "add"
	TypeUse TransactionType = "use"
)

// Transaction is one immutable ledger entry. IDs are unique but carry no
// ordering guarantee; ordering comes from Timestamp.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Points      int             `json:"points"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	CardNumber  string          `json:"cardNumber"`
}
