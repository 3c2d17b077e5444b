// Package ledger maintains the append-only per-card transaction history.
package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/memberclub/memberclub-core/internal/pkg/clock"
	"github.com/memberclub/memberclub-core/internal/pkg/kvstore"
	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
)

const idSuffixLen = 5

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Ledger is the append-only transaction log of one card, persisted under
// transactions_<cardNumber> in the key-value store.
type Ledger struct {
	cardNumber string
	store      kvstore.Store
	clk        clock.Clock
	src        randsrc.Source
	entries    []Transaction
}

// StorageKey returns the key-value store slot for a card's history.
func StorageKey(cardNumber string) string {
	return "transactions_" + cardNumber
}

// New opens the ledger for cardNumber, loading any persisted history.
// A corrupt history record is discarded and the ledger starts empty.
func New(cardNumber string, store kvstore.Store, clk clock.Clock, src randsrc.Source) *Ledger {
	l := &Ledger{
		cardNumber: cardNumber,
		store:      store,
		clk:        clk,
		src:        src,
	}

	raw, ok := store.Get(StorageKey(cardNumber))
	if !ok {
		return l
	}
	if err := json.Unmarshal([]byte(raw), &l.entries); err != nil {
		log.Warn().Err(err).Str("card_number", cardNumber).Msg("discarding malformed transaction history")
		l.entries = nil
	}
	return l
}

// Append records a new transaction under a fresh identifier and persists
// the history. Entries are never mutated or removed once written.
func (l *Ledger) Append(txType TransactionType, points int, description string) (Transaction, error) {
	return l.AppendWithID(l.newID(), txType, points, description)
}

// AppendWithID records a transaction under a caller-supplied identifier,
// so local entries can share the id of the remote operation that caused
// them.
func (l *Ledger) AppendWithID(id string, txType TransactionType, points int, description string) (Transaction, error) {
	if txType != TypeAdd && txType != TypeUse {
		return Transaction{}, ErrInvalidType
	}
	if points <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if id == "" {
		id = l.newID()
	}

	tx := Transaction{
		ID:          id,
		Type:        txType,
		Points:      points,
		Description: description,
		Timestamp:   l.clk.Now(),
		CardNumber:  l.cardNumber,
	}

	grown := append(l.entries, tx)
	raw, err := json.Marshal(grown)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to encode transactions: %w", err)
	}
	if err := l.store.Set(StorageKey(l.cardNumber), string(raw)); err != nil {
		return Transaction{}, fmt.Errorf("failed to persist transactions: %w", err)
	}
	l.entries = grown
	return tx, nil
}

// All returns every transaction in insertion order.
func (l *Ledger) All() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// ByType returns the transactions of one type, preserving insertion order.
func (l *Ledger) ByType(txType TransactionType) []Transaction {
	var out []Transaction
	for _, tx := range l.entries {
		if tx.Type == txType {
			out = append(out, tx)
		}
	}
	return out
}

// Sorted returns the history most recent first; entries with equal
// timestamps keep their insertion order.
func (l *Ledger) Sorted() []Transaction {
	out := l.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// newID builds a time-based identifier with a random suffix. IDs are unique
// in practice, not ordered.
func (l *Ledger) newID() string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(l.clk.Now().UnixMilli(), 36))
	for i := 0; i < idSuffixLen; i++ {
		// Float64 is in [0,1), so idx stays in range.
		idx := int(l.src.Float64() * float64(len(idAlphabet)))
		b.WriteByte(idAlphabet[idx])
	}
	return b.String()
}
