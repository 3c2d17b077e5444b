package card

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/memberclub/memberclub-core/internal/pkg/kvstore"
)

// StorageKey is the key-value store slot holding the active local card.
const StorageKey = "memberCard"

// Repository persists the single active card as a JSON record in the
// key-value store.
type Repository struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) *Repository {
	return &Repository{store: store}
}

// Save writes the card record, replacing any previous one.
func (r *Repository) Save(c *Card) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}
	if err := r.store.Set(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist card: %w", err)
	}
	return nil
}

// Load reads the stored card. A missing record returns ErrNotFound; a
// corrupt record is discarded and also reported as ErrNotFound.
func (r *Repository) Load() (*Card, error) {
	raw, ok := r.store.Get(StorageKey)
	if !ok {
		return nil, ErrNotFound
	}

	var c Card
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		log.Warn().Err(err).Msg("discarding malformed card record")
		if rmErr := r.store.Remove(StorageKey); rmErr != nil {
			log.Warn().Err(rmErr).Msg("failed to remove malformed card record")
		}
		return nil, ErrNotFound
	}
	return &c, nil
}

// Clear removes the stored card record.
func (r *Repository) Clear() error {
	if err := r.store.Remove(StorageKey); err != nil {
		return fmt.Errorf("failed to remove card: %w", err)
	}
	return nil
}
