// Package member orchestrates one card's session: loading the local record,
// reconciling it against the simulated backend, and routing every point
// mutation through the backend before any local state changes.
package member

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/memberclub/memberclub-core/internal/domain/backend"
	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/domain/ledger"
	"github.com/memberclub/memberclub-core/internal/pkg/clock"
	"github.com/memberclub/memberclub-core/internal/pkg/kvstore"
	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
)

// Backend is the remote service surface the session depends on.
type Backend interface {
	Register(ctx context.Context, profile card.Profile) (backend.Registration, error)
	AddPoints(ctx context.Context, cardNumber string, n int) (backend.Operation, error)
	UsePoints(ctx context.Context, cardNumber string, n int) (backend.Operation, error)
	GetBalance(ctx context.Context, cardNumber string) (int, error)
	GetTransactionHistory(ctx context.Context, cardNumber string) ([]ledger.Transaction, error)
}

// Config tunes session behavior.
type Config struct {
	// WelcomeBonus is granted on registration.
	WelcomeBonus int
	// OpTimeout bounds every backend call; an expired deadline surfaces as
	// a transient failure instead of hanging the session.
	OpTimeout time.Duration
}

const welcomeBonusDescription = "Welcome bonus"

// Session holds one member's card and keeps it consistent with the remote
// balance, remote-wins on divergence.
type Session struct {
	cfg      Config
	api      Backend
	cards    *card.Repository
	store    kvstore.Store
	clk      clock.Clock
	src      randsrc.Source
	validate *validator.Validate

	state  State
	card   *card.Card
	ledger *ledger.Ledger
}

func NewSession(cfg Config, api Backend, cards *card.Repository, store kvstore.Store, clk clock.Clock, src randsrc.Source) *Session {
	return &Session{
		cfg:      cfg,
		api:      api,
		cards:    cards,
		store:    store,
		clk:      clk,
		src:      src,
		validate: validator.New(),
		state:    StateUnloaded,
	}
}

// Load reads the persisted card and reconciles its balance against the
// backend. A missing or corrupt record leaves the session Unloaded with
// ErrNoCard; an unreachable backend keeps the cached balance (LocalOnly)
// without failing the session.
func (s *Session) Load(ctx context.Context) error {
	c, err := s.cards.Load()
	if err != nil {
		s.state = StateUnloaded
		return ErrNoCard
	}

	s.card = c
	s.ledger = ledger.New(c.CardNumber, s.store, s.clk, s.src)
	s.state = StateLocalOnly

	s.reconcile(ctx)
	return nil
}

// Sync re-runs the reconciliation step. When local and remote already agree
// it writes nothing.
func (s *Session) Sync(ctx context.Context) error {
	if s.card == nil {
		return ErrNoCard
	}
	s.reconcile(ctx)
	return nil
}

// reconcile queries the remote balance and overwrites the local one when
// they differ; the remote value is the source of truth.
func (s *Session) reconcile(ctx context.Context) {
	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	remote, err := s.api.GetBalance(opCtx, s.card.CardNumber)
	if err != nil {
		log.Warn().Err(err).Str("card_number", s.card.CardNumber).Msg("balance check failed, keeping cached balance")
		s.state = StateLocalOnly
		return
	}

	if remote == s.card.Points {
		s.state = StateReconciled
		return
	}

	log.Info().
		Str("card_number", s.card.CardNumber).
		Int("local", s.card.Points).
		Int("remote", remote).
		Msg("balance divergence, remote wins")
	s.card.Points = remote
	if err := s.cards.Save(s.card); err != nil {
		log.Warn().Err(err).Msg("failed to persist corrected balance")
		s.state = StateLocalOnly
		return
	}
	s.state = StateCorrected
}

// Register creates a new member through the backend, grants the welcome
// bonus and persists the resulting card. On any backend failure nothing is
// persisted locally.
func (s *Session) Register(ctx context.Context, profile card.Profile) (card.Details, error) {
	if s.card != nil {
		return card.Details{}, ErrAlreadyRegistered
	}
	if err := s.validate.Struct(profile); err != nil {
		return card.Details{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	opCtx, cancel := s.opContext(ctx)
	reg, err := s.api.Register(opCtx, profile)
	cancel()
	if err != nil {
		return card.Details{}, err
	}

	c := &card.Card{
		Profile:    reg.Profile,
		Points:     reg.Points,
		CardNumber: reg.CardNumber,
		CreatedAt:  reg.CreatedAt,
		ValidUntil: reg.ValidUntil,
	}

	var bonusOpID string
	if s.cfg.WelcomeBonus > 0 {
		opCtx, cancel = s.opContext(ctx)
		op, err := s.api.AddPoints(opCtx, c.CardNumber, s.cfg.WelcomeBonus)
		cancel()
		if err != nil {
			return card.Details{}, err
		}
		c.Points = op.NewBalance
		bonusOpID = op.OperationID
	}

	// Persist the card before its ledger so a failed save leaves no
	// orphaned history behind.
	s.card = c
	s.ledger = ledger.New(c.CardNumber, s.store, s.clk, s.src)
	if err := s.cards.Save(c); err != nil {
		s.card = nil
		s.ledger = nil
		return card.Details{}, fmt.Errorf("failed to persist new card: %w", err)
	}
	if s.cfg.WelcomeBonus > 0 {
		if _, err := s.ledger.AppendWithID(bonusOpID, ledger.TypeAdd, s.cfg.WelcomeBonus, welcomeBonusDescription); err != nil {
			log.Warn().Err(err).Msg("failed to record welcome bonus")
		}
	}

	s.state = StateReconciled
	log.Info().Str("card_number", c.CardNumber).Int("points", c.Points).Msg("member registered")
	return c.Details(), nil
}

// AddPoints routes the mutation through the backend first; only on success
// are the card, the ledger and the persisted record updated.
func (s *Session) AddPoints(ctx context.Context, n int, description string) (backend.Operation, error) {
	if s.card == nil {
		return backend.Operation{}, ErrNoCard
	}
	// Cheap local check before paying the simulated latency.
	if n <= 0 {
		return backend.Operation{}, card.ErrInvalidAmount
	}

	opCtx, cancel := s.opContext(ctx)
	op, err := s.api.AddPoints(opCtx, s.card.CardNumber, n)
	cancel()
	if err != nil {
		return backend.Operation{}, err
	}

	s.applyMutation(op, ledger.TypeAdd, n, description)
	return op, nil
}

// UsePoints spends points. Invalid amounts and insufficiency against the
// cached balance are rejected locally before any backend round-trip.
func (s *Session) UsePoints(ctx context.Context, n int, description string) (backend.Operation, error) {
	if s.card == nil {
		return backend.Operation{}, ErrNoCard
	}
	if n <= 0 {
		return backend.Operation{}, card.ErrInvalidAmount
	}
	if n > s.card.Points {
		return backend.Operation{}, card.ErrInsufficientBalance
	}

	opCtx, cancel := s.opContext(ctx)
	op, err := s.api.UsePoints(opCtx, s.card.CardNumber, n)
	cancel()
	if err != nil {
		return backend.Operation{}, err
	}

	s.applyMutation(op, ledger.TypeUse, n, description)
	return op, nil
}

// applyMutation commits a successful backend mutation locally: balance,
// ledger entry, persisted record. The local entry shares the remote
// operation id so the two logs can be joined later.
func (s *Session) applyMutation(op backend.Operation, txType ledger.TransactionType, n int, description string) {
	s.card.Points = op.NewBalance

	if _, err := s.ledger.AppendWithID(op.OperationID, txType, n, description); err != nil {
		log.Warn().Err(err).Msg("failed to record transaction")
	}
	if err := s.cards.Save(s.card); err != nil {
		log.Warn().Err(err).Msg("failed to persist card after mutation")
	}

	log.Info().
		Str("card_number", s.card.CardNumber).
		Str("type", string(txType)).
		Int("points", n).
		Int("balance", s.card.Points).
		Msg("points mutation applied")
}

// History returns the transaction history for display, most recent first.
// The remote log is preferred; when it is empty or unreachable the local
// ledger stands in.
func (s *Session) History(ctx context.Context) ([]ledger.Transaction, error) {
	if s.card == nil {
		return nil, ErrNoCard
	}

	opCtx, cancel := s.opContext(ctx)
	remote, err := s.api.GetTransactionHistory(opCtx, s.card.CardNumber)
	cancel()
	if err != nil || len(remote) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("remote history unavailable, using local ledger")
		}
		return s.ledger.Sorted(), nil
	}

	// The remote log carries balances, not descriptions; fill those in
	// from the local entries recorded under the same operation id.
	local := make(map[string]string)
	for _, tx := range s.ledger.All() {
		if tx.Description != "" {
			local[tx.ID] = tx.Description
		}
	}
	for i := range remote {
		if remote[i].Description == "" {
			remote[i].Description = local[remote[i].ID]
		}
	}

	sort.SliceStable(remote, func(i, j int) bool {
		return remote[i].Timestamp.After(remote[j].Timestamp)
	})
	return remote, nil
}

// Details returns the card projection for display.
func (s *Session) Details() (card.Details, error) {
	if s.card == nil {
		return card.Details{}, ErrNoCard
	}
	return s.card.Details(), nil
}

// Ledger exposes the local ledger for filtered views.
func (s *Session) Ledger() *ledger.Ledger {
	return s.ledger
}

// State reports the reconciliation state.
func (s *Session) State() State {
	return s.state
}

// Reset removes the persisted card and returns the session to Unloaded.
// Ledger records persist independently of the card record.
func (s *Session) Reset() error {
	if err := s.cards.Clear(); err != nil {
		return err
	}
	s.card = nil
	s.ledger = nil
	s.state = StateUnloaded
	return nil
}

func (s *Session) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}
