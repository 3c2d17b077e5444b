// Package backend is an in-process stand-in for a remote loyalty service.
// Every call sleeps a simulated round-trip and may fail with ErrTransient,
// so calling code exercises realistic asynchronous conditions without a
// network. The backend owns the canonical remote balance per card.
package backend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/domain/ledger"
	"github.com/memberclub/memberclub-core/internal/pkg/clock"
	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
)

// DefaultBaseDelay matches the original service's simulated round-trip.
const DefaultBaseDelay = 800 * time.Millisecond

// DefaultFailureRate is the probability of an injected ErrTransient per call.
const DefaultFailureRate = 0.1

// Level assigned to every new registration.
const defaultLevel = "Standard"

// Config tunes the simulation. Jitter scales with BaseDelay, so a zero
// BaseDelay makes every call immediate for tests.
type Config struct {
	BaseDelay     time.Duration
	FailureRate   float64
	ValidityYears int
}

// Service simulates the remote loyalty backend.
type Service struct {
	cfg   Config
	clk   clock.Clock
	src   randsrc.Source
	gen   *card.NumberGenerator
	token string

	mu       sync.Mutex
	balances map[string]int
	history  map[string][]ledger.Transaction
}

func NewService(cfg Config, clk clock.Clock, src randsrc.Source) *Service {
	s := &Service{
		cfg:      cfg,
		clk:      clk,
		src:      src,
		gen:      card.NewNumberGenerator(src),
		balances: make(map[string]int),
		history:  make(map[string][]ledger.Transaction),
	}
	s.token = "sim_" + s.randomToken(13)
	return s
}

// Token returns the synthetic API token of this backend instance.
func (s *Service) Token() string {
	return s.token
}

// Register creates a remote member record with a fresh card number, zero
// balance and a validity window from now.
func (s *Service) Register(ctx context.Context, profile card.Profile) (Registration, error) {
	if err := s.roundTrip(ctx, s.cfg.BaseDelay, s.jitter(5, 8)); err != nil {
		return Registration{}, err
	}
	if s.injectFailure() {
		return Registration{}, fmt.Errorf("register: %w", ErrTransient)
	}

	now := s.clk.Now()
	reg := Registration{
		ID:         uuid.NewString(),
		Profile:    profile,
		CardNumber: s.gen.Generate(),
		Points:     0,
		Level:      defaultLevel,
		CreatedAt:  now,
		ValidUntil: now.AddDate(s.cfg.ValidityYears, 0, 0),
	}

	s.mu.Lock()
	s.balances[reg.CardNumber] = 0
	s.mu.Unlock()

	log.Info().Str("card_number", reg.CardNumber).Msg("remote member registered")
	return reg, nil
}

// AddPoints commits previous+n as the new remote balance and returns the
// delta record. Validation fails fast, before any simulated latency.
func (s *Service) AddPoints(ctx context.Context, cardNumber string, n int) (Operation, error) {
	if cardNumber == "" || n <= 0 {
		return Operation{}, ErrInvalidRequest
	}
	if err := s.roundTrip(ctx, s.cfg.BaseDelay, s.jitter(3, 8)); err != nil {
		return Operation{}, err
	}
	if s.injectFailure() {
		return Operation{}, fmt.Errorf("add points: %w", ErrTransient)
	}

	previous := s.balance(cardNumber)
	// Short commit delay, as if writing through to a database.
	if err := s.roundTrip(ctx, 0, s.jitter(1, 4)); err != nil {
		return Operation{}, err
	}

	op := Operation{
		CardNumber:      cardNumber,
		PreviousBalance: previous,
		AddedPoints:     n,
		NewBalance:      previous + n,
		OperationID:     s.operationID(),
		Timestamp:       s.clk.Now(),
	}
	s.commit(cardNumber, op.NewBalance, ledger.TypeAdd, n, op)
	return op, nil
}

// UsePoints commits previous-n as the new remote balance. Insufficiency is
// discovered after the latency, mirroring a server-side check.
func (s *Service) UsePoints(ctx context.Context, cardNumber string, n int) (Operation, error) {
	if cardNumber == "" || n <= 0 {
		return Operation{}, ErrInvalidRequest
	}
	if err := s.roundTrip(ctx, s.cfg.BaseDelay, s.jitter(3, 8)); err != nil {
		return Operation{}, err
	}
	if s.injectFailure() {
		return Operation{}, fmt.Errorf("use points: %w", ErrTransient)
	}

	previous := s.balance(cardNumber)
	if previous < n {
		return Operation{}, ErrInsufficientBalance
	}
	if err := s.roundTrip(ctx, 0, s.jitter(1, 4)); err != nil {
		return Operation{}, err
	}

	op := Operation{
		CardNumber:      cardNumber,
		PreviousBalance: previous,
		UsedPoints:      n,
		NewBalance:      previous - n,
		OperationID:     s.operationID(),
		Timestamp:       s.clk.Now(),
	}
	s.commit(cardNumber, op.NewBalance, ledger.TypeUse, n, op)
	return op, nil
}

// GetBalance returns the canonical remote balance, 0 for unknown cards.
func (s *Service) GetBalance(ctx context.Context, cardNumber string) (int, error) {
	if cardNumber == "" {
		return 0, ErrInvalidRequest
	}
	if err := s.roundTrip(ctx, s.cfg.BaseDelay/2, s.jitter(1, 4)); err != nil {
		return 0, err
	}
	if s.injectFailure() {
		return 0, fmt.Errorf("get balance: %w", ErrTransient)
	}
	return s.balance(cardNumber), nil
}

// GetTransactionHistory returns the remote transaction log for a card,
// empty for unknown cards.
func (s *Service) GetTransactionHistory(ctx context.Context, cardNumber string) ([]ledger.Transaction, error) {
	if cardNumber == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.roundTrip(ctx, s.cfg.BaseDelay, s.jitter(1, 2)); err != nil {
		return nil, err
	}
	if s.injectFailure() {
		return nil, fmt.Errorf("get history: %w", ErrTransient)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.Transaction, len(s.history[cardNumber]))
	copy(out, s.history[cardNumber])
	return out, nil
}

// SetBalance seeds the remote balance directly, bypassing the simulation.
// Used by tests and by reconciliation scenarios.
func (s *Service) SetBalance(cardNumber string, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[cardNumber] = balance
}

func (s *Service) balance(cardNumber string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balances[cardNumber]
}

func (s *Service) commit(cardNumber string, newBalance int, txType ledger.TransactionType, points int, op Operation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[cardNumber] = newBalance
	s.history[cardNumber] = append(s.history[cardNumber], ledger.Transaction{
		ID:         op.OperationID,
		Type:       txType,
		Points:     points,
		Timestamp:  op.Timestamp,
		CardNumber: cardNumber,
	})
}

// roundTrip sleeps base plus a random share of jitter, honoring ctx.
// A cancelled or expired context surfaces as ErrTransient so a pending
// call always resolves within its deadline.
func (s *Service) roundTrip(ctx context.Context, base, jitter time.Duration) error {
	d := base + time.Duration(s.src.Float64()*float64(jitter))
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrTransient, ctx.Err())
	}
}

func (s *Service) injectFailure() bool {
	return s.src.Float64() < s.cfg.FailureRate
}

// jitter returns num/den of the base delay.
func (s *Service) jitter(num, den int) time.Duration {
	return s.cfg.BaseDelay * time.Duration(num) / time.Duration(den)
}

func (s *Service) operationID() string {
	return strconv.FormatInt(s.clk.Now().UnixMilli(), 36) + s.randomToken(4)
}

func (s *Service) randomToken(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	var b strings.Builder
	for i := 0; i < n; i++ {
		// Float64 is in [0,1), so idx stays in range.
		idx := int(s.src.Float64() * float64(len(alphabet)))
		b.WriteByte(alphabet[idx])
	}
	return b.String()
}
