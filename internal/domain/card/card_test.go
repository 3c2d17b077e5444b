package card_test

import (
	"errors"
	"testing"
	"time"

	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/pkg/clock"
	"github.com/memberclub/memberclub-core/internal/pkg/randsrc"
)

var testProfile = card.Profile{
	Name:      "Ana",
	Email:     "a@x.com",
	Phone:     "(11) 91234-5678",
	Birthdate: "1990-01-01",
}

func newTestCard(t *testing.T) *card.Card {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	gen := card.NewNumberGenerator(randsrc.New(1))
	return card.New(testProfile, clk, gen, 2)
}

func TestNewCard(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	gen := card.NewNumberGenerator(randsrc.New(1))
	c := card.New(testProfile, clk, gen, 2)

	if c.Points != 0 {
		t.Fatalf("expected zero balance, got %d", c.Points)
	}
	want := time.Date(2027, 3, 10, 12, 0, 0, 0, time.UTC)
	if !c.ValidUntil.Equal(want) {
		t.Fatalf("expected validUntil %v, got %v", want, c.ValidUntil)
	}
	if c.CreatedAt != clk.Now() {
		t.Fatalf("expected createdAt pinned to clock, got %v", c.CreatedAt)
	}
}

func TestAddPoints(t *testing.T) {
	c := newTestCard(t)

	balance, err := c.AddPoints(50)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if balance != 50 || c.Points != 50 {
		t.Fatalf("expected balance 50, got %d", c.Points)
	}

	if _, err := c.AddPoints(25); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if c.Points != 75 {
		t.Fatalf("expected balance 75, got %d", c.Points)
	}
}

func TestAddPointsInvalidAmount(t *testing.T) {
	c := newTestCard(t)
	c.AddPoints(10)

	for _, n := range []int{0, -1, -100} {
		if _, err := c.AddPoints(n); !errors.Is(err, card.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %d, got %v", n, err)
		}
	}
	if c.Points != 10 {
		t.Fatalf("rejected add must not change balance, got %d", c.Points)
	}
}

func TestUsePoints(t *testing.T) {
	c := newTestCard(t)
	c.AddPoints(100)

	balance, err := c.UsePoints(30)
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if balance != 70 || c.Points != 70 {
		t.Fatalf("expected balance 70, got %d", c.Points)
	}
}

func TestUsePointsInvalidAmount(t *testing.T) {
	c := newTestCard(t)
	c.AddPoints(10)

	for _, n := range []int{0, -5} {
		if _, err := c.UsePoints(n); !errors.Is(err, card.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount for %d, got %v", n, err)
		}
	}
	if c.Points != 10 {
		t.Fatalf("rejected use must not change balance, got %d", c.Points)
	}
}

func TestUsePointsInsufficientBalance(t *testing.T) {
	c := newTestCard(t)
	c.AddPoints(20)

	if _, err := c.UsePoints(21); !errors.Is(err, card.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if c.Points != 20 {
		t.Fatalf("rejected use must not change balance, got %d", c.Points)
	}
}

func TestDetailsProjection(t *testing.T) {
	c := newTestCard(t)
	c.AddPoints(42)

	d := c.Details()
	if d.Name != "Ana" || d.Points != 42 {
		t.Fatalf("unexpected projection: %+v", d)
	}
	if d.CardNumber != c.CardNumber || !d.ValidUntil.Equal(c.ValidUntil) {
		t.Fatalf("projection must mirror the card: %+v", d)
	}
}
