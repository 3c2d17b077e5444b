package usermsg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/memberclub/memberclub-core/internal/domain/backend"
	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/pkg/usermsg"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"nil", nil, "OK", false},
		{"invalid amount", card.ErrInvalidAmount, "INVALID_AMOUNT", false},
		{"local insufficiency", card.ErrInsufficientBalance, "INSUFFICIENT_BALANCE", false},
		{"remote insufficiency", backend.ErrInsufficientBalance, "INSUFFICIENT_BALANCE", false},
		{"transient", backend.ErrTransient, "SERVICE_UNAVAILABLE", true},
		{"wrapped transient", fmt.Errorf("add points: %w", backend.ErrTransient), "SERVICE_UNAVAILABLE", true},
		{"unknown", errors.New("boom"), "INTERNAL_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := usermsg.FromError(tt.err)
			if msg.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, msg.Code)
			}
			if msg.Retryable != tt.retryable {
				t.Fatalf("expected retryable=%v for %s", tt.retryable, tt.code)
			}
			if msg.Text == "" {
				t.Fatal("expected non-empty message text")
			}
		})
	}
}
