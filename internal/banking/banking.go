// Package banking mocks instant bank-detail verification for transfers.
package banking

import (
	"context"
	"regexp"
	"time"

	apperrors "luminapay/internal/errors"
)

// DefaultVerifyDelay models the verification round trip.
const DefaultVerifyDelay = 1500 * time.Millisecond

// mockBranch is what the simulated IFSC directory always resolves to.
const mockBranch = "HDFC BANK - CONNAUGHT PLACE"

var ifscRe = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Verification is the result of an IFSC lookup.
type Verification struct {
	IFSC   string `json:"ifsc"`
	Branch string `json:"branch"`
}

// Service performs the mocked bank directory lookups.
type Service struct {
	verifyDelay time.Duration
}

// NewService creates a banking service. A zero delay falls back to the
// default; tests pass a tiny one.
func NewService(verifyDelay time.Duration) *Service {
	if verifyDelay <= 0 {
		verifyDelay = DefaultVerifyDelay
	}
	return &Service{verifyDelay: verifyDelay}
}

// VerifyIFSC resolves an 11-character IFSC code to its branch after
// the simulated delay. Cancelling ctx aborts the wait.
func (s *Service) VerifyIFSC(ctx context.Context, ifsc string) (Verification, error) {
	if len(ifsc) != 11 || !ifscRe.MatchString(ifsc) {
		return Verification{}, apperrors.ValidationField("ifsc", "enter a valid 11-character IFSC code")
	}

	select {
	case <-ctx.Done():
		return Verification{}, ctx.Err()
	case <-time.After(s.verifyDelay):
	}
	return Verification{IFSC: ifsc, Branch: mockBranch}, nil
}
