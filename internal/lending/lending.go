// Package lending mocks the instant-loan eligibility check and EMI
// quoting. The credit bureau is simulated with a fixed delay and a
// fixed result.
package lending

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "luminapay/internal/errors"
)

const (
	// mockCreditScore and mockOfferCap are what the simulated bureau
	// always returns.
	mockCreditScore = 785
	mockOfferCap    = 200000.0

	// flatAnnualRate is the advertised flat interest rate.
	flatAnnualRate = 0.14

	// DefaultCheckDelay models the bureau round trip.
	DefaultCheckDelay = 2 * time.Second
)

// Offer is the result of an eligibility check.
type Offer struct {
	CreditScore int     `json:"credit_score"`
	MaxAmount   float64 `json:"max_amount"`
}

// EMIQuote breaks a loan down into equal monthly installments.
type EMIQuote struct {
	Principal     float64 `json:"principal"`
	TenureMonths  int     `json:"tenure_months"`
	AnnualRate    float64 `json:"annual_rate"`
	TotalInterest float64 `json:"total_interest"`
	TotalPayable  float64 `json:"total_payable"`
	Monthly       float64 `json:"monthly"`
}

// Service performs the mocked lending operations.
type Service struct {
	checkDelay time.Duration
}

// NewService creates a lending service with the given bureau delay.
// A zero delay falls back to the default; tests pass a tiny one.
func NewService(checkDelay time.Duration) *Service {
	if checkDelay <= 0 {
		checkDelay = DefaultCheckDelay
	}
	return &Service{checkDelay: checkDelay}
}

// CheckEligibility waits out the simulated bureau delay and returns
// the fixed offer. Cancelling ctx aborts the wait.
func (s *Service) CheckEligibility(ctx context.Context) (Offer, error) {
	select {
	case <-ctx.Done():
		return Offer{}, ctx.Err()
	case <-time.After(s.checkDelay):
	}
	return Offer{CreditScore: mockCreditScore, MaxAmount: mockOfferCap}, nil
}

// QuoteEMI prices a loan at the flat annual rate: interest accrues on
// the full principal for the whole tenure, as the mock lender
// advertises. Decimal arithmetic avoids rounding drift on the split.
func (s *Service) QuoteEMI(principal float64, tenureMonths int) (EMIQuote, error) {
	if principal <= 0 || principal > mockOfferCap {
		return EMIQuote{}, apperrors.ValidationField("amount", "loan amount must be within the approved offer")
	}
	if tenureMonths < 3 || tenureMonths > 36 {
		return EMIQuote{}, apperrors.ValidationField("tenure", "tenure must be between 3 and 36 months")
	}

	p := decimal.NewFromFloat(principal)
	years := decimal.NewFromInt(int64(tenureMonths)).Div(decimal.NewFromInt(12))
	interest := p.Mul(decimal.NewFromFloat(flatAnnualRate)).Mul(years).Round(2)
	total := p.Add(interest)
	monthly := total.Div(decimal.NewFromInt(int64(tenureMonths))).Round(2)

	return EMIQuote{
		Principal:     principal,
		TenureMonths:  tenureMonths,
		AnnualRate:    flatAnnualRate,
		TotalInterest: interest.InexactFloat64(),
		TotalPayable:  total.InexactFloat64(),
		Monthly:       monthly.InexactFloat64(),
	}, nil
}
