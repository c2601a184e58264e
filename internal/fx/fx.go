// Package fx quotes international transfers against fixed mock rates.
package fx

import (
	"github.com/shopspring/decimal"

	apperrors "luminapay/internal/errors"
)

// PlatformFee is the flat fee added to every international transfer,
// in INR.
var PlatformFee = decimal.NewFromInt(250)

// rates is INR per unit of foreign currency.
var rates = map[string]decimal.Decimal{
	"USD": decimal.NewFromFloat(84.50),
	"EUR": decimal.NewFromFloat(91.20),
	"GBP": decimal.NewFromFloat(106.80),
}

// Quote is a priced international transfer.
type Quote struct {
	Currency      string  `json:"currency"`
	Rate          float64 `json:"rate"`
	ForeignAmount float64 `json:"foreign_amount"`
	Converted     float64 `json:"converted"` // foreign * rate, INR
	Fee           float64 `json:"fee"`
	TotalINR      float64 `json:"total_inr"` // converted + fee
}

// Currencies lists the supported foreign currencies.
func Currencies() []string {
	return []string{"USD", "EUR", "GBP"}
}

// NewQuote prices a transfer of foreignAmount units of currency.
// Decimal arithmetic keeps the conversion exact to the paisa.
func NewQuote(currency string, foreignAmount float64) (Quote, error) {
	rate, ok := rates[currency]
	if !ok {
		return Quote{}, apperrors.ValidationField("currency", "unsupported currency "+currency)
	}
	if foreignAmount <= 0 {
		return Quote{}, apperrors.ValidationField("amount", "amount must be positive")
	}

	foreign := decimal.NewFromFloat(foreignAmount)
	converted := foreign.Mul(rate).Round(2)
	total := converted.Add(PlatformFee)

	return Quote{
		Currency:      currency,
		Rate:          rate.InexactFloat64(),
		ForeignAmount: foreignAmount,
		Converted:     converted.InexactFloat64(),
		Fee:           PlatformFee.InexactFloat64(),
		TotalINR:      total.InexactFloat64(),
	}, nil
}
