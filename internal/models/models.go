// Package models contains the domain models for LuminaPay.
package models

import "time"

// KYC status values for a user profile.
const (
	KYCVerified = "Verified"
	KYCPending  = "Pending"
)

// UserProfile is the identity record created at login completion.
// It is immutable during a session; a new one is built on re-login.
type UserProfile struct {
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	PaymentAddress string    `json:"payment_address"` // e.g. alex@lumina
	KYCStatus      string    `json:"kyc_status"`
	LastLogin      time.Time `json:"last_login"`
}

// Transaction direction.
const (
	TxDebit  = "debit"
	TxCredit = "credit"
)

// Transaction settlement status. Current flows only ever produce success.
const (
	TxSuccess = "success"
	TxFailed  = "failed"
	TxPending = "pending"
)

// Transaction categories produced by the built-in flows and seed history.
// The set is an open string enumeration.
const (
	CategoryGeneral       = "General"
	CategoryTransfer      = "Transfer"
	CategoryLoan          = "Loan"
	CategoryInternational = "International"
	CategoryInvestment    = "Investment"
)

// Transaction is a committed ledger entry. Immutable once created.
type Transaction struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`   // debit | credit
	Status     string    `json:"status"` // success | failed | pending
	Category   string    `json:"category,omitempty"`
	Note       string    `json:"note,omitempty"`
	Recurrence string    `json:"recurrence,omitempty"` // e.g. "Monthly"
}

// Contact is a known payee.
type Contact struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	PaymentAddress string `json:"payment_address"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

// Biller is a bill-payment merchant.
type Biller struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"` // Mobile, Electric, DTH, ...
	InputLabel  string `json:"input_label"`
	Placeholder string `json:"placeholder,omitempty"`
}

// PaymentIntent is the structured result of parsing a free-text payment
// instruction.
type PaymentIntent struct {
	RecipientName  string  `json:"recipient_name"`
	PaymentAddress string  `json:"payment_address,omitempty"`
	Amount         float64 `json:"amount"`
	Note           string  `json:"note"`
	Recurrence     string  `json:"recurrence,omitempty"`
}

// ChatMessage is one turn of the support conversation.
type ChatMessage struct {
	ID   string `json:"id"`
	Role string `json:"role"` // user | model
	Text string `json:"text"`
}

// Stock is a tradable instrument. Mutated only by the market engine tick.
type Stock struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	History       []float64 `json:"history"`
	Sector        string    `json:"sector,omitempty"`
	Index         string    `json:"index,omitempty"`
}

// StockHolding is a per-symbol position.
type StockHolding struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	AvgPrice float64 `json:"avg_price"`
}

// Value returns the position value at the given price.
func (h StockHolding) Value(price float64) float64 {
	return h.Quantity * price
}

// Cost returns the invested value of the position.
func (h StockHolding) Cost() float64 {
	return h.Quantity * h.AvgPrice
}

// Session is an authenticated session record.
type Session struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
