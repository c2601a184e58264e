// Package wallet owns the session balance and the append-only
// transaction ledger. The balance is only ever mutated inside Commit,
// which also appends exactly one ledger entry, so the two can never
// drift apart.
package wallet

import (
	"fmt"
	"sync"
	"time"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
)

// Wallet is the single-session money state.
type Wallet struct {
	mu      sync.RWMutex
	balance float64
	ledger  []models.Transaction // most recent first
}

// New creates a wallet with an opening balance and an optional seed
// ledger (already ordered most recent first).
func New(openingBalance float64, seed []models.Transaction) *Wallet {
	return &Wallet{
		balance: openingBalance,
		ledger:  append([]models.Transaction(nil), seed...),
	}
}

// Entry describes a transaction to commit.
type Entry struct {
	Recipient  string
	Amount     float64
	Type       string // models.TxDebit or models.TxCredit
	Category   string
	Note       string
	Recurrence string
}

// Commit applies an entry atomically: the signed amount moves the
// balance and the resulting transaction is prepended to the ledger.
// A debit exceeding the balance fails with ErrInsufficientFunds and
// leaves both untouched.
func (w *Wallet) Commit(e Entry) (models.Transaction, error) {
	if e.Amount <= 0 {
		return models.Transaction{}, apperrors.Validation("amount must be positive")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Type {
	case models.TxDebit:
		if e.Amount > w.balance {
			return models.Transaction{}, apperrors.New(apperrors.ErrInsufficientFunds,
				fmt.Sprintf("balance %.2f cannot cover debit %.2f", w.balance, e.Amount))
		}
		w.balance -= e.Amount
	case models.TxCredit:
		w.balance += e.Amount
	default:
		return models.Transaction{}, apperrors.Validation("unknown transaction type")
	}

	tx := models.Transaction{
		ID:         newTransactionID(),
		Recipient:  e.Recipient,
		Amount:     e.Amount,
		Date:       time.Now(),
		Type:       e.Type,
		Status:     models.TxSuccess,
		Category:   e.Category,
		Note:       e.Note,
		Recurrence: e.Recurrence,
	}
	w.ledger = append([]models.Transaction{tx}, w.ledger...)
	return tx, nil
}

// Balance returns the current balance.
func (w *Wallet) Balance() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Transactions returns a snapshot of the ledger, most recent first.
func (w *Wallet) Transactions() []models.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Transaction(nil), w.ledger...)
}

// Recent returns at most n of the newest ledger entries.
func (w *Wallet) Recent(n int) []models.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if n > len(w.ledger) {
		n = len(w.ledger)
	}
	return append([]models.Transaction(nil), w.ledger[:n]...)
}

// newTransactionID builds a time-derived unique id.
func newTransactionID() string {
	return fmt.Sprintf("tx_%d", time.Now().UnixNano())
}
