// Package flow implements the payment flow state machine: one
// controller drives the recipient, amount, PIN and settlement sequence
// for every flow kind, and commits ledger, balance and holding effects
// when a settlement completes.
package flow

import (
	"math"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
	"luminapay/internal/portfolio"
	"luminapay/internal/wallet"
)

// Kind selects which settlement effect a confirmed PIN entry triggers.
type Kind string

const (
	KindPayment Kind = "PAYMENT"
	KindInvest  Kind = "INVEST"
	KindLoan    Kind = "LOAN"
	KindIntl    Kind = "INTL"
	KindBalance Kind = "BALANCE"
)

// State of the in-progress flow.
type State string

const (
	StateIdle          State = "IDLE"
	StateAmountEntry   State = "AMOUNT_ENTRY"
	StatePinEntry      State = "PIN_ENTRY"
	StateSettling      State = "SETTLING"
	StateSuccess       State = "SUCCESS"
	StateBalanceResult State = "BALANCE_RESULT"
	StateFailed        State = "FAILED"
)

// PinLength is the hard cap on the PIN buffer.
const PinLength = 4

// ExternalBankBalance is the fixed value the mocked bank returns for a
// balance check.
const ExternalBankBalance = 145200.50

// Delays are the artificial settlement latencies per flow kind.
type Delays struct {
	Payment time.Duration // PAYMENT, INVEST, LOAN
	Intl    time.Duration
	Balance time.Duration
}

// DefaultDelays model typical network latency.
var DefaultDelays = Delays{
	Payment: 800 * time.Millisecond,
	Intl:    1500 * time.Millisecond,
	Balance: 2 * time.Second,
}

// PriceSource resolves the current price of an instrument.
type PriceSource interface {
	Price(symbol string) (float64, bool)
}

// Initiation carries the entry-point fields for a new flow. Amount,
// Note and Recurrence may be pre-filled (AI intent, loan offer, biller
// selection, intl booking); everything else starts clean.
type Initiation struct {
	Kind        Kind
	Recipient   string
	Amount      string
	Note        string
	Recurrence  string
	Category    string
	StockSymbol string // INVEST only
}

// Result is delivered when a scheduled settlement fires.
type Result struct {
	Committed   bool                 `json:"committed"`
	Stale       bool                 `json:"stale,omitempty"`
	Kind        Kind                 `json:"kind"`
	Transaction *models.Transaction  `json:"transaction,omitempty"`
	Holding     *models.StockHolding `json:"holding,omitempty"`
	BankBalance *float64             `json:"bank_balance,omitempty"`
	Err         error                `json:"-"`
	Error       string               `json:"error,omitempty"`
}

// Snapshot is an immutable view of the flow context.
type Snapshot struct {
	State       State   `json:"state"`
	Kind        Kind    `json:"kind"`
	Recipient   string  `json:"recipient"`
	Amount      string  `json:"amount"`
	Note        string  `json:"note,omitempty"`
	Recurrence  string  `json:"recurrence,omitempty"`
	PinLength   int     `json:"pin_length"`
	StockSymbol string  `json:"stock_symbol,omitempty"`
	StockPrice  float64 `json:"stock_price,omitempty"`
	SearchText  string  `json:"search_text,omitempty"`
}

// Engine owns the ephemeral flow context and applies settlement effects
// to the wallet and holdings. A generation token guards against stale
// settlement timers: abandoning a flow bumps the generation, and a
// timer that fires for an old generation discards its effects.
type Engine struct {
	mu       sync.Mutex
	wallet   *wallet.Wallet
	holdings *portfolio.Holdings
	prices   PriceSource
	delays   Delays
	logger   *zap.Logger

	state       State
	kind        Kind
	recipient   string
	amount      string
	note        string
	recurrence  string
	category    string
	pin         string
	stockSymbol string
	stockPrice  float64
	searchText  string
	generation  uint64
}

// New creates a flow engine in the idle state.
func New(w *wallet.Wallet, h *portfolio.Holdings, prices PriceSource, delays Delays, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delays.Payment <= 0 {
		delays.Payment = DefaultDelays.Payment
	}
	if delays.Intl <= 0 {
		delays.Intl = DefaultDelays.Intl
	}
	if delays.Balance <= 0 {
		delays.Balance = DefaultDelays.Balance
	}
	return &Engine{
		wallet:   w,
		holdings: h,
		prices:   prices,
		delays:   delays,
		logger:   logger,
		state:    StateIdle,
		kind:     KindPayment,
	}
}

// Initiate starts a new flow from any entry point. The PIN buffer is
// always reset; amount, note and recurrence are cleared unless the
// initiation pre-fills them. BALANCE, LOAN and INTL flows skip amount
// entry and go straight to the PIN screen.
func (e *Engine) Initiate(init Initiation) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if init.Kind == "" {
		init.Kind = KindPayment
	}

	// Validate before touching the context: a rejected initiation must
	// leave the previous flow exactly as it was.
	var price float64
	if init.Kind == KindInvest {
		if init.StockSymbol == "" {
			return e.snapshotLocked(), apperrors.Validation("stock symbol is required for investment")
		}
		p, ok := e.prices.Price(init.StockSymbol)
		if !ok {
			return e.snapshotLocked(), apperrors.NotFound("stock " + init.StockSymbol)
		}
		// Quantity is computed against the price at initiation, not
		// at settlement.
		price = p
	}

	e.generation++
	e.kind = init.Kind
	e.recipient = init.Recipient
	e.amount = init.Amount
	e.note = init.Note
	e.recurrence = init.Recurrence
	e.category = init.Category
	e.pin = ""
	e.stockSymbol = ""
	e.stockPrice = 0

	if init.Kind == KindInvest {
		e.stockSymbol = init.StockSymbol
		e.stockPrice = price
	}

	switch init.Kind {
	case KindBalance, KindLoan, KindIntl:
		e.state = StatePinEntry
	default:
		e.state = StateAmountEntry
	}

	e.logger.Debug("flow initiated",
		zap.String("kind", string(init.Kind)),
		zap.String("recipient", init.Recipient))
	return e.snapshotLocked(), nil
}

// SetAmount updates the pending amount during amount entry.
func (e *Engine) SetAmount(amount string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAmountEntry {
		return apperrors.New(apperrors.ErrFlowState, "not entering an amount")
	}
	e.amount = amount
	return nil
}

// SetNote updates the free-text note during amount entry.
func (e *Engine) SetNote(note string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAmountEntry {
		return apperrors.New(apperrors.ErrFlowState, "not entering an amount")
	}
	e.note = note
	return nil
}

// SetSearch records the contact-search text so Reset can clear it.
func (e *Engine) SetSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.searchText = text
}

// Proceed moves from amount entry to PIN entry. The amount must parse
// as a positive number.
func (e *Engine) Proceed() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAmountEntry {
		return apperrors.New(apperrors.ErrFlowState, "not entering an amount")
	}
	amount, err := strconv.ParseFloat(e.amount, 64)
	if err != nil || amount <= 0 || math.IsInf(amount, 0) {
		return apperrors.ValidationField("amount", "enter a valid amount")
	}
	e.state = StatePinEntry
	e.pin = ""
	return nil
}

// PressDigit appends one digit to the PIN buffer. Input beyond the
// four-digit cap and non-digit characters are rejected silently.
func (e *Engine) PressDigit(d byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePinEntry || len(e.pin) >= PinLength || d < '0' || d > '9' {
		return
	}
	e.pin += string(d)
}

// DeleteDigit removes the last PIN digit. Deleting from an empty
// buffer is a no-op.
func (e *Engine) DeleteDigit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePinEntry || len(e.pin) == 0 {
		return
	}
	e.pin = e.pin[:len(e.pin)-1]
}

// Submit confirms the PIN and schedules the settlement after the
// artificial per-kind delay. The returned channel delivers exactly one
// Result when the settlement fires. The PIN value itself is never
// verified (any four digits settle); the length is.
func (e *Engine) Submit() (<-chan Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePinEntry {
		return nil, apperrors.New(apperrors.ErrFlowState, "no PIN entry in progress")
	}
	if len(e.pin) != PinLength {
		return nil, apperrors.ValidationField("pin", "enter your 4-digit PIN")
	}

	e.state = StateSettling
	gen := e.generation
	kind := e.kind
	ch := make(chan Result, 1)

	delay := e.delays.Payment
	switch e.kind {
	case KindIntl:
		delay = e.delays.Intl
	case KindBalance:
		delay = e.delays.Balance
	}

	time.AfterFunc(delay, func() {
		ch <- e.settle(gen, kind)
	})
	return ch, nil
}

// Reset returns the flow to the home state: PIN, amount, note and
// search text cleared, kind back to PAYMENT. Bumping the generation
// invalidates any in-flight settlement timer.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.state = StateIdle
	e.kind = KindPayment
	e.recipient = ""
	e.amount = ""
	e.note = ""
	e.recurrence = ""
	e.category = ""
	e.pin = ""
	e.stockSymbol = ""
	e.stockPrice = 0
	e.searchText = ""
}

// Snapshot returns the current flow context.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:       e.state,
		Kind:        e.kind,
		Recipient:   e.recipient,
		Amount:      e.amount,
		Note:        e.note,
		Recurrence:  e.recurrence,
		PinLength:   len(e.pin),
		StockSymbol: e.stockSymbol,
		StockPrice:  e.stockPrice,
		SearchText:  e.searchText,
	}
}

// settle commits the per-kind effect. A settlement whose generation no
// longer matches was abandoned mid-flight; it is discarded without
// touching any state. The kind is the one captured at Submit, so a
// stale result still names the flow it belonged to.
func (e *Engine) settle(gen uint64, kind Kind) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.logger.Debug("discarding stale settlement", zap.Uint64("generation", gen))
		return Result{Stale: true, Kind: kind}
	}

	result := Result{Kind: e.kind}

	switch e.kind {
	case KindBalance:
		balance := ExternalBankBalance
		result.Committed = true
		result.BankBalance = &balance
		e.state = StateBalanceResult
		return result

	case KindInvest:
		amount, err := strconv.ParseFloat(e.amount, 64)
		if err != nil || amount <= 0 {
			return e.failLocked(result, apperrors.ValidationField("amount", "enter a valid amount"))
		}
		if e.stockSymbol == "" || e.stockPrice <= 0 {
			return e.failLocked(result, apperrors.New(apperrors.ErrFlowState, "no priced stock on this flow"))
		}
		quantity := math.Floor(amount / e.stockPrice)
		tx, err := e.wallet.Commit(wallet.Entry{
			Recipient: e.recipient,
			Amount:    amount,
			Type:      models.TxDebit,
			Category:  models.CategoryInvestment,
			Note:      e.note,
		})
		if err != nil {
			return e.failLocked(result, err)
		}
		e.holdings.Add(e.stockSymbol, quantity, e.stockPrice)
		result.Committed = true
		result.Transaction = &tx
		if holding, ok := e.holdings.Get(e.stockSymbol); ok {
			result.Holding = &holding
		}

	case KindLoan:
		amount, err := strconv.ParseFloat(e.amount, 64)
		if err != nil || amount <= 0 {
			return e.failLocked(result, apperrors.ValidationField("amount", "enter a valid amount"))
		}
		tx, err := e.wallet.Commit(wallet.Entry{
			Recipient: "LuminaPay Loans",
			Amount:    amount,
			Type:      models.TxCredit,
			Category:  models.CategoryLoan,
			Note:      "Instant Loan Disbursal",
		})
		if err != nil {
			return e.failLocked(result, err)
		}
		result.Committed = true
		result.Transaction = &tx

	case KindIntl:
		amount, err := strconv.ParseFloat(e.amount, 64)
		if err != nil || amount <= 0 {
			return e.failLocked(result, apperrors.ValidationField("amount", "enter a valid amount"))
		}
		tx, err := e.wallet.Commit(wallet.Entry{
			Recipient: e.recipient,
			Amount:    amount,
			Type:      models.TxDebit,
			Category:  models.CategoryInternational,
			Note:      "Foreign Remittance",
		})
		if err != nil {
			return e.failLocked(result, err)
		}
		result.Committed = true
		result.Transaction = &tx

	default: // KindPayment
		amount, err := strconv.ParseFloat(e.amount, 64)
		if err != nil || amount <= 0 {
			return e.failLocked(result, apperrors.ValidationField("amount", "enter a valid amount"))
		}
		category := e.category
		if category == "" {
			category = models.CategoryGeneral
		}
		tx, err := e.wallet.Commit(wallet.Entry{
			Recipient:  e.recipient,
			Amount:     amount,
			Type:       models.TxDebit,
			Category:   category,
			Note:       e.note,
			Recurrence: e.recurrence,
		})
		if err != nil {
			return e.failLocked(result, err)
		}
		result.Committed = true
		result.Transaction = &tx
	}

	e.state = StateSuccess
	e.logger.Info("settlement committed",
		zap.String("kind", string(result.Kind)),
		zap.String("recipient", e.recipient))
	return result
}

func (e *Engine) failLocked(result Result, err error) Result {
	e.state = StateFailed
	result.Err = err
	result.Error = err.Error()
	e.logger.Warn("settlement failed",
		zap.String("kind", string(e.kind)),
		zap.Error(err))
	return result
}
