// Package portfolio maintains the user's stock positions and merges
// imported holdings into them.
package portfolio

import (
	"sync"

	"luminapay/internal/models"
)

// Holdings is the set of positions, at most one per symbol. There is no
// sell path; positions only grow or stay. Mutations from settlements
// and imports are serialized by the internal mutex.
type Holdings struct {
	mu        sync.RWMutex
	positions []models.StockHolding
	index     map[string]int
}

// NewHoldings returns an empty holdings set.
func NewHoldings() *Holdings {
	return &Holdings{index: make(map[string]int)}
}

// Add merges a new acquisition into the set. An existing position in
// the same symbol is combined by the weighted-average rule: quantities
// sum, and the average price becomes the value-weighted mean.
func (h *Holdings) Add(symbol string, quantity, price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.addLocked(symbol, quantity, price)
}

func (h *Holdings) addLocked(symbol string, quantity, price float64) {
	if quantity <= 0 {
		return
	}
	if i, ok := h.index[symbol]; ok {
		h.positions[i] = mergePosition(h.positions[i], models.StockHolding{
			Symbol:   symbol,
			Quantity: quantity,
			AvgPrice: price,
		})
		return
	}
	h.index[symbol] = len(h.positions)
	h.positions = append(h.positions, models.StockHolding{
		Symbol:   symbol,
		Quantity: quantity,
		AvgPrice: price,
	})
}

// MergeAll folds a batch of holdings into the set, one Add per entry,
// under a single lock so a concurrent settlement cannot interleave.
func (h *Holdings) MergeAll(batch []models.StockHolding) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, n := range batch {
		h.addLocked(n.Symbol, n.Quantity, n.AvgPrice)
	}
}

// Get returns the position for a symbol, if any.
func (h *Holdings) Get(symbol string) (models.StockHolding, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	i, ok := h.index[symbol]
	if !ok {
		return models.StockHolding{}, false
	}
	return h.positions[i], true
}

// List returns a snapshot of all positions in insertion order.
func (h *Holdings) List() []models.StockHolding {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.StockHolding(nil), h.positions...)
}

// Len returns the number of distinct symbols held.
func (h *Holdings) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.positions)
}

// Valuation summarizes the portfolio at current prices.
type Valuation struct {
	CurrentValue  float64 `json:"current_value"`
	InvestedValue float64 `json:"invested_value"`
	TotalReturns  float64 `json:"total_returns"`
}

// Value computes the portfolio valuation using priceOf to resolve the
// current price per symbol. A symbol priceOf does not know falls back
// to its average cost, so unknown imports value at break-even.
func (h *Holdings) Value(priceOf func(symbol string) (float64, bool)) Valuation {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var v Valuation
	for _, p := range h.positions {
		price, ok := priceOf(p.Symbol)
		if !ok {
			price = p.AvgPrice
		}
		v.CurrentValue += p.Value(price)
		v.InvestedValue += p.Cost()
	}
	v.TotalReturns = v.CurrentValue - v.InvestedValue
	return v
}

// mergePosition combines two positions in the same symbol: quantities
// sum and the average price is the value-weighted mean. Commutative up
// to floating-point tolerance.
func mergePosition(a, b models.StockHolding) models.StockHolding {
	total := a.Quantity + b.Quantity
	if total == 0 {
		return a
	}
	return models.StockHolding{
		Symbol:   a.Symbol,
		Quantity: total,
		AvgPrice: (a.Quantity*a.AvgPrice + b.Quantity*b.AvgPrice) / total,
	}
}
