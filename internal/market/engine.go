// Package market owns the simulated stock universe and its price walk.
package market

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"luminapay/internal/models"
)

const (
	// HistoryLength is the fixed size of each stock's price window.
	HistoryLength = 50

	// DefaultTickInterval is how often prices fluctuate.
	DefaultTickInterval = 3 * time.Second

	// seedVariance bounds the random walk used to synthesize the
	// initial history, as a fraction of the seed price.
	seedVariance = 0.02

	// tickVariance bounds the per-tick perturbation, as a fraction of
	// the current price.
	tickVariance = 0.001

	// tickSkew shifts the perturbation distribution slightly upward:
	// delta = (rand - tickSkew) * price * tickVariance.
	tickSkew = 0.48
)

// Engine advances the instrument set on a fixed tick. All access is
// mutex-guarded; instruments are never added or removed after New.
type Engine struct {
	mu     sync.RWMutex
	stocks []*models.Stock
	index  map[string]*models.Stock
	opens  map[string]float64 // session-open price per symbol
	rng    *rand.Rand
	logger *zap.Logger
}

// New seeds the engine from the given instruments. Each stock gets a
// synthetic history window generated by a bounded random walk back from
// its seed price. The session-open price is fixed once here; percent
// change is always derived from it rather than recomputed from the
// cumulative change, which drifts under repeated float operations.
func New(seed []models.Stock, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		index:  make(map[string]*models.Stock, len(seed)),
		opens:  make(map[string]float64, len(seed)),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
	for i := range seed {
		s := seed[i]
		s.History = e.generateHistory(s.Price)
		open := s.Price - s.Change
		if open <= 0 {
			open = s.Price
			s.Change = 0
		}
		s.ChangePercent = round2((s.Price - open) / open * 100)
		e.opens[s.Symbol] = open
		e.stocks = append(e.stocks, &s)
		e.index[s.Symbol] = &s
	}
	return e
}

// generateHistory walks backwards from the current price, perturbing by
// up to ±2% of it per step, then returns the walk oldest-first ending
// at the current price.
func (e *Engine) generateHistory(price float64) []float64 {
	history := make([]float64, HistoryLength)
	history[HistoryLength-1] = price
	for i := HistoryLength - 2; i >= 0; i-- {
		delta := (e.rng.Float64() - 0.5) * price * seedVariance
		prev := history[i+1] + delta
		if prev <= 0 {
			prev = history[i+1]
		}
		history[i] = prev
	}
	return history
}

// Run ticks the engine at the given interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("market engine started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("market engine stopped")
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick perturbs every stock once. The symbol set and history length are
// invariant; prices stay finite and positive because the perturbation
// is additive and bounded to a fraction of the current price.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, s := range e.stocks {
		delta := (e.rng.Float64() - tickSkew) * s.Price * tickVariance
		price := round2(s.Price + delta)
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		open := e.opens[s.Symbol]

		s.Price = price
		s.Change = round2(price - open)
		s.ChangePercent = round2((price - open) / open * 100)
		s.History = append(s.History[1:], price)
	}
}

// Stocks returns a snapshot copy of all instruments.
func (e *Engine) Stocks() []models.Stock {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Stock, 0, len(e.stocks))
	for _, s := range e.stocks {
		out = append(out, snapshot(s))
	}
	return out
}

// Get returns a snapshot of one instrument by symbol.
func (e *Engine) Get(symbol string) (models.Stock, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.index[symbol]
	if !ok {
		return models.Stock{}, false
	}
	return snapshot(s), true
}

// Price returns the current price of one instrument.
func (e *Engine) Price(symbol string) (float64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.index[symbol]
	if !ok {
		return 0, false
	}
	return s.Price, true
}

func snapshot(s *models.Stock) models.Stock {
	out := *s
	out.History = append([]float64(nil), s.History...)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
