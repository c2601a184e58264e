package market

import (
	"math"
	"testing"
	"time"

	"luminapay/internal/models"
)

func seedStocks() []models.Stock {
	return []models.Stock{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 2456.50, Change: 12.30},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 3890.00, Change: -15.20},
		{Symbol: "INFY", Name: "Infosys", Price: 1540.75, Change: 5.10},
	}
}

func TestNew_SeedsHistory(t *testing.T) {
	e := New(seedStocks(), nil)

	for _, s := range e.Stocks() {
		if len(s.History) != HistoryLength {
			t.Errorf("%s: history length = %d, want %d", s.Symbol, len(s.History), HistoryLength)
		}
		if s.History[HistoryLength-1] != s.Price {
			t.Errorf("%s: history must end at the current price", s.Symbol)
		}
		for i, p := range s.History {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				t.Fatalf("%s: history[%d] = %v, want finite positive", s.Symbol, i, p)
			}
		}
	}
}

func TestNew_ChangePercentFromOpen(t *testing.T) {
	e := New(seedStocks(), nil)

	s, ok := e.Get("RELIANCE")
	if !ok {
		t.Fatal("RELIANCE missing")
	}
	open := s.Price - s.Change
	want := math.Round((s.Price-open)/open*100*100) / 100
	if s.ChangePercent != want {
		t.Errorf("ChangePercent = %v, want %v", s.ChangePercent, want)
	}
}

func TestEngine_Tick_Invariants(t *testing.T) {
	e := New(seedStocks(), nil)
	before := e.Stocks()

	for i := 0; i < 500; i++ {
		e.Tick()
	}

	after := e.Stocks()
	if len(after) != len(before) {
		t.Fatalf("symbol count changed: %d -> %d", len(before), len(after))
	}
	for i, s := range after {
		if s.Symbol != before[i].Symbol {
			t.Errorf("symbol set changed at %d: %s -> %s", i, before[i].Symbol, s.Symbol)
		}
		if len(s.History) != HistoryLength {
			t.Errorf("%s: history length = %d after ticks, want %d", s.Symbol, len(s.History), HistoryLength)
		}
		if s.Price <= 0 || math.IsNaN(s.Price) || math.IsInf(s.Price, 0) {
			t.Errorf("%s: price = %v, want finite positive", s.Symbol, s.Price)
		}
		// Prices stay at two decimals.
		if math.Abs(s.Price*100-math.Round(s.Price*100)) > 1e-6 {
			t.Errorf("%s: price %v not rounded to two decimals", s.Symbol, s.Price)
		}
	}
}

func TestEngine_Tick_SlidesHistory(t *testing.T) {
	e := New(seedStocks(), nil)
	before, _ := e.Get("TCS")

	e.Tick()

	after, _ := e.Get("TCS")
	if after.History[HistoryLength-1] != after.Price {
		t.Error("newest history entry must be the current price")
	}
	if after.History[0] != before.History[1] {
		t.Error("oldest history entry must slide out on tick")
	}
}

func TestEngine_Get_Unknown(t *testing.T) {
	e := New(seedStocks(), nil)
	if _, ok := e.Get("NOPE"); ok {
		t.Error("Get() = ok for unknown symbol")
	}
	if _, ok := e.Price("NOPE"); ok {
		t.Error("Price() = ok for unknown symbol")
	}
}

func TestEngine_Stocks_SnapshotIsolation(t *testing.T) {
	e := New(seedStocks(), nil)
	snap := e.Stocks()
	snap[0].History[0] = -1

	fresh, _ := e.Get(snap[0].Symbol)
	if fresh.History[0] == -1 {
		t.Error("mutating a snapshot must not leak into the engine")
	}
}

func TestStatusAt(t *testing.T) {
	tests := []struct {
		hour, minute int
		open         bool
	}{
		{9, 14, false},
		{9, 15, true},
		{12, 0, true},
		{15, 30, true},
		{15, 31, false},
		{20, 0, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		now := time.Date(2026, 8, 31, tt.hour, tt.minute, 0, 0, time.Local)
		got := StatusAt(now)
		if got.Open != tt.open {
			t.Errorf("StatusAt(%02d:%02d).Open = %v, want %v", tt.hour, tt.minute, got.Open, tt.open)
		}
		wantLabel := "Closed"
		if tt.open {
			wantLabel = "Live"
		}
		if got.Label != wantLabel {
			t.Errorf("StatusAt(%02d:%02d).Label = %q, want %q", tt.hour, tt.minute, got.Label, wantLabel)
		}
	}
}
