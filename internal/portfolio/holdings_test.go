package portfolio

import (
	"math"
	"testing"
)

func TestHoldings_Add_NewPosition(t *testing.T) {
	h := NewHoldings()
	h.Add("TCS", 10, 4000)

	pos, ok := h.Get("TCS")
	if !ok {
		t.Fatal("position not found after Add")
	}
	if pos.Quantity != 10 || pos.AvgPrice != 4000 {
		t.Errorf("position = %+v, want qty 10 avg 4000", pos)
	}
}

func TestHoldings_Add_WeightedAverage(t *testing.T) {
	h := NewHoldings()
	h.Add("TCS", 10, 4000)
	h.Add("TCS", 10, 3000)

	pos, _ := h.Get("TCS")
	if pos.Quantity != 20 {
		t.Errorf("quantity = %v, want 20", pos.Quantity)
	}
	if pos.AvgPrice != 3500 {
		t.Errorf("avg price = %v, want 3500", pos.AvgPrice)
	}
}

func TestHoldings_Add_IgnoresNonPositiveQuantity(t *testing.T) {
	h := NewHoldings()
	h.Add("TCS", 0, 4000)
	h.Add("TCS", -5, 4000)

	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestHoldings_Merge_OrderIndependent(t *testing.T) {
	a := NewHoldings()
	a.Add("INFY", 3, 1500)
	a.Add("INFY", 7, 1600)

	b := NewHoldings()
	b.Add("INFY", 7, 1600)
	b.Add("INFY", 3, 1500)

	pa, _ := a.Get("INFY")
	pb, _ := b.Get("INFY")
	if pa.Quantity != pb.Quantity {
		t.Errorf("quantities differ: %v vs %v", pa.Quantity, pb.Quantity)
	}
	if math.Abs(pa.AvgPrice-pb.AvgPrice) > 1e-9 {
		t.Errorf("avg prices differ beyond tolerance: %v vs %v", pa.AvgPrice, pb.AvgPrice)
	}
}

func TestHoldings_Value(t *testing.T) {
	h := NewHoldings()
	h.Add("TCS", 10, 4000)
	h.Add("INFY", 20, 1500)

	prices := map[string]float64{"TCS": 4200, "INFY": 1400}
	v := h.Value(func(symbol string) (float64, bool) {
		p, ok := prices[symbol]
		return p, ok
	})

	wantCurrent := 10*4200.0 + 20*1400.0
	wantInvested := 10*4000.0 + 20*1500.0
	if v.CurrentValue != wantCurrent {
		t.Errorf("CurrentValue = %v, want %v", v.CurrentValue, wantCurrent)
	}
	if v.InvestedValue != wantInvested {
		t.Errorf("InvestedValue = %v, want %v", v.InvestedValue, wantInvested)
	}
	if v.TotalReturns != wantCurrent-wantInvested {
		t.Errorf("TotalReturns = %v, want %v", v.TotalReturns, wantCurrent-wantInvested)
	}
}

func TestHoldings_Value_UnknownSymbolBreaksEven(t *testing.T) {
	h := NewHoldings()
	h.Add("UNLISTED", 5, 100)

	v := h.Value(func(string) (float64, bool) { return 0, false })
	if v.TotalReturns != 0 {
		t.Errorf("TotalReturns = %v, want 0 for unknown symbol", v.TotalReturns)
	}
	if v.CurrentValue != 500 {
		t.Errorf("CurrentValue = %v, want 500 (valued at cost)", v.CurrentValue)
	}
}
