package portfolio

import (
	"errors"
	"strings"
	"testing"

	apperrors "luminapay/internal/errors"
)

func TestParseRows_BasicImport(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Avg Price"},
		{"TCS", "10", "4000"},
		{"INFY", "20", "1500"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(result.Holdings) != 2 {
		t.Errorf("holdings = %d, want 2", len(result.Holdings))
	}
}

func TestParseRows_HeaderSynonyms(t *testing.T) {
	rows := [][]string{
		{"Ticker", "Units Held", "Buy Rate"},
		{"RELIANCE", "4", "2456.50"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
}

func TestParseRows_HeaderNotFirstRow(t *testing.T) {
	rows := [][]string{
		{"My Portfolio Export"},
		{},
		{"Stock", "Quantity", "Avg Price"},
		{"TCS", "10", "4000"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
}

func TestParseRows_MissingColumn(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty"}, // no price column
		{"TCS", "10"},
	}

	_, err := ParseRows(rows)
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseRows_NoHeader(t *testing.T) {
	rows := [][]string{
		{"TCS", "10", "4000"},
	}

	// "TCS" does not match a symbol synonym, so no header exists.
	_, err := ParseRows(rows)
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseRows_SkipsBadRows(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Price"},
		{"TCS", "10", "4000"},
		{"", "5", "100"},          // empty symbol
		{"INFY", "abc", "1500"},   // bad quantity
		{"WIPRO", "5"},            // short row
		{"HDFCBANK", "2", "1650"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2 (bad rows skipped)", result.Imported)
	}
}

func TestParseRows_NonPositiveQuantityNotCounted(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Price"},
		{"TCS", "10", "4000"},
		{"INFY", "-5", "1500"},
		{"WIPRO", "0", "400"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	// Only the merged row counts; non-positive quantities never merge.
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if len(result.Holdings) != 1 || result.Holdings[0].Symbol != "TCS" {
		t.Errorf("holdings = %+v, want TCS only", result.Holdings)
	}
}

func TestParseRows_NoValidData(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Price"},
		{"", "10", "4000"},
		{"TCS", "x", "y"},
	}

	_, err := ParseRows(rows)
	if !errors.Is(err, apperrors.ErrNoValidData) {
		t.Errorf("error = %v, want ErrNoValidData", err)
	}
}

func TestParseRows_CoalescesDuplicateSymbols(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Price"},
		{"TCS", "10", "4000"},
		{"tcs", "10", "3000"},
	}

	result, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	// Both rows count as imported, but coalesce to one position.
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(result.Holdings) != 1 {
		t.Fatalf("holdings = %d, want 1", len(result.Holdings))
	}
	pos := result.Holdings[0]
	if pos.Symbol != "TCS" || pos.Quantity != 20 || pos.AvgPrice != 3500 {
		t.Errorf("coalesced position = %+v, want TCS/20/3500", pos)
	}
}

func TestImport_TwiceDoublesQuantityKeepsAverage(t *testing.T) {
	rows := [][]string{
		{"Symbol", "Qty", "Avg Price"},
		{"TCS", "10", "4000"},
	}

	h := NewHoldings()
	if _, err := h.Import(rows); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := h.Import(rows); err != nil {
		t.Fatalf("second import: %v", err)
	}

	pos, _ := h.Get("TCS")
	if pos.Quantity != 20 {
		t.Errorf("quantity = %v, want 20 after double import", pos.Quantity)
	}
	if pos.AvgPrice != 4000 {
		t.Errorf("avg price = %v, want unchanged 4000", pos.AvgPrice)
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	csv := "Symbol,Qty,Price\nTCS,10,4000\nshort,row\n"
	rows, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, want 3", len(rows))
	}
}

func TestReadXLSX_InvalidFile(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("this is not a zip archive"))
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Errorf("error = %v, want ErrInvalidFormat", err)
	}
}
