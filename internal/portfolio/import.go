package portfolio

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/models"
)

// Column synonyms accepted in the header row. Matching is
// case-insensitive and by substring, so "Avg Price" maps to price and
// "Qty Held" to quantity.
var (
	symbolHeaders   = []string{"symbol", "stock", "ticker"}
	quantityHeaders = []string{"quantity", "qty", "units"}
	priceHeaders    = []string{"price", "avg", "buy"}
)

// ImportResult reports the outcome of a spreadsheet import.
type ImportResult struct {
	Imported int                   `json:"imported"`
	Holdings []models.StockHolding `json:"holdings"`
}

// ParseRows runs the two-phase import over raw tabular rows.
//
// Phase one scans for the header row (any cell matching a symbol
// synonym) and maps the symbol, quantity and price columns. If no
// header is found or any required column is missing, the whole import
// fails with ErrInvalidFormat; no partial mapping is accepted.
//
// Phase two decodes every subsequent row: a candidate is accepted only
// if the symbol cell is non-empty, both numbers parse finite and the
// quantity is positive, so the count reflects rows that merged. Rows
// failing this are skipped without individual reporting. Accepted rows
// are coalesced among themselves by symbol using the weighted-average
// rule, so the returned batch has one entry per symbol.
//
// Zero accepted rows is ErrNoValidData, distinct from a structurally
// invalid file.
func ParseRows(rows [][]string) (*ImportResult, error) {
	headerIndex := -1
	var symbolCol, quantityCol, priceCol = -1, -1, -1

	for i, row := range rows {
		if !rowHasAny(row, symbolHeaders) {
			continue
		}
		headerIndex = i
		for idx, cell := range row {
			cell = strings.ToLower(strings.TrimSpace(cell))
			switch {
			case containsAny(cell, symbolHeaders):
				symbolCol = idx
			case containsAny(cell, quantityHeaders):
				quantityCol = idx
			case containsAny(cell, priceHeaders):
				priceCol = idx
			}
		}
		break
	}

	if headerIndex == -1 || symbolCol == -1 || quantityCol == -1 || priceCol == -1 {
		return nil, apperrors.New(apperrors.ErrInvalidFormat,
			"columns Symbol, Qty and Avg Price are required")
	}

	imported := 0
	batch := NewHoldings()
	for _, row := range rows[headerIndex+1:] {
		symbol, ok1 := cellAt(row, symbolCol)
		qtyCell, ok2 := cellAt(row, quantityCol)
		priceCell, ok3 := cellAt(row, priceCol)
		if !ok1 || !ok2 || !ok3 || symbol == "" {
			continue
		}

		quantity, err1 := strconv.ParseFloat(qtyCell, 64)
		price, err2 := strconv.ParseFloat(priceCell, 64)
		if err1 != nil || err2 != nil || !isFinite(quantity) || !isFinite(price) || quantity <= 0 {
			continue
		}

		batch.Add(strings.ToUpper(symbol), quantity, price)
		imported++
	}

	if imported == 0 {
		return nil, apperrors.New(apperrors.ErrNoValidData,
			"no valid stock data found in the file")
	}

	return &ImportResult{Imported: imported, Holdings: batch.List()}, nil
}

// Import parses rows and merges the result into the holdings set.
// Importing the same file twice doubles quantities and leaves average
// prices unchanged.
func (h *Holdings) Import(rows [][]string) (*ImportResult, error) {
	result, err := ParseRows(rows)
	if err != nil {
		return nil, err
	}
	h.MergeAll(result.Holdings)
	return result, nil
}

// ReadXLSX extracts the rows of the first sheet of an Excel workbook.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFormat, "not a valid .xlsx file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidFormat, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFormat, "reading sheet", err)
	}
	return rows, nil
}

// ReadCSV extracts rows from a CSV stream. Ragged rows are allowed;
// the row contract handles short rows.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidFormat, "not a valid CSV file", err)
	}
	return rows, nil
}

func rowHasAny(row []string, synonyms []string) bool {
	for _, cell := range row {
		if containsAny(strings.ToLower(strings.TrimSpace(cell)), synonyms) {
			return true
		}
	}
	return false
}

func containsAny(cell string, synonyms []string) bool {
	if cell == "" {
		return false
	}
	for _, s := range synonyms {
		if strings.Contains(cell, s) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) (string, bool) {
	if idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
