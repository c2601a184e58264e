package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	apperrors "luminapay/internal/errors"
	"luminapay/internal/market"
	"luminapay/internal/portfolio"
)

// maxImportSize caps uploaded spreadsheets at 5 MB.
const maxImportSize = 5 << 20

// PortfolioHandler serves holdings, valuation and spreadsheet import.
type PortfolioHandler struct {
	holdings *portfolio.Holdings
	market   *market.Engine
	logger   *zap.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(holdings *portfolio.Holdings, engine *market.Engine, logger *zap.Logger) *PortfolioHandler {
	return &PortfolioHandler{holdings: holdings, market: engine, logger: ensureLogger(logger)}
}

// Get returns the positions and their valuation at current prices.
// GET /portfolio
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"holdings":  h.holdings.List(),
		"valuation": h.holdings.Value(h.market.Price),
	})
}

// Import merges an uploaded spreadsheet into the holdings. The file
// field must carry a .xlsx or .csv document.
// POST /portfolio/import
func (h *PortfolioHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, apperrors.Validation("a spreadsheet file is required"))
		return
	}
	defer file.Close()

	var rows [][]string
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
		rows, err = portfolio.ReadXLSX(file)
	case ".csv":
		rows, err = portfolio.ReadCSV(file)
	default:
		respondError(w, h.logger, apperrors.New(apperrors.ErrInvalidFormat,
			"only .xlsx and .csv files are supported"))
		return
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.holdings.Import(rows)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("portfolio imported",
		zap.String("file", header.Filename),
		zap.Int("rows", result.Imported))
	respondJSON(w, http.StatusOK, map[string]any{
		"imported":  result.Imported,
		"holdings":  h.holdings.List(),
		"valuation": h.holdings.Value(h.market.Price),
	})
}
