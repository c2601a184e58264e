package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"luminapay/internal/catalog"
	apperrors "luminapay/internal/errors"
	"luminapay/internal/flow"
	"luminapay/internal/models"
)

// CatalogHandler serves contacts and billers, and starts a bill payment.
type CatalogHandler struct {
	catalog *catalog.Catalog
	engine  *flow.Engine
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog, engine *flow.Engine, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, engine: engine, logger: ensureLogger(logger)}
}

// Contacts returns the contact directory, filtered by the optional
// query.
// GET /contacts?q=...
func (h *CatalogHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	h.engine.SetSearch(query)
	respondJSON(w, http.StatusOK, h.catalog.SearchContacts(query))
}

// BillerCategories returns the distinct biller categories.
// GET /billers/categories
func (h *CatalogHandler) BillerCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.BillerCategories())
}

// Billers returns the billers in one category.
// GET /billers?category=...
func (h *CatalogHandler) Billers(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		respondError(w, h.logger, apperrors.ValidationField("category", "category is required"))
		return
	}
	respondJSON(w, http.StatusOK, h.catalog.BillersByCategory(category))
}

// PayBiller starts a payment flow toward a biller. The consumer
// account value becomes the note so it shows up on the receipt.
// POST /billers/{id}/pay
func (h *CatalogHandler) PayBiller(w http.ResponseWriter, r *http.Request) {
	biller, ok := h.catalog.FindBiller(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, h.logger, apperrors.NotFound("biller"))
		return
	}

	var req struct {
		Account string `json:"account"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if req.Account == "" {
		respondError(w, h.logger, apperrors.ValidationField("account", biller.InputLabel+" is required"))
		return
	}

	snap, err := h.engine.Initiate(flow.Initiation{
		Kind:      flow.KindPayment,
		Recipient: biller.Name,
		Note:      biller.InputLabel + ": " + req.Account,
		Category:  models.CategoryGeneral,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}
