package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/box-tea/api/internal/report"
	"github.com/go-chi/chi/v5"
)

// ReportHandler serves the staff dashboard statistics.
type ReportHandler struct {
	store OrderStore
	now   func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store OrderStore) *ReportHandler {
	return &ReportHandler{store: store, now: time.Now}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted inside a staff-only (admin/worker) group.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/summary", h.Summary)
}

// Summary handles GET /staff/reports/summary. The whole order set is
// loaded and aggregated on every request; nothing is cached.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders for summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, report.Build(orders, h.now()))
}
