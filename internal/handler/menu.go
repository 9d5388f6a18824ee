package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/box-tea/api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]database.MenuItem, error)
	GetMenuItem(ctx context.Context, id int32) (database.MenuItem, error)
}

// MenuHandler handles menu endpoints.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.List)
}

type menuItemResponse struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	Image       *string `json:"image"`
}

// List handles GET /menu. The menu is public: browsing needs no account.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListMenuItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = toMenuItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

func toMenuItemResponse(item database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:    item.ID,
		Name:  item.Name,
		Price: numericToString(item.Price),
	}
	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	if item.Image.Valid {
		resp.Image = &item.Image.String
	}
	return resp
}

func numericToString(n pgtype.Numeric) string {
	d, err := numericToDecimal(n)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func numericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val.(string))
}
