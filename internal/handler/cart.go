package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/box-tea/api/internal/cart"
	"github.com/box-tea/api/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// CartHandler handles the per-user cart endpoints. Prices are resolved
// from the menu at add time and snapshotted into the cart entry.
type CartHandler struct {
	carts *cart.Store
	menu  MenuStore
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *cart.Store, menu MenuStore) *CartHandler {
	return &CartHandler{carts: carts, menu: menu}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted inside the authenticated group.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Get)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{id}", h.SetQuantity)
	r.Delete("/cart/items/{id}", h.RemoveItem)
}

// --- Request / Response types ---

type addCartItemRequest struct {
	ID int32 `json:"id"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartEntryResponse struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity int32  `json:"quantity"`
}

type cartResponse struct {
	Items []cartEntryResponse `json:"items"`
	Total string              `json:"total"`
}

// --- Handlers ---

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.Email))
}

// AddItem handles POST /cart/items. Adding an item already in the cart
// bumps its quantity instead of creating a second line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, ok := h.resolveMenuItem(w, r, req.ID)
	if !ok {
		return
	}

	h.carts.Add(claims.Email, item)
	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.Email))
}

// SetQuantity handles PUT /cart/items/{id}. Quantity zero removes the
// line; a negative quantity is rejected.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	itemID, err := parseMenuItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, ok := h.resolveMenuItem(w, r, itemID)
	if !ok {
		return
	}

	if err := h.carts.SetQuantity(claims.Email, item, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrNegativeQuantity) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be >= 0"})
			return
		}
		log.Printf("ERROR: set cart quantity: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.Email))
}

// RemoveItem handles DELETE /cart/items/{id}. The line goes away no
// matter its quantity.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	itemID, err := parseMenuItemID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	h.carts.Remove(claims.Email, itemID)
	writeJSON(w, http.StatusOK, h.cartResponseFor(claims.Email))
}

// --- Helpers ---

func (h *CartHandler) resolveMenuItem(w http.ResponseWriter, r *http.Request, id int32) (cart.Item, bool) {
	row, err := h.menu.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return cart.Item{}, false
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return cart.Item{}, false
	}

	price, err := numericToDecimal(row.Price)
	if err != nil {
		log.Printf("ERROR: parse menu item price: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return cart.Item{}, false
	}

	return cart.Item{ID: row.ID, Name: row.Name, Price: price}, true
}

func (h *CartHandler) cartResponseFor(email string) cartResponse {
	entries := h.carts.Entries(email)
	resp := cartResponse{
		Items: make([]cartEntryResponse, len(entries)),
		Total: h.carts.Total(email).StringFixed(2),
	}
	for i, e := range entries {
		resp.Items[i] = cartEntryResponse{
			ID:       e.Item.ID,
			Name:     e.Item.Name,
			Price:    e.Item.Price.StringFixed(2),
			Quantity: e.Quantity,
		}
	}
	return resp
}

func parseMenuItemID(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}
