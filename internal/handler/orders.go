package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/enum"
	"github.com/box-tea/api/internal/middleware"
	"github.com/box-tea/api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Submit(ctx context.Context, req service.SubmitOrderRequest) (*database.Order, error)
}

// OrderStore defines the database methods needed by order read/update handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]database.Order, error)
	ListOrdersByUser(ctx context.Context, userEmail string) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	MarkOrderGiven(ctx context.Context, arg database.MarkOrderGivenParams) (database.Order, error)
}

// UserDirectory resolves user profiles for order enrichment on the
// staff dashboard. Satisfied by *database.Queries.
type UserDirectory interface {
	GetUserByEmail(ctx context.Context, email string) (database.UserProfile, error)
}

// OrderBroadcaster pushes order events to connected staff dashboards.
// Satisfied by *ws.Hub.
type OrderBroadcaster interface {
	Broadcast(eventType string, payload interface{})
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
	users UserDirectory
	hub   OrderBroadcaster
	now   func() time.Time
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore, users UserDirectory, hub OrderBroadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, store: store, users: users, hub: hub, now: time.Now}
}

// RegisterRoutes registers customer order endpoints on the given Chi
// router. Expected to be mounted inside the authenticated group.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders", h.Checkout)
	r.Get("/orders", h.ListOwn)
	r.Get("/orders/{id}", h.Get)
}

// RegisterStaffRoutes registers the fulfillment endpoints. Expected to
// be mounted inside a staff-only (admin/worker) group.
func (h *OrderHandler) RegisterStaffRoutes(r chi.Router) {
	r.Get("/orders", h.ListAll)
	r.Patch("/orders/{id}/given", h.MarkGiven)
}

// --- Request / Response types ---

type checkoutRequest struct {
	Purpose  string `json:"purpose"`
	Venue    string `json:"venue"`
	Customer string `json:"customer"`
}

type orderLineResponse struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	OrderDate string              `json:"order_date"`
	OrderTime string              `json:"order_time"`
	Purpose   string              `json:"purpose"`
	Venue     string              `json:"venue"`
	Customer  string              `json:"customer"`
	Status    string              `json:"status"`
	Lines     []orderLineResponse `json:"lines"`
	UserEmail string              `json:"user_email"`
	GivenTime *string             `json:"given_time"`
	CreatedAt time.Time           `json:"created_at"`
}

// staffOrderResponse extends orderResponse with the ordering user's
// department details for the fulfillment dashboard.
type staffOrderResponse struct {
	orderResponse
	DepartmentName *string `json:"department_name"`
	HodName        *string `json:"hod_name"`
	OperatorName   *string `json:"operator_name"`
	Phone          *string `json:"phone"`
}

// --- Handlers ---

// Checkout handles POST /orders. The server cart for the authenticated
// user becomes one Pending order and is emptied on success.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Purpose == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "purpose is required"})
		return
	}

	order, err := h.svc.Submit(r.Context(), service.SubmitOrderRequest{
		UserEmail: claims.Email,
		Purpose:   req.Purpose,
		Venue:     req.Venue,
		Customer:  req.Customer,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
			return
		}
		if errors.Is(err, service.ErrMissingIdentity) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user identity is required"})
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(*order)
	h.hub.Broadcast("order.created", resp)
	writeJSON(w, http.StatusCreated, resp)
}

// ListOwn handles GET /orders: the authenticated user's order history.
func (h *OrderHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orders, err := h.store.ListOrdersByUser(r.Context(), claims.Email)
	if err != nil {
		log.Printf("ERROR: list orders by user: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /orders/{id}. Customers only see their own orders;
// an order owned by someone else reads as not found.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if claims.Role == enum.RoleCustomer && order.UserEmail != claims.Email {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListAll handles GET /staff/orders: every order, enriched with the
// ordering user's department details.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// One profile lookup per distinct email; a failed lookup leaves the
	// department fields null rather than failing the whole listing.
	profiles := make(map[string]*database.UserProfile)
	for _, o := range orders {
		if _, seen := profiles[o.UserEmail]; seen {
			continue
		}
		u, err := h.users.GetUserByEmail(r.Context(), o.UserEmail)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				log.Printf("ERROR: get user for order enrichment: %v", err)
			}
			profiles[o.UserEmail] = nil
			continue
		}
		profiles[o.UserEmail] = &u
	}

	resp := make([]staffOrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toStaffOrderResponse(o, profiles[o.UserEmail])
	}
	writeJSON(w, http.StatusOK, resp)
}

// MarkGiven handles PATCH /staff/orders/{id}/given. The update only
// lands on an order with no fulfillment time yet; a second attempt, or
// two staff sessions racing, gets a conflict instead of overwriting.
func (h *OrderHandler) MarkGiven(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	updated, err := h.store.MarkOrderGiven(r.Context(), database.MarkOrderGivenParams{
		ID:        orderID,
		GivenTime: h.now().Format("15:04:05"),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No rows updated: the order is missing or already given.
			if _, fetchErr := h.store.GetOrder(r.Context(), orderID); fetchErr != nil {
				if errors.Is(fetchErr, pgx.ErrNoRows) {
					writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
					return
				}
				log.Printf("ERROR: get order for mark given: %v", fetchErr)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			writeJSON(w, http.StatusConflict, map[string]string{"error": "order already marked as given"})
			return
		}
		log.Printf("ERROR: mark order given: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := toOrderResponse(updated)
	h.hub.Broadcast("order.given", resp)
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// toOrderResponse flattens the stored parallel arrays into lines. A
// malformed row renders only its aligned prefix.
func toOrderResponse(o database.Order) orderResponse {
	n := len(o.Items)
	if len(o.Quantities) < n {
		n = len(o.Quantities)
	}
	lines := make([]orderLineResponse, n)
	for i := 0; i < n; i++ {
		lines[i] = orderLineResponse{
			Name:     o.Items[i].ID,
			Quantity: o.Quantities[i].Quantity,
		}
	}

	resp := orderResponse{
		ID:        o.ID,
		OrderDate: o.OrderDate.Format("2006-01-02"),
		OrderTime: o.OrderTime,
		Purpose:   o.Purpose,
		Venue:     o.Venue,
		Customer:  o.Customer,
		Status:    o.Status,
		Lines:     lines,
		UserEmail: o.UserEmail,
		CreatedAt: o.CreatedAt,
	}
	if o.GivenTime.Valid {
		resp.GivenTime = &o.GivenTime.String
	}
	return resp
}

func toStaffOrderResponse(o database.Order, u *database.UserProfile) staffOrderResponse {
	resp := staffOrderResponse{orderResponse: toOrderResponse(o)}
	if u == nil {
		return resp
	}
	if u.DepartmentName.Valid {
		resp.DepartmentName = &u.DepartmentName.String
	}
	if u.HodName.Valid {
		resp.HodName = &u.HodName.String
	}
	if u.OperatorName.Valid {
		resp.OperatorName = &u.OperatorName.String
	}
	if u.Phone.Valid {
		resp.Phone = &u.Phone.String
	}
	return resp
}
