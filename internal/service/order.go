package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/box-tea/api/internal/cart"
	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/enum"
)

// Errors returned by the order service.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingIdentity = errors.New("user identity is required")
)

// OrderStore defines the DB methods needed to submit orders.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// SubmitOrderRequest is the checkout input. Purpose, venue and customer
// are user-entered metadata and stored as given.
type SubmitOrderRequest struct {
	UserEmail string
	Purpose   string
	Venue     string
	Customer  string
}

// OrderService composes the cart with checkout metadata into one
// persisted order.
type OrderService struct {
	store OrderStore
	carts *cart.Store
	now   func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(store OrderStore, carts *cart.Store) *OrderService {
	return &OrderService{store: store, carts: carts, now: time.Now}
}

// Submit creates one Pending order from the user's current cart and
// clears the cart on success. The items and quantities arrays are built
// index-aligned from the cart entries. There is no idempotency key:
// submitting twice with a re-filled cart creates two orders.
func (s *OrderService) Submit(ctx context.Context, req SubmitOrderRequest) (*database.Order, error) {
	if req.UserEmail == "" {
		return nil, ErrMissingIdentity
	}

	entries := s.carts.Entries(req.UserEmail)
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]database.OrderItemRef, len(entries))
	quantities := make([]database.OrderQuantity, len(entries))
	for i, e := range entries {
		items[i] = database.OrderItemRef{ID: e.Item.Name}
		quantities[i] = database.OrderQuantity{Quantity: e.Quantity}
	}

	now := s.now()
	order, err := s.store.CreateOrder(ctx, database.CreateOrderParams{
		OrderDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		OrderTime:  now.Format("15:04:05"),
		Purpose:    req.Purpose,
		Venue:      req.Venue,
		Customer:   req.Customer,
		Status:     enum.OrderStatusPending,
		Items:      items,
		Quantities: quantities,
		UserEmail:  req.UserEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The cart survives a failed insert so the user can retry.
	s.carts.Clear(req.UserEmail)

	return &order, nil
}
