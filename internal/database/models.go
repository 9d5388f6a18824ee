package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuItem is a row in menuitems. Read-only from the application's
// perspective; rows are loaded by cmd/seed.
type MenuItem struct {
	ID          int32
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	Image       pgtype.Text
}

// OrderItemRef is one element of the orders.items jsonb array. The ID
// carries the menu item name, mirroring the stored row shape.
type OrderItemRef struct {
	ID string `json:"id"`
}

// OrderQuantity is one element of the orders.quantities jsonb array,
// parallel to items by index.
type OrderQuantity struct {
	Quantity int32 `json:"quantity"`
}

// Order is a row in orders. Items and Quantities are parallel arrays;
// the store writes them index-aligned but the schema does not enforce
// equal lengths, so readers tolerate mismatched rows.
type Order struct {
	ID         uuid.UUID
	OrderDate  time.Time
	OrderTime  string
	Purpose    string
	Venue      string
	Customer   string
	Status     string
	Items      []OrderItemRef
	Quantities []OrderQuantity
	UserEmail  string
	GivenTime  pgtype.Text
	CreatedAt  time.Time
}

// UserProfile is a row in users_data, keyed by email for lookups.
type UserProfile struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	Role           string
	DepartmentName pgtype.Text
	HodName        pgtype.Text
	OperatorName   pgtype.Text
	Phone          pgtype.Text
	CreatedAt      time.Time
}
