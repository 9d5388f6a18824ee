package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listMenuItems = `
SELECT id, name, description, price, image
FROM menuitems
ORDER BY id
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		var i MenuItem
		if err := rows.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.Image); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getMenuItem = `
SELECT id, name, description, price, image
FROM menuitems
WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id int32) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, id)
	var i MenuItem
	err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Price, &i.Image)
	return i, err
}

type CreateOrderParams struct {
	OrderDate  time.Time
	OrderTime  string
	Purpose    string
	Venue      string
	Customer   string
	Status     string
	Items      []OrderItemRef
	Quantities []OrderQuantity
	UserEmail  string
}

const createOrder = `
INSERT INTO orders (order_date, order_time, purpose, venue, customer, status, items, quantities, user_email)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, order_date, order_time, purpose, venue, customer, status, items, quantities, user_email, given_time, created_at
`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderDate,
		arg.OrderTime,
		arg.Purpose,
		arg.Venue,
		arg.Customer,
		arg.Status,
		arg.Items,
		arg.Quantities,
		arg.UserEmail,
	)
	return scanOrder(row)
}

const listOrders = `
SELECT id, order_date, order_time, purpose, venue, customer, status, items, quantities, user_email, given_time, created_at
FROM orders
ORDER BY created_at
`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const listOrdersByUser = `
SELECT id, order_date, order_time, purpose, venue, customer, status, items, quantities, user_email, given_time, created_at
FROM orders
WHERE user_email = $1
ORDER BY created_at
`

func (q *Queries) ListOrdersByUser(ctx context.Context, userEmail string) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByUser, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const getOrder = `
SELECT id, order_date, order_time, purpose, venue, customer, status, items, quantities, user_email, given_time, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	return scanOrder(row)
}

type MarkOrderGivenParams struct {
	ID        uuid.UUID
	GivenTime string
}

// markOrderGiven only updates when no given_time is set yet, so two staff
// sessions racing on the same order cannot silently overwrite each other;
// the loser sees no rows.
const markOrderGiven = `
UPDATE orders
SET given_time = $2
WHERE id = $1 AND given_time IS NULL
RETURNING id, order_date, order_time, purpose, venue, customer, status, items, quantities, user_email, given_time, created_at
`

func (q *Queries) MarkOrderGiven(ctx context.Context, arg MarkOrderGivenParams) (Order, error) {
	row := q.db.QueryRow(ctx, markOrderGiven, arg.ID, arg.GivenTime)
	return scanOrder(row)
}

const getUserByEmail = `
SELECT id, users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone, created_at
FROM users_data
WHERE users_email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (UserProfile, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	return scanUserProfile(row)
}

const getUserByID = `
SELECT id, users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone, created_at
FROM users_data
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (UserProfile, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	return scanUserProfile(row)
}

type CreateUserParams struct {
	Email          string
	HashedPassword string
	Role           string
	DepartmentName pgtype.Text
	HodName        pgtype.Text
	OperatorName   pgtype.Text
	Phone          pgtype.Text
}

const createUser = `
INSERT INTO users_data (users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone, created_at
`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (UserProfile, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email,
		arg.HashedPassword,
		arg.Role,
		arg.DepartmentName,
		arg.HodName,
		arg.OperatorName,
		arg.Phone,
	)
	return scanUserProfile(row)
}

const listUsers = `
SELECT id, users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone, created_at
FROM users_data
ORDER BY users_email
`

func (q *Queries) ListUsers(ctx context.Context) ([]UserProfile, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []UserProfile
	for rows.Next() {
		u, err := scanUserProfile(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type UpdateUserRoleParams struct {
	Email string
	Role  string
}

const updateUserRole = `
UPDATE users_data
SET user_type = $2
WHERE users_email = $1
RETURNING id, users_email, hashed_password, user_type, department_name, hod_name, operator_name, phone, created_at
`

func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (UserProfile, error) {
	row := q.db.QueryRow(ctx, updateUserRole, arg.Email, arg.Role)
	return scanUserProfile(row)
}

// --- Scan helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderDate,
		&o.OrderTime,
		&o.Purpose,
		&o.Venue,
		&o.Customer,
		&o.Status,
		&o.Items,
		&o.Quantities,
		&o.UserEmail,
		&o.GivenTime,
		&o.CreatedAt,
	)
	return o, err
}

func scanUserProfile(row rowScanner) (UserProfile, error) {
	var u UserProfile
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&u.Role,
		&u.DepartmentName,
		&u.HodName,
		&u.OperatorName,
		&u.Phone,
		&u.CreatedAt,
	)
	return u, err
}
