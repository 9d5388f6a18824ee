package enum

// ── Order lifecycle ──
// An order starts as Pending and is considered delivered once staff
// record a given_time. There is no separate "Delivered" status column;
// the partition is derived from given_time.

const (
	OrderStatusPending = "Pending"
)

// ── User roles (users_data.user_type) ──

const (
	RoleAdmin    = "admin"
	RoleWorker   = "worker"
	RoleCustomer = "customer"
)
