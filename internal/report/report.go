// Package report derives dashboard statistics from the full order set.
// Everything is recomputed from scratch on each call; there is no
// incremental state, and results are deterministic for a given input
// (ties on top item / frequent customer break to the first seen).
package report

import (
	"fmt"
	"time"

	"github.com/box-tea/api/internal/database"
)

// GroupTotal is one bucket of a grouped statistic.
type GroupTotal struct {
	Key      string `json:"key"`
	Quantity int64  `json:"quantity"`
}

// Summary is the dashboard payload.
type Summary struct {
	OrdersToday      int          `json:"orders_today"`
	OrdersThisMonth  int          `json:"orders_this_month"`
	TopSellingItem   string       `json:"top_selling_item"`
	FrequentCustomer string       `json:"frequent_customer"`
	MonthlySales     []GroupTotal `json:"monthly_sales"`
	TopItems         []GroupTotal `json:"top_items"`
	SalesByPurpose   []GroupTotal `json:"sales_by_purpose"`
	SalesByVenue     []GroupTotal `json:"sales_by_venue"`
	TotalOrders      int          `json:"total_orders"`
	PendingOrders    int          `json:"pending_orders"`
	DeliveredOrders  int          `json:"delivered_orders"`
}

// counter accumulates totals while remembering first-seen key order.
type counter struct {
	keys   []string
	totals map[string]int64
}

func newCounter() *counter {
	return &counter{totals: make(map[string]int64)}
}

func (c *counter) add(key string, n int64) {
	if _, ok := c.totals[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.totals[key] += n
}

func (c *counter) groups() []GroupTotal {
	out := make([]GroupTotal, len(c.keys))
	for i, k := range c.keys {
		out[i] = GroupTotal{Key: k, Quantity: c.totals[k]}
	}
	return out
}

// max returns the key with the largest total. First-seen wins ties.
func (c *counter) max() string {
	best := "N/A"
	var bestTotal int64
	for _, k := range c.keys {
		if c.totals[k] > bestTotal {
			bestTotal = c.totals[k]
			best = k
		}
	}
	return best
}

// Build computes the summary over orders relative to now (local time).
func Build(orders []database.Order, now time.Time) Summary {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	twoMonthsAgo := time.Date(now.Year(), now.Month()-2, 1, 0, 0, 0, 0, now.Location())

	monthly := newCounter()
	items := newCounter()
	byPurpose := newCounter()
	byVenue := newCounter()
	customers := newCounter()

	s := Summary{TotalOrders: len(orders)}

	for _, o := range orders {
		qty := totalQuantity(o)

		if !o.OrderDate.Before(today) {
			s.OrdersToday++
		}
		if !o.OrderDate.Before(firstOfMonth) {
			s.OrdersThisMonth++
		}
		if !o.OrderDate.Before(twoMonthsAgo) {
			monthly.add(fmt.Sprintf("%04d-%02d", o.OrderDate.Year(), int(o.OrderDate.Month())), qty)
		}

		// Parallel arrays have no enforced length invariant; a malformed
		// row contributes only its aligned prefix.
		n := len(o.Items)
		if len(o.Quantities) < n {
			n = len(o.Quantities)
		}
		for i := 0; i < n; i++ {
			items.add(o.Items[i].ID, int64(o.Quantities[i].Quantity))
		}

		byPurpose.add(o.Purpose, qty)
		byVenue.add(o.Venue, qty)
		customers.add(o.Customer, 1)

		if isDelivered(o) {
			s.DeliveredOrders++
		} else {
			s.PendingOrders++
		}
	}

	s.TopSellingItem = items.max()
	s.FrequentCustomer = customers.max()
	s.MonthlySales = monthly.groups()
	s.TopItems = items.groups()
	s.SalesByPurpose = byPurpose.groups()
	s.SalesByVenue = byVenue.groups()
	return s
}

// Partition splits orders into pending and delivered by presence of a
// fulfillment timestamp. Every order lands in exactly one bucket.
func Partition(orders []database.Order) (pending, delivered []database.Order) {
	for _, o := range orders {
		if isDelivered(o) {
			delivered = append(delivered, o)
		} else {
			pending = append(pending, o)
		}
	}
	return pending, delivered
}

func isDelivered(o database.Order) bool {
	return o.GivenTime.Valid && o.GivenTime.String != ""
}

func totalQuantity(o database.Order) int64 {
	var sum int64
	for _, q := range o.Quantities {
		sum += int64(q.Quantity)
	}
	return sum
}
