package report_test

import (
	"testing"
	"time"

	"github.com/box-tea/api/internal/database"
	"github.com/box-tea/api/internal/report"
	"github.com/jackc/pgx/v5/pgtype"
)

var now = time.Date(2024, time.August, 15, 12, 0, 0, 0, time.UTC)

func order(date time.Time, purpose, venue, customer string, items []string, quantities []int32) database.Order {
	o := database.Order{
		OrderDate: date,
		OrderTime: "10:30:00",
		Purpose:   purpose,
		Venue:     venue,
		Customer:  customer,
		Status:    "Pending",
	}
	for _, id := range items {
		o.Items = append(o.Items, database.OrderItemRef{ID: id})
	}
	for _, q := range quantities {
		o.Quantities = append(o.Quantities, database.OrderQuantity{Quantity: q})
	}
	return o
}

func given(o database.Order, at string) database.Order {
	o.GivenTime = pgtype.Text{String: at, Valid: true}
	return o
}

func groupValue(t *testing.T, groups []report.GroupTotal, key string) int64 {
	t.Helper()
	for _, g := range groups {
		if g.Key == key {
			return g.Quantity
		}
	}
	t.Fatalf("group %q not found in %v", key, groups)
	return 0
}

func TestSalesByPurpose(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{2}),
		order(now, "Meeting", "Hall B", "Priya", []string{"Masala Chai"}, []int32{3}),
		order(now, "Training", "Hall A", "Ravi", []string{"Green Tea"}, []int32{1}),
	}

	s := report.Build(orders, now)

	if got := groupValue(t, s.SalesByPurpose, "Meeting"); got != 5 {
		t.Errorf("Meeting: got %d, want 5", got)
	}
	if got := groupValue(t, s.SalesByPurpose, "Training"); got != 1 {
		t.Errorf("Training: got %d, want 1", got)
	}
}

func TestSalesByVenue(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{2}),
		order(now, "Meeting", "Hall A", "Priya", []string{"Green Tea"}, []int32{4}),
		order(now, "Meeting", "Hall B", "Ravi", []string{"Masala Chai"}, []int32{1}),
	}

	s := report.Build(orders, now)

	if got := groupValue(t, s.SalesByVenue, "Hall A"); got != 6 {
		t.Errorf("Hall A: got %d, want 6", got)
	}
	if got := groupValue(t, s.SalesByVenue, "Hall B"); got != 1 {
		t.Errorf("Hall B: got %d, want 1", got)
	}
}

func TestOrdersTodayAndThisMonth(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		order(now.AddDate(0, 0, -1), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		order(time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
	}

	s := report.Build(orders, now)

	if s.OrdersToday != 1 {
		t.Errorf("orders today: got %d, want 1", s.OrdersToday)
	}
	if s.OrdersThisMonth != 2 {
		t.Errorf("orders this month: got %d, want 2", s.OrdersThisMonth)
	}
}

func TestTopSellingItemFirstSeenTieBreak(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Ravi", []string{"Green Tea"}, []int32{3}),
		order(now, "Meeting", "Hall A", "Priya", []string{"Masala Chai"}, []int32{3}),
	}

	s := report.Build(orders, now)

	// Both items total 3; the first seen wins.
	if s.TopSellingItem != "Green Tea" {
		t.Errorf("top item: got %q, want Green Tea", s.TopSellingItem)
	}
}

func TestFrequentCustomerFirstSeenTieBreak(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Priya", []string{"Masala Chai"}, []int32{1}),
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		order(now, "Meeting", "Hall A", "Priya", []string{"Masala Chai"}, []int32{1}),
	}

	s := report.Build(orders, now)

	if s.FrequentCustomer != "Priya" {
		t.Errorf("frequent customer: got %q, want Priya", s.FrequentCustomer)
	}
}

func TestEmptyOrdersYieldDefaults(t *testing.T) {
	s := report.Build(nil, now)

	if s.TopSellingItem != "N/A" {
		t.Errorf("top item: got %q, want N/A", s.TopSellingItem)
	}
	if s.FrequentCustomer != "N/A" {
		t.Errorf("frequent customer: got %q, want N/A", s.FrequentCustomer)
	}
	if s.TotalOrders != 0 || s.PendingOrders != 0 || s.DeliveredOrders != 0 {
		t.Errorf("counts: got %d/%d/%d, want 0/0/0", s.TotalOrders, s.PendingOrders, s.DeliveredOrders)
	}
}

func TestPartitionIsExhaustiveAndExclusive(t *testing.T) {
	orders := []database.Order{
		order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		given(order(now, "Meeting", "Hall A", "Priya", []string{"Green Tea"}, []int32{2}), "11:15:00"),
		order(now, "Training", "Hall B", "Anil", []string{"Masala Chai"}, []int32{1}),
	}

	pending, delivered := report.Partition(orders)
	if len(pending)+len(delivered) != len(orders) {
		t.Fatalf("partition lost orders: %d + %d != %d", len(pending), len(delivered), len(orders))
	}
	for _, o := range pending {
		if o.GivenTime.Valid && o.GivenTime.String != "" {
			t.Errorf("delivered order in pending bucket")
		}
	}
	for _, o := range delivered {
		if !o.GivenTime.Valid || o.GivenTime.String == "" {
			t.Errorf("pending order in delivered bucket")
		}
	}

	s := report.Build(orders, now)
	if s.PendingOrders+s.DeliveredOrders != s.TotalOrders {
		t.Errorf("counts: %d + %d != %d", s.PendingOrders, s.DeliveredOrders, s.TotalOrders)
	}
	if s.PendingOrders != 2 || s.DeliveredOrders != 1 {
		t.Errorf("counts: got %d/%d, want 2/1", s.PendingOrders, s.DeliveredOrders)
	}
}

func TestMonthlySalesWindow(t *testing.T) {
	orders := []database.Order{
		order(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{4}),
		order(time.Date(2024, time.July, 5, 0, 0, 0, 0, time.UTC), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{2}),
		order(time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{1}),
		// Outside the two-month window: ignored.
		order(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{9}),
	}

	s := report.Build(orders, now)

	if len(s.MonthlySales) != 3 {
		t.Fatalf("months: got %d, want 3 (%v)", len(s.MonthlySales), s.MonthlySales)
	}
	if got := groupValue(t, s.MonthlySales, "2024-06"); got != 4 {
		t.Errorf("2024-06: got %d, want 4", got)
	}
	if got := groupValue(t, s.MonthlySales, "2024-07"); got != 2 {
		t.Errorf("2024-07: got %d, want 2", got)
	}
	if got := groupValue(t, s.MonthlySales, "2024-08"); got != 1 {
		t.Errorf("2024-08: got %d, want 1", got)
	}
}

func TestMismatchedParallelArraysUseAlignedPrefix(t *testing.T) {
	o := order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai", "Green Tea"}, []int32{2})

	s := report.Build([]database.Order{o}, now)

	if got := groupValue(t, s.TopItems, "Masala Chai"); got != 2 {
		t.Errorf("Masala Chai: got %d, want 2", got)
	}
	for _, g := range s.TopItems {
		if g.Key == "Green Tea" {
			t.Errorf("unaligned item counted: %v", g)
		}
	}
}

func TestBuildIsOrderIndependentExceptTieBreaks(t *testing.T) {
	a := order(now, "Meeting", "Hall A", "Ravi", []string{"Masala Chai"}, []int32{5})
	b := order(now, "Training", "Hall B", "Priya", []string{"Green Tea"}, []int32{2})

	s1 := report.Build([]database.Order{a, b}, now)
	s2 := report.Build([]database.Order{b, a}, now)

	if groupValue(t, s1.SalesByPurpose, "Meeting") != groupValue(t, s2.SalesByPurpose, "Meeting") {
		t.Errorf("Meeting total differs by input order")
	}
	if s1.TopSellingItem != s2.TopSellingItem {
		t.Errorf("top item differs despite no tie: %q vs %q", s1.TopSellingItem, s2.TopSellingItem)
	}
	if s1.TotalOrders != s2.TotalOrders || s1.PendingOrders != s2.PendingOrders {
		t.Errorf("counts differ by input order")
	}
}
