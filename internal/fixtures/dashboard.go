// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixtures

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"audiobook-admin/internal/models"
)

// RecentOrder is a single-product order line on the dashboard.
type RecentOrder struct {
	ID          string
	Customer    string
	Product     string
	AmountCents int
	Status      string
	Date        string
}

// Amount renders the order amount.
func (o RecentOrder) Amount() string { return models.FormatCents(o.AmountCents) }

// TopProduct is a best-selling audiobook.
type TopProduct struct {
	Name         string
	Sales        int
	RevenueCents int
}

// Revenue renders the product revenue.
func (p TopProduct) Revenue() string { return formatDollars(p.RevenueCents) }

// Dashboard is everything the dashboard page shows.
type Dashboard struct {
	Stats        []Stat
	RecentOrders []RecentOrder
	TopProducts  []TopProduct
}

// DashboardData returns the dashboard figures.
func DashboardData() Dashboard {
	return Dashboard{
		Stats: []Stat{
			{Label: "Total Users", Value: humanize.Comma(2847), Change: "+12.5%", Icon: "👥"},
			{Label: "Total Orders", Value: humanize.Comma(1234), Change: "+8.2%", Icon: "📦"},
			{Label: "Revenue", Value: "$" + humanize.Comma(45678), Change: "+15.3%", Icon: "💰"},
			{Label: "Products", Value: humanize.Comma(156), Change: "+3.1%", Icon: "📚"},
		},
		RecentOrders: []RecentOrder{
			{ID: "ORD-001", Customer: "John Doe", Product: "The Great Gatsby", AmountCents: 1299, Status: "Completed", Date: "2024-01-15"},
			{ID: "ORD-002", Customer: "Jane Smith", Product: "1984", AmountCents: 1599, Status: "Processing", Date: "2024-01-14"},
			{ID: "ORD-003", Customer: "Bob Johnson", Product: "To Kill a Mockingbird", AmountCents: 1199, Status: "Shipped", Date: "2024-01-13"},
			{ID: "ORD-004", Customer: "Alice Brown", Product: "Pride and Prejudice", AmountCents: 1399, Status: "Completed", Date: "2024-01-12"},
			{ID: "ORD-005", Customer: "Charlie Wilson", Product: "The Catcher in the Rye", AmountCents: 1499, Status: "Pending", Date: "2024-01-11"},
		},
		TopProducts: []TopProduct{
			{Name: "The Great Gatsby", Sales: 234, RevenueCents: 304266},
			{Name: "1984", Sales: 189, RevenueCents: 302211},
			{Name: "To Kill a Mockingbird", Sales: 167, RevenueCents: 200233},
			{Name: "Pride and Prejudice", Sales: 145, RevenueCents: 202855},
			{Name: "The Catcher in the Rye", Sales: 123, RevenueCents: 184477},
		},
	}
}

// formatDollars renders cents with thousands separators: 304266 → "$3,042.66".
func formatDollars(cents int) string {
	return fmt.Sprintf("$%s.%02d", humanize.Comma(int64(cents/100)), cents%100)
}
