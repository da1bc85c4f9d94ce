// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixtures

import (
	"strconv"

	"audiobook-admin/internal/models"
)

// Customer is a non-admin account with purchase history.
type Customer struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	JoinDate        string
	LastActive      string
	TotalOrders     int
	TotalSpentCents int
	Status          string
	Location        string
	FavoriteGenre   string
}

// TotalSpent renders the lifetime spend.
func (c Customer) TotalSpent() string { return models.FormatCents(c.TotalSpentCents) }

// Avatar returns the customer's initials.
func (c Customer) Avatar() string { return Initials(c.Name) }

var customers = []Customer{
	{ID: "CUST-001", Name: "John Doe", Email: "john.doe@email.com", Phone: "+1 (555) 123-4567", JoinDate: "2023-12-15", LastActive: "2024-01-15", TotalOrders: 5, TotalSpentCents: 8945, Status: "Active", Location: "New York, NY", FavoriteGenre: "Classic Literature"},
	{ID: "CUST-002", Name: "Jane Smith", Email: "jane.smith@email.com", Phone: "+1 (555) 234-5678", JoinDate: "2023-11-20", LastActive: "2024-01-14", TotalOrders: 3, TotalSpentCents: 4599, Status: "Active", Location: "Los Angeles, CA", FavoriteGenre: "Dystopian Fiction"},
	{ID: "CUST-003", Name: "Bob Johnson", Email: "bob.johnson@email.com", Phone: "+1 (555) 345-6789", JoinDate: "2023-10-10", LastActive: "2024-01-13", TotalOrders: 7, TotalSpentCents: 15678, Status: "Active", Location: "Chicago, IL", FavoriteGenre: "Romance"},
	{ID: "CUST-004", Name: "Alice Brown", Email: "alice.brown@email.com", Phone: "+1 (555) 456-7890", JoinDate: "2023-09-05", LastActive: "2024-01-12", TotalOrders: 2, TotalSpentCents: 2998, Status: "Active", Location: "Miami, FL", FavoriteGenre: "Fantasy"},
	{ID: "CUST-005", Name: "Charlie Wilson", Email: "charlie.wilson@email.com", Phone: "+1 (555) 567-8901", JoinDate: "2023-08-15", LastActive: "2024-01-11", TotalOrders: 4, TotalSpentCents: 6745, Status: "Active", Location: "Seattle, WA", FavoriteGenre: "Coming of Age"},
	{ID: "CUST-006", Name: "Diana Prince", Email: "diana.prince@email.com", Phone: "+1 (555) 678-9012", JoinDate: "2023-07-20", LastActive: "2023-12-20", TotalOrders: 1, TotalSpentCents: 1399, Status: "Inactive", Location: "Boston, MA", FavoriteGenre: "Classic Literature"},
	{ID: "CUST-007", Name: "Eva Martinez", Email: "eva.martinez@email.com", Phone: "+1 (555) 789-0123", JoinDate: "2023-06-10", LastActive: "2024-01-10", TotalOrders: 6, TotalSpentCents: 9834, Status: "Active", Location: "Austin, TX", FavoriteGenre: "Dystopian Fiction"},
	{ID: "CUST-008", Name: "Frank Thompson", Email: "frank.thompson@email.com", Phone: "+1 (555) 890-1234", JoinDate: "2023-05-25", LastActive: "2023-11-15", TotalOrders: 2, TotalSpentCents: 3198, Status: "Inactive", Location: "Denver, CO", FavoriteGenre: "Fantasy"},
}

// Customers returns a copy of every customer.
func Customers() []Customer {
	out := make([]Customer, len(customers))
	copy(out, customers)
	return out
}

// SearchCustomers matches id, name, email, location and favorite genre.
func SearchCustomers(q string) []Customer {
	return Search(customers, q, func(c Customer) []string {
		return []string{c.ID, c.Name, c.Email, c.Location, c.FavoriteGenre}
	})
}

// CustomerStats summarizes rows.
func CustomerStats(rows []Customer) []Stat {
	spent := 0
	orders := 0
	for _, c := range rows {
		spent += c.TotalSpentCents
		orders += c.TotalOrders
	}
	active := count(rows, func(c Customer) bool { return c.Status == "Active" })
	return []Stat{
		{Label: "Total Customers", Value: strconv.Itoa(len(rows))},
		{Label: "Active Customers", Value: strconv.Itoa(active)},
		{Label: "Total Orders", Value: strconv.Itoa(orders)},
		{Label: "Total Revenue", Value: models.FormatCents(spent)},
	}
}
