// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixtures

import (
	"strconv"
	"strings"

	"audiobook-admin/internal/models"
)

// Order is a customer order.
type Order struct {
	ID             string
	Customer       string
	Email          string
	Products       []string
	TotalCents     int
	Status         string
	PaymentMethod  string
	OrderDate      string
	ShippingDate   string
	TrackingNumber string
}

// Total renders the order total.
func (o Order) Total() string { return models.FormatCents(o.TotalCents) }

// ProductList joins the product titles for display.
func (o Order) ProductList() string { return strings.Join(o.Products, ", ") }

var orders = []Order{
	{ID: "ORD-001", Customer: "John Doe", Email: "john.doe@email.com", Products: []string{"The Great Gatsby", "1984"}, TotalCents: 2898, Status: "Completed", PaymentMethod: "Credit Card", OrderDate: "2024-01-15", ShippingDate: "2024-01-15", TrackingNumber: "TRK123456789"},
	{ID: "ORD-002", Customer: "Jane Smith", Email: "jane.smith@email.com", Products: []string{"To Kill a Mockingbird"}, TotalCents: 1199, Status: "Processing", PaymentMethod: "PayPal", OrderDate: "2024-01-14"},
	{ID: "ORD-003", Customer: "Bob Johnson", Email: "bob.johnson@email.com", Products: []string{"Pride and Prejudice", "The Catcher in the Rye"}, TotalCents: 2898, Status: "Shipped", PaymentMethod: "Credit Card", OrderDate: "2024-01-13", ShippingDate: "2024-01-14", TrackingNumber: "TRK987654321"},
	{ID: "ORD-004", Customer: "Alice Brown", Email: "alice.brown@email.com", Products: []string{"The Hobbit"}, TotalCents: 1699, Status: "Completed", PaymentMethod: "Apple Pay", OrderDate: "2024-01-12", ShippingDate: "2024-01-12", TrackingNumber: "TRK456789123"},
	{ID: "ORD-005", Customer: "Charlie Wilson", Email: "charlie.wilson@email.com", Products: []string{"The Great Gatsby", "1984", "To Kill a Mockingbird"}, TotalCents: 4097, Status: "Pending", PaymentMethod: "Credit Card", OrderDate: "2024-01-11"},
	{ID: "ORD-006", Customer: "Diana Prince", Email: "diana.prince@email.com", Products: []string{"Pride and Prejudice"}, TotalCents: 1399, Status: "Cancelled", PaymentMethod: "Credit Card", OrderDate: "2024-01-10"},
}

// Orders returns a copy of every order.
func Orders() []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	return out
}

// SearchOrders matches id, customer name, email and product titles.
func SearchOrders(q string) []Order {
	return Search(orders, q, func(o Order) []string {
		return append([]string{o.ID, o.Customer, o.Email}, o.Products...)
	})
}

// OrderStats summarizes rows by status.
func OrderStats(rows []Order) []Stat {
	byStatus := func(s string) string {
		return strconv.Itoa(count(rows, func(o Order) bool { return o.Status == s }))
	}
	return []Stat{
		{Label: "Total Orders", Value: strconv.Itoa(len(rows))},
		{Label: "Completed", Value: byStatus("Completed")},
		{Label: "Processing", Value: byStatus("Processing")},
		{Label: "Pending", Value: byStatus("Pending")},
	}
}
