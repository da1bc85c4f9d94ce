// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fixtures

import (
	"strconv"
	"strings"
)

// User is an account shown on the user management page.
type User struct {
	ID          string
	Name        string
	Email       string
	Role        string
	Status      string
	JoinDate    string
	LastLogin   string
	Permissions []string
}

// Avatar returns the user's initials.
func (u User) Avatar() string { return Initials(u.Name) }

// PermissionList joins the permissions for display.
func (u User) PermissionList() string { return strings.Join(u.Permissions, ", ") }

var customerPerms = []string{"Browse", "Purchase", "Review"}

var users = []User{
	{ID: "USER-001", Name: "Admin User", Email: "admin@audiobook.com", Role: "admin", Status: "Active", JoinDate: "2023-01-15", LastLogin: "2024-01-15", Permissions: []string{"Full Access"}},
	{ID: "USER-002", Name: "John Doe", Email: "john.doe@email.com", Role: "customer", Status: "Active", JoinDate: "2023-12-15", LastLogin: "2024-01-15", Permissions: customerPerms},
	{ID: "USER-003", Name: "Jane Smith", Email: "jane.smith@email.com", Role: "customer", Status: "Active", JoinDate: "2023-11-20", LastLogin: "2024-01-14", Permissions: customerPerms},
	{ID: "USER-004", Name: "Bob Johnson", Email: "bob.johnson@email.com", Role: "customer", Status: "Active", JoinDate: "2023-10-10", LastLogin: "2024-01-13", Permissions: customerPerms},
	{ID: "USER-005", Name: "Alice Brown", Email: "alice.brown@email.com", Role: "customer", Status: "Suspended", JoinDate: "2023-09-05", LastLogin: "2023-12-20", Permissions: []string{"Browse"}},
	{ID: "USER-006", Name: "Charlie Wilson", Email: "charlie.wilson@email.com", Role: "customer", Status: "Active", JoinDate: "2023-08-15", LastLogin: "2024-01-11", Permissions: customerPerms},
	{ID: "USER-007", Name: "Diana Prince", Email: "diana.prince@email.com", Role: "customer", Status: "Inactive", JoinDate: "2023-07-20", LastLogin: "2023-11-15", Permissions: customerPerms},
	{ID: "USER-008", Name: "Eva Martinez", Email: "eva.martinez@email.com", Role: "moderator", Status: "Active", JoinDate: "2023-06-10", LastLogin: "2024-01-10", Permissions: []string{"Browse", "Purchase", "Review", "Moderate"}},
}

// Users returns a copy of every user.
func Users() []User {
	out := make([]User, len(users))
	copy(out, users)
	return out
}

// SearchUsers matches id, name, email and role.
func SearchUsers(q string) []User {
	return Search(users, q, func(u User) []string {
		return []string{u.ID, u.Name, u.Email, u.Role}
	})
}

// UserStats summarizes rows.
func UserStats(rows []User) []Stat {
	return []Stat{
		{Label: "Total Users", Value: strconv.Itoa(len(rows))},
		{Label: "Active Users", Value: strconv.Itoa(count(rows, func(u User) bool { return u.Status == "Active" }))},
		{Label: "Admin Users", Value: strconv.Itoa(count(rows, func(u User) bool { return u.Role == "admin" }))},
		{Label: "Suspended Users", Value: strconv.Itoa(count(rows, func(u User) bool { return u.Status == "Suspended" }))},
	}
}
