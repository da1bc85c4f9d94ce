// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fixtures holds the static rows behind the dashboard, orders,
// customers, reviews and user management pages. The backend has no
// endpoints for these yet, so the pages render fixed data and only
// support searching it.
package fixtures

import (
	"strings"
)

// Stat is one headline figure on a page.
type Stat struct {
	Label  string
	Value  string
	Change string // e.g. "+12.5%", empty when not tracked
	Icon   string
}

// Positive reports whether the change is an increase.
func (s Stat) Positive() bool {
	return strings.HasPrefix(s.Change, "+")
}

// Search returns the rows where any of the fields returned by fields
// contains q, case-insensitively. An empty q returns every row.
func Search[T any](rows []T, q string, fields func(T) []string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if q == "" || matches(fields(row), q) {
			out = append(out, row)
		}
	}
	return out
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// count returns how many rows satisfy pred.
func count[T any](rows []T, pred func(T) bool) int {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

// Initials returns up to two upper-case initials for an avatar.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(part[:1]))
		if b.Len() == 2 {
			break
		}
	}
	return b.String()
}
