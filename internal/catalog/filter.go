// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strings"

	"audiobook-admin/internal/models"
)

// Visible returns the audiobooks to display for the given filters. It is
// display-only filtering on top of whatever page the backend returned:
// category membership by name ("All" matches everything) and a
// case-insensitive substring match over title, author and narrator.
func Visible(items []models.Audiobook, f Filters) []models.Audiobook {
	term := strings.ToLower(strings.TrimSpace(f.SearchTerm))
	out := make([]models.Audiobook, 0, len(items))
	for i := range items {
		a := &items[i]
		if f.SelectedCategory != "" && f.SelectedCategory != AllCategories && !a.HasCategory(f.SelectedCategory) {
			continue
		}
		if term != "" && !matchesTerm(a, term) {
			continue
		}
		out = append(out, *a)
	}
	return out
}

func matchesTerm(a *models.Audiobook, term string) bool {
	for _, field := range []string{a.Title, a.AuthorName, a.NarratorName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
