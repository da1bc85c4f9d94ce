// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog types exchanged with the REST backend
// and the records the admin keeps in its own database.
package models

import (
	"fmt"
	"strings"
)

// AudiobookStatus represents the publishing state of an audiobook.
type AudiobookStatus string

const (
	StatusDraft      AudiobookStatus = "draft"
	StatusProcessing AudiobookStatus = "processing"
	StatusPublished  AudiobookStatus = "published"
	StatusArchived   AudiobookStatus = "archived"
)

// AudiobookStatuses lists every status in display order.
var AudiobookStatuses = []AudiobookStatus{StatusDraft, StatusProcessing, StatusPublished, StatusArchived}

// ValidStatus reports whether s names a known audiobook status.
func ValidStatus(s string) bool {
	for _, st := range AudiobookStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// CategoryRef is the compact category reference embedded in an audiobook.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Audiobook is a catalog entry as returned by the backend. Identifiers are
// always assigned by the backend.
type Audiobook struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Slug            string          `json:"slug"`
	ISBN            string          `json:"isbn,omitempty"`
	Description     string          `json:"description,omitempty"`
	AISummary       string          `json:"ai_summary,omitempty"`
	AuthorName      string          `json:"author_name"`
	NarratorName    string          `json:"narrator_name,omitempty"`
	DurationSeconds int             `json:"duration_seconds,omitempty"`
	PriceCents      int             `json:"price_cents"`
	Status          AudiobookStatus `json:"status"`
	Language        string          `json:"language,omitempty"`
	PublicationDate string          `json:"publication_date,omitempty"`
	SampleURL       string          `json:"sample_url,omitempty"`
	CoverImageURL   string          `json:"cover_image_url,omitempty"`
	Categories      []CategoryRef   `json:"categories"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

// HasCategory reports whether the audiobook is tagged with the named
// category. The comparison is exact, matching how the filter bar lists names.
func (a *Audiobook) HasCategory(name string) bool {
	for _, c := range a.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CategoryNames returns the names of the audiobook's categories joined by commas.
func (a *Audiobook) CategoryNames() string {
	names := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// Price formats PriceCents as a dollar amount.
func (a *Audiobook) Price() string {
	return FormatCents(a.PriceCents)
}

// Duration formats DurationSeconds as "1h 05m" or "12m".
func (a *Audiobook) Duration() string {
	return FormatDuration(a.DurationSeconds)
}

// AudiobookCreate is the payload sent to create an audiobook.
type AudiobookCreate struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	ISBN            string   `json:"isbn,omitempty"`
	Description     string   `json:"description,omitempty"`
	AuthorName      string   `json:"author_name"`
	NarratorName    string   `json:"narrator_name,omitempty"`
	DurationSeconds int      `json:"duration_seconds,omitempty"`
	PriceCents      int      `json:"price_cents"`
	Language        string   `json:"language"`
	PublicationDate string   `json:"publication_date,omitempty"`
	SampleURL       string   `json:"sample_url,omitempty"`
	CoverImageURL   string   `json:"cover_image_url,omitempty"`
	CategoryIDs     []string `json:"category_ids"`
}

// Pagination describes one page of a server-side list.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// AudiobookPage is one page of audiobooks. The backend names the item list
// "items"; older deployments used "audiobooks", so both are accepted.
type AudiobookPage struct {
	Items      []Audiobook `json:"items"`
	Audiobooks []Audiobook `json:"audiobooks,omitempty"`
	Pagination
}

// List returns whichever item list the backend populated.
func (p *AudiobookPage) List() []Audiobook {
	if p.Items != nil {
		return p.Items
	}
	return p.Audiobooks
}

// FormatCents renders an amount in cents as "$12.99".
func FormatCents(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// FormatDuration renders a number of seconds as hours and minutes.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
