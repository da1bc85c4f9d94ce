// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog holds the page-scoped entity stores for audiobooks and
// categories, the derived display filter, and the audiobook creation saga.
//
// Stores are plain values built per request and passed explicitly. Each
// fetch is tagged with a sequence number when issued; on completion its
// result is applied only if no newer fetch has been issued since, so a
// slow stale response can never overwrite fresher state.
package catalog

import (
	"context"
	"sync"

	"audiobook-admin/internal/backend"
	"audiobook-admin/internal/models"
)

// Default pagination and filter values.
const (
	DefaultPage   = 1
	DefaultSize   = 20
	AllCategories = "All"
)

// AudiobookLister is the backend operation the audiobook store needs.
type AudiobookLister interface {
	ListAudiobooks(ctx context.Context, params backend.ListParams) (*models.AudiobookPage, error)
}

// Filters is the filter state shared by the list pages.
type Filters struct {
	SearchTerm       string
	SelectedCategory string
	StatusFilter     string
}

// DefaultFilters returns the initial filter state.
func DefaultFilters() Filters {
	return Filters{SelectedCategory: AllCategories}
}

// IsZero reports whether no filter narrows the list.
func (f Filters) IsZero() bool {
	return f.SearchTerm == "" && f.StatusFilter == "" && (f.SelectedCategory == "" || f.SelectedCategory == AllCategories)
}

// AudiobookState is a point-in-time view of an AudiobookStore.
type AudiobookState struct {
	Items      []models.Audiobook
	IsLoading  bool
	Error      string
	Pagination models.Pagination
	Filters    Filters
}

// FetchParams are caller overrides for a fetch. Zero values fall back to
// the store's current filter and pagination state.
type FetchParams struct {
	Page         int
	Size         int
	CategoryID   string
	Search       string
	StatusFilter string
}

// AudiobookStore caches the last fetched page of audiobooks along with
// loading, error, filter and pagination state.
type AudiobookStore struct {
	api AudiobookLister

	mu    sync.Mutex
	seq   uint64
	state AudiobookState
}

// NewAudiobookStore creates a store in its initial state.
func NewAudiobookStore(api AudiobookLister) *AudiobookStore {
	s := &AudiobookStore{api: api}
	s.state = initialAudiobookState()
	return s
}

func initialAudiobookState() AudiobookState {
	return AudiobookState{
		Items:      []models.Audiobook{},
		Pagination: models.Pagination{Page: DefaultPage, Size: DefaultSize},
		Filters:    DefaultFilters(),
	}
}

// Fetch loads a page of audiobooks. Explicit params win; otherwise the
// current search term, status filter, page and size are reused, except
// that a non-empty search term forces page 1. The category id is only
// sent when given explicitly.
//
// On success items and pagination are replaced; on failure the error
// message is recorded and items are left untouched. The error is also
// returned so callers can log it.
func (s *AudiobookStore) Fetch(ctx context.Context, p FetchParams) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.IsLoading = true
	s.state.Error = ""
	req := s.requestParams(p)
	s.mu.Unlock()

	page, err := s.api.ListAudiobooks(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return err
	}
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = errorText(err, "Failed to fetch audiobooks")
		return err
	}
	items := page.List()
	s.state.Items = make([]models.Audiobook, len(items))
	copy(s.state.Items, items)
	s.state.Pagination = page.Pagination
	s.state.Error = ""
	return nil
}

// requestParams merges p over the current state. Callers hold s.mu.
func (s *AudiobookStore) requestParams(p FetchParams) backend.ListParams {
	f := s.state.Filters
	req := backend.ListParams{
		Page:         s.state.Pagination.Page,
		Size:         s.state.Pagination.Size,
		CategoryID:   p.CategoryID,
		Search:       f.SearchTerm,
		StatusFilter: f.StatusFilter,
	}
	if p.Search != "" {
		req.Search = p.Search
	}
	if p.StatusFilter != "" {
		req.StatusFilter = p.StatusFilter
	}
	switch {
	case p.Page > 0:
		req.Page = p.Page
	case req.Search != "":
		req.Page = DefaultPage
	}
	if req.Page <= 0 {
		req.Page = DefaultPage
	}
	if p.Size > 0 {
		req.Size = p.Size
	}
	if req.Size <= 0 {
		req.Size = DefaultSize
	}
	return req
}

// SetSearchTerm updates the search filter. It does not fetch.
func (s *AudiobookStore) SetSearchTerm(term string) {
	s.mu.Lock()
	s.state.Filters.SearchTerm = term
	s.mu.Unlock()
}

// SetSelectedCategory updates the category filter. It does not fetch.
func (s *AudiobookStore) SetSelectedCategory(name string) {
	if name == "" {
		name = AllCategories
	}
	s.mu.Lock()
	s.state.Filters.SelectedCategory = name
	s.mu.Unlock()
}

// SetStatusFilter updates the status filter. It does not fetch.
func (s *AudiobookStore) SetStatusFilter(status string) {
	s.mu.Lock()
	s.state.Filters.StatusFilter = status
	s.mu.Unlock()
}

// SetPage updates the current page used by the next fetch.
func (s *AudiobookStore) SetPage(page int) {
	if page <= 0 {
		page = DefaultPage
	}
	s.mu.Lock()
	s.state.Pagination.Page = page
	s.mu.Unlock()
}

// ClearFilters restores the default filters.
func (s *AudiobookStore) ClearFilters() {
	s.mu.Lock()
	s.state.Filters = DefaultFilters()
	s.mu.Unlock()
}

// ClearError drops the recorded error.
func (s *AudiobookStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// Reset restores the initial state. Results of fetches issued before the
// reset are discarded.
func (s *AudiobookStore) Reset() {
	s.mu.Lock()
	s.seq++
	s.state = initialAudiobookState()
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state that is safe to keep.
func (s *AudiobookStore) Snapshot() AudiobookState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Items = make([]models.Audiobook, len(s.state.Items))
	for i, a := range s.state.Items {
		a.Categories = append([]models.CategoryRef(nil), a.Categories...)
		out.Items[i] = a
	}
	return out
}

// errorText returns the message of err, or fallback when it has none.
func errorText(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
