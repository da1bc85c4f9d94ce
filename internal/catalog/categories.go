// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"sync"

	"audiobook-admin/internal/models"
)

// CategoryAPI is the set of backend operations the category store needs.
type CategoryAPI interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, data models.CategoryCreate) (*models.Category, error)
}

// CategoryState is a point-in-time view of a CategoryStore.
type CategoryState struct {
	Items     []models.Category
	IsLoading bool
	Error     string
}

// CategoryStore caches the last fetched category list.
type CategoryStore struct {
	api CategoryAPI

	mu    sync.Mutex
	seq   uint64
	state CategoryState
}

// NewCategoryStore creates a store in its initial state.
func NewCategoryStore(api CategoryAPI) *CategoryStore {
	return &CategoryStore{api: api, state: CategoryState{Items: []models.Category{}}}
}

// Fetch loads every category.
func (s *CategoryStore) Fetch(ctx context.Context) error {
	return s.fetch(ctx, false)
}

// FetchActive loads only active categories.
func (s *CategoryStore) FetchActive(ctx context.Context) error {
	return s.fetch(ctx, true)
}

func (s *CategoryStore) fetch(ctx context.Context, activeOnly bool) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	items, err := s.api.ListCategories(ctx, activeOnly)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return err
	}
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = errorText(err, "Failed to fetch categories")
		return err
	}
	s.state.Items = append(make([]models.Category, 0, len(items)), items...)
	s.state.Error = ""
	return nil
}

// Create creates a category through the backend and, only once that
// succeeds, appends it to the cached list. On failure the list is left
// unchanged, the error is recorded and returned.
func (s *CategoryStore) Create(ctx context.Context, data models.CategoryCreate) (*models.Category, error) {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	created, err := s.api.CreateCategory(ctx, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsLoading = false
	if err != nil {
		s.state.Error = errorText(err, "Failed to create category")
		return nil, err
	}
	s.state.Items = append(s.state.Items, *created)
	return created, nil
}

// ClearError drops the recorded error.
func (s *CategoryStore) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	s.mu.Unlock()
}

// Reset restores the initial state.
func (s *CategoryStore) Reset() {
	s.mu.Lock()
	s.seq++
	s.state = CategoryState{Items: []models.Category{}}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state that is safe to keep.
func (s *CategoryStore) Snapshot() CategoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	out.Items = append(make([]models.Category, 0, len(s.state.Items)), s.state.Items...)
	return out
}

// Names returns the filter bar options: the "All" sentinel followed by
// every cached category name.
func (s *CategoryStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.state.Items)+1)
	names = append(names, AllCategories)
	for _, c := range s.state.Items {
		names = append(names, c.Name)
	}
	return names
}

// IDByName returns the id of the cached category with the given name.
func (s *CategoryStore) IDByName(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.Items {
		if c.Name == name {
			return c.ID, true
		}
	}
	return "", false
}
