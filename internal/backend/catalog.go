// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"audiobook-admin/internal/models"
)

// ListParams are the query parameters of the audiobook list endpoint.
// Zero values are omitted from the query string.
type ListParams struct {
	Page         int
	Size         int
	CategoryID   string
	Search       string
	StatusFilter string
}

// Query encodes the parameters.
func (p ListParams) Query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.CategoryID != "" {
		q.Set("category_id", p.CategoryID)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.StatusFilter != "" {
		q.Set("status_filter", p.StatusFilter)
	}
	return q
}

// ListCategories returns all categories, or only active ones.
func (c *Client) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	path := c.endpoints.Categories
	if activeOnly {
		path += "?active_only=true"
	}
	var out []models.Category
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryTree returns root categories with their children populated.
func (c *Client) CategoryTree(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.Do(ctx, http.MethodGet, c.endpoints.CategoryTree, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category and returns it as stored.
func (c *Client) CreateCategory(ctx context.Context, data models.CategoryCreate) (*models.Category, error) {
	var out models.Category
	if err := c.Do(ctx, http.MethodPost, c.endpoints.Categories, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAudiobooks returns one page of audiobooks.
func (c *Client) ListAudiobooks(ctx context.Context, params ListParams) (*models.AudiobookPage, error) {
	path := c.endpoints.Audiobooks
	if q := params.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out models.AudiobookPage
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAudiobook creates an audiobook and returns it with its backend id.
func (c *Client) CreateAudiobook(ctx context.Context, data models.AudiobookCreate) (*models.Audiobook, error) {
	var out models.Audiobook
	if err := c.Do(ctx, http.MethodPost, c.endpoints.Audiobooks, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateAudioFile persists one chapter.
func (c *Client) CreateAudioFile(ctx context.Context, data models.AudioFile) (*models.AudioFile, error) {
	var out models.AudioFile
	if err := c.Do(ctx, http.MethodPost, c.endpoints.AudioFiles, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PresignUpload requests a pre-signed upload target for a file.
func (c *Client) PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error) {
	var out models.PresignedUpload
	if err := c.Do(ctx, http.MethodPost, c.endpoints.Presign, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports the backend health payload.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Do(ctx, http.MethodGet, c.endpoints.Health, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
