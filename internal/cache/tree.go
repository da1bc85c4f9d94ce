// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"audiobook-admin/internal/models"
)

const (
	// treeKey is the Valkey key holding the category tree.
	treeKey = "catalog:category-tree"

	// DefaultTreeTTL is how long the category tree stays cached.
	DefaultTreeTTL = time.Minute
)

// TreeCache keeps the category tree used by the audiobook form so that
// opening the form does not hit the backend every time. Creating a
// category invalidates it. Cache failures are logged and treated as misses.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get returns the cached tree. The bool is false on a miss.
func (tc *TreeCache) Get(ctx context.Context) ([]models.Category, bool) {
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("category tree cache get error", "error", err)
		return nil, false
	}
	var tree []models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("category tree cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("category tree cache hit", "roots", len(tree))
	return tree, true
}

// Set stores the tree with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, tree []models.Category) {
	payload, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("category tree cache encode error", "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKey, payload, tc.ttl).Err(); err != nil {
		slog.Warn("category tree cache set error", "error", err)
	}
}

// Invalidate drops the cached tree.
func (tc *TreeCache) Invalidate(ctx context.Context) {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		slog.Warn("category tree cache invalidate error", "error", err)
		return
	}
	slog.Debug("category tree cache invalidated")
}

// TreeSource loads the category tree from the backend.
type TreeSource interface {
	CategoryTree(ctx context.Context) ([]models.Category, error)
}

// Tree returns the cached tree, loading and caching it from src on a miss.
func (tc *TreeCache) Tree(ctx context.Context, src TreeSource) ([]models.Category, error) {
	if tree, ok := tc.Get(ctx); ok {
		return tree, nil
	}
	tree, err := src.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}
	tc.Set(ctx, tree)
	return tree, nil
}
