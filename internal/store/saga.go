// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists admin-side bookkeeping in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"audiobook-admin/internal/models"
)

// SagaStore journals audiobook creations in the creation_sagas table.
type SagaStore struct {
	db *sql.DB
}

// NewSagaStore returns a new SagaStore.
func NewSagaStore(db *sql.DB) *SagaStore {
	return &SagaStore{db: db}
}

const sagaColumns = `id, audiobook_id, title, total_chapters, persisted, status, last_error, chapters, created_at, updated_at`

// scanSaga scans a row into a CreationSaga.
func scanSaga(scanner interface{ Scan(...any) error }) (*models.CreationSaga, error) {
	var (
		s        models.CreationSaga
		chapters []byte
	)
	err := scanner.Scan(
		&s.ID, &s.AudiobookID, &s.Title, &s.TotalChapters, &s.Persisted,
		&s.Status, &s.LastError, &chapters, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(chapters, &s.Chapters); err != nil {
		return nil, fmt.Errorf("decode chapters of saga %s: %w", s.ID, err)
	}
	return &s, nil
}

// Insert records a new saga. A zero ID is replaced with a fresh UUID.
func (st *SagaStore) Insert(ctx context.Context, s *models.CreationSaga) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	chapters, err := encodeChapters(s.Chapters)
	if err != nil {
		return err
	}

	err = st.db.QueryRowContext(ctx, `
		INSERT INTO creation_sagas (id, audiobook_id, title, total_chapters, persisted, status, last_error, chapters)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		s.ID, s.AudiobookID, s.Title, s.TotalChapters, s.Persisted, s.Status, s.LastError, chapters,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert saga: %w", err)
	}
	return nil
}

// Update writes the saga's progress.
func (st *SagaStore) Update(ctx context.Context, s *models.CreationSaga) error {
	chapters, err := encodeChapters(s.Chapters)
	if err != nil {
		return err
	}

	err = st.db.QueryRowContext(ctx, `
		UPDATE creation_sagas
		SET persisted = $2, status = $3, last_error = $4, chapters = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.Persisted, s.Status, s.LastError, chapters,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update saga %s: not found", s.ID)
	}
	if err != nil {
		return fmt.Errorf("update saga: %w", err)
	}
	return nil
}

// Get returns the saga with the given id, or (nil, nil) if none exists.
func (st *SagaStore) Get(ctx context.Context, id uuid.UUID) (*models.CreationSaga, error) {
	row := st.db.QueryRowContext(ctx, `SELECT `+sagaColumns+` FROM creation_sagas WHERE id = $1`, id)
	s, err := scanSaga(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get saga: %w", err)
	}
	return s, nil
}

// ListByStatus returns sagas in the given status, most recently updated
// first. An empty status lists every saga.
func (st *SagaStore) ListByStatus(ctx context.Context, status models.SagaStatus, limit int) ([]models.CreationSaga, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := st.db.QueryContext(ctx, `
		SELECT `+sagaColumns+`
		FROM creation_sagas
		WHERE $1 = '' OR status = $1
		ORDER BY updated_at DESC
		LIMIT $2`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("list sagas: %w", err)
	}
	defer rows.Close()

	var items []models.CreationSaga
	for rows.Next() {
		s, err := scanSaga(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saga: %w", err)
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

// ListPartial returns creations that stopped before all chapters were saved.
func (st *SagaStore) ListPartial(ctx context.Context, limit int) ([]models.CreationSaga, error) {
	return st.ListByStatus(ctx, models.SagaPartial, limit)
}

// Delete removes a saga record. The backend audiobook is not touched.
func (st *SagaStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := st.db.ExecContext(ctx, `DELETE FROM creation_sagas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete saga: %w", err)
	}
	return nil
}

func encodeChapters(chapters []models.Chapter) ([]byte, error) {
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	b, err := json.Marshal(chapters)
	if err != nil {
		return nil, fmt.Errorf("encode chapters: %w", err)
	}
	return b, nil
}
