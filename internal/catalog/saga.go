// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"audiobook-admin/internal/models"
)

// ErrSagaNotFound is returned by Resume for an unknown saga id.
var ErrSagaNotFound = errors.New("creation saga not found")

// AudiobookWriter is the set of backend writes an audiobook creation needs.
type AudiobookWriter interface {
	CreateAudiobook(ctx context.Context, data models.AudiobookCreate) (*models.Audiobook, error)
	CreateAudioFile(ctx context.Context, data models.AudioFile) (*models.AudioFile, error)
}

// Journal persists creation progress so a partial creation can be resumed.
// Get returns (nil, nil) when no saga exists with the given id.
type Journal interface {
	Insert(ctx context.Context, s *models.CreationSaga) error
	Update(ctx context.Context, s *models.CreationSaga) error
	Get(ctx context.Context, id uuid.UUID) (*models.CreationSaga, error)
}

// PartialError reports a creation that stopped after the audiobook was
// created but before every chapter was saved. Nothing is rolled back.
// Resumable is false when the progress could not be journaled; SagaID
// then names nothing that Resume can find.
type PartialError struct {
	SagaID      uuid.UUID
	AudiobookID string
	Persisted   int
	Total       int
	Resumable   bool
	Err         error
}

func (e *PartialError) Error() string {
	msg := fmt.Sprintf("audiobook %s created but only %d of %d chapters saved", e.AudiobookID, e.Persisted, e.Total)
	if !e.Resumable {
		msg += " (progress not recorded)"
	}
	return msg + ": " + e.Err.Error()
}

func (e *PartialError) Unwrap() error { return e.Err }

// Creator runs the two-step audiobook creation: the audiobook first, then
// one create call per chapter, in order. It stops at the first failing
// chapter and never retries on its own.
type Creator struct {
	api     AudiobookWriter
	journal Journal
	now     func() time.Time
}

// NewCreator creates a Creator that records progress in journal.
func NewCreator(api AudiobookWriter, journal Journal) *Creator {
	return &Creator{api: api, journal: journal, now: time.Now}
}

// Create creates the audiobook and its chapters. If the audiobook itself
// cannot be created, the backend error is returned and nothing is
// journaled. If a chapter fails, the returned saga describes what was
// saved and the error is a *PartialError.
func (c *Creator) Create(ctx context.Context, data models.AudiobookCreate, chapters []models.Chapter) (*models.CreationSaga, error) {
	book, err := c.api.CreateAudiobook(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("create audiobook: %w", err)
	}

	now := c.now()
	saga := &models.CreationSaga{
		ID:            uuid.New(),
		AudiobookID:   book.ID,
		Title:         book.Title,
		TotalChapters: len(chapters),
		Status:        models.SagaRunning,
		Chapters:      append([]models.Chapter(nil), chapters...),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if saga.Title == "" {
		saga.Title = data.Title
	}
	journaled := true
	if err := c.journal.Insert(ctx, saga); err != nil {
		journaled = false
		slog.Error("saga journal insert failed", "saga", saga.ID, "audiobook", saga.AudiobookID, "error", err)
	}

	return saga, c.run(ctx, saga, journaled)
}

// Resume continues a partial creation from its first unsaved chapter.
// Resuming a completed saga is a no-op.
func (c *Creator) Resume(ctx context.Context, id uuid.UUID) (*models.CreationSaga, error) {
	saga, err := c.journal.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load saga: %w", err)
	}
	if saga == nil {
		return nil, ErrSagaNotFound
	}
	if saga.Done() {
		return saga, nil
	}
	saga.Status = models.SagaRunning
	saga.LastError = ""
	return saga, c.run(ctx, saga, true)
}

// run creates every pending chapter, recording progress after each one
// when the saga is journaled.
func (c *Creator) run(ctx context.Context, saga *models.CreationSaga, journaled bool) error {
	save := func() {
		if journaled {
			c.save(ctx, saga)
		}
	}
	for saga.Persisted < len(saga.Chapters) {
		n := saga.Persisted
		ch := saga.Chapters[n]
		if _, err := c.api.CreateAudioFile(ctx, ch.AudioFile(saga.AudiobookID, n+1)); err != nil {
			saga.Status = models.SagaPartial
			saga.LastError = err.Error()
			save()
			slog.Warn("audiobook creation stopped",
				"saga", saga.ID, "audiobook", saga.AudiobookID,
				"chapter", n+1, "persisted", saga.Persisted, "total", saga.TotalChapters, "error", err)
			return &PartialError{
				SagaID:      saga.ID,
				AudiobookID: saga.AudiobookID,
				Persisted:   saga.Persisted,
				Total:       saga.TotalChapters,
				Resumable:   journaled,
				Err:         err,
			}
		}
		saga.Persisted++
		save()
	}

	saga.Status = models.SagaCompleted
	save()
	return nil
}

func (c *Creator) save(ctx context.Context, saga *models.CreationSaga) {
	saga.UpdatedAt = c.now()
	if err := c.journal.Update(ctx, saga); err != nil {
		slog.Error("saga journal update failed", "saga", saga.ID, "persisted", saga.Persisted, "error", err)
	}
}
