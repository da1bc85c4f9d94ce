// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SagaStatus represents the progress of an audiobook creation.
type SagaStatus string

const (
	SagaRunning   SagaStatus = "running"
	SagaPartial   SagaStatus = "partial"
	SagaCompleted SagaStatus = "completed"
)

// CreationSaga records an audiobook creation and how many of its chapters
// reached the backend. Chapters holds every submitted chapter in order;
// the first Persisted of them exist remotely.
type CreationSaga struct {
	ID            uuid.UUID  `json:"id"`
	AudiobookID   string     `json:"audiobook_id"`
	Title         string     `json:"title"`
	TotalChapters int        `json:"total_chapters"`
	Persisted     int        `json:"persisted"`
	Status        SagaStatus `json:"status"`
	LastError     string     `json:"last_error,omitempty"`
	Chapters      []Chapter  `json:"chapters"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Pending returns the chapters that still need to be created.
func (s *CreationSaga) Pending() []Chapter {
	if s.Persisted >= len(s.Chapters) {
		return nil
	}
	return s.Chapters[s.Persisted:]
}

// Done reports whether every chapter has been persisted.
func (s *CreationSaga) Done() bool {
	return s.Persisted >= s.TotalChapters
}
