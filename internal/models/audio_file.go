// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// AudioFile is one chapter of an audiobook as persisted by the backend.
type AudioFile struct {
	ID              string `json:"id,omitempty"`
	AudiobookID     string `json:"audiobook_id"`
	ChapterNumber   int    `json:"chapter_number"`
	ChapterTitle    string `json:"chapter_title"`
	FileURL         string `json:"file_url"`
	FileSizeBytes   int64  `json:"file_size_bytes,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	MimeType        string `json:"mime_type,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// Chapter is a chapter held in form state before the audiobook exists.
// It becomes an AudioFile once the parent id is known.
type Chapter struct {
	Title           string `json:"title" validate:"required,max=200"`
	FileURL         string `json:"file_url" validate:"required,url"`
	DurationSeconds int    `json:"duration_seconds"`
	FileSizeBytes   int64  `json:"file_size_bytes"`
	MimeType        string `json:"mime_type"`
}

// AudioFile converts the chapter into the create payload for the given
// audiobook. Chapter numbers start at 1.
func (c Chapter) AudioFile(audiobookID string, number int) AudioFile {
	return AudioFile{
		AudiobookID:     audiobookID,
		ChapterNumber:   number,
		ChapterTitle:    c.Title,
		FileURL:         c.FileURL,
		FileSizeBytes:   c.FileSizeBytes,
		DurationSeconds: c.DurationSeconds,
		MimeType:        c.MimeType,
	}
}

// PresignRequest asks the backend for a pre-signed upload target.
type PresignRequest struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

// PresignedUpload is a time-limited upload target. UploadURL accepts a
// single PUT; FileURL is where the object will be readable afterwards.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	ExpiresIn int    `json:"expires_in"`
}
