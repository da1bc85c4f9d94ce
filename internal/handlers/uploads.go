// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"audiobook-admin/internal/models"
	"audiobook-admin/internal/upload"
)

// multipartOverhead is allowed on top of the file for boundaries and
// headers.
const multipartOverhead = 1 << 20

// maxMemory is how much of a multipart body is held in memory before
// spilling to a temp file.
const maxMemory = 32 << 20

// uploadResponse is the JSON answer to a successful upload.
type uploadResponse struct {
	FileURL         string `json:"file_url"`
	FileSize        int64  `json:"file_size"`
	DurationSeconds int    `json:"duration_seconds"`
	MimeType        string `json:"mime_type"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	SizeLabel       string `json:"size_label"`
	DurationLabel   string `json:"duration_label"`
}

// Upload receives one file from the form, validates it, requests a
// pre-signed target, stores the bytes there and reports the public URL.
// The kind URL parameter is "audio" or "image".
func (a *Admin) Upload(w http.ResponseWriter, r *http.Request) {
	kind, err := upload.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSONError(w, "Unknown upload kind.", http.StatusNotFound)
		return
	}
	if a.presigner == nil {
		writeJSONError(w, "Uploads are not configured.", http.StatusServiceUnavailable)
		return
	}

	limit := a.limits.For(kind)
	tooLarge := fmt.Sprintf("File size must be less than %s", humanize.IBytes(uint64(limit)))

	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, tooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Could not read the upload.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp files only

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	widget := upload.NewWidget(kind, a.presigner,
		upload.WithMaxSize(limit),
		upload.WithAudioProber(a.prober),
	)
	if err := widget.Select(upload.File{
		Name:    header.Filename,
		Type:    header.Header.Get("Content-Type"),
		Size:    header.Size,
		Content: file,
	}); err != nil {
		var verr *upload.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, verr.Message, http.StatusBadRequest)
			return
		}
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}

	res, err := widget.Upload(r.Context())
	if err != nil {
		slog.Error("upload failed", "kind", kind, "file", header.Filename, "error", err)
		writeJSONError(w, "Upload failed: "+apiMessage(err), http.StatusBadGateway)
		return
	}

	slog.Info("file uploaded", "kind", kind, "url", res.URL, "size", res.Size, "duration", res.Duration)
	writeJSON(w, http.StatusOK, uploadResponse{
		FileURL:         res.URL,
		FileSize:        res.Size,
		DurationSeconds: res.Duration,
		MimeType:        res.MimeType,
		Width:           res.Width,
		Height:          res.Height,
		SizeLabel:       res.SizeLabel(),
		DurationLabel:   models.FormatDuration(res.Duration),
	})
}
