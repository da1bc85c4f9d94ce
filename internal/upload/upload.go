// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload implements the file upload widget: local validation,
// then a pre-signed upload (request a target, PUT the bytes to it) and a
// local probe for audio duration or image dimensions.
//
// A Widget moves through idle → selected → uploading → succeeded|failed.
// Remove returns it to idle from any state except uploading. A Widget is
// not safe for concurrent use; build one per upload.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"audiobook-admin/internal/models"
)

// Kind is the category of file a widget accepts.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// Default size ceilings per kind.
const (
	DefaultMaxAudio int64 = 100 << 20
	DefaultMaxImage int64 = 10 << 20
)

// ParseKind validates a kind name from a URL or form.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAudio, KindImage:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown upload kind %q", s)
}

// DefaultMaxSize returns the size ceiling for kind.
func DefaultMaxSize(kind Kind) int64 {
	if kind == KindImage {
		return DefaultMaxImage
	}
	return DefaultMaxAudio
}

// Accept returns the value for the file input's accept attribute.
func (k Kind) Accept() string {
	return string(k) + "/*"
}

// State is the widget's position in the upload lifecycle.
type State int

const (
	StateIdle State = iota
	StateSelected
	StateUploading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrNoFile is returned by Upload when no file has been selected.
	ErrNoFile = errors.New("upload: no file selected")
	// ErrBusy is returned by Remove while an upload is in progress.
	ErrBusy = errors.New("upload: upload in progress")
)

// ValidationError is a local rejection of a selected file. It is always
// produced before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// File is a file picked for upload. Content must be readable from the
// start and seekable so the bytes can be sent and probed.
type File struct {
	Name    string
	Type    string // declared MIME type, may be empty
	Size    int64
	Content io.ReadSeeker
}

// Result is reported on a successful upload.
type Result struct {
	URL      string
	Size     int64
	MimeType string
	Duration int // seconds, audio only
	Width    int // pixels, images only
	Height   int
}

// SizeLabel renders the size for display.
func (r Result) SizeLabel() string {
	return humanize.IBytes(uint64(r.Size))
}

// Presigner issues pre-signed upload targets.
type Presigner interface {
	PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error)
}

// Widget drives a single upload.
type Widget struct {
	kind       Kind
	maxSize    int64
	presigner  Presigner
	client     *http.Client
	audioProbe AudioProber
	onComplete func(Result)

	state  State
	file   *File
	err    error
	result *Result
}

// Option customizes a Widget.
type Option func(*Widget)

// WithMaxSize overrides the default size ceiling for the widget's kind.
func WithMaxSize(n int64) Option {
	return func(w *Widget) {
		if n > 0 {
			w.maxSize = n
		}
	}
}

// WithHTTPClient sets the client used for the PUT to the upload target.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Widget) {
		if c != nil {
			w.client = c
		}
	}
}

// WithAudioProber replaces the audio duration probe.
func WithAudioProber(p AudioProber) Option {
	return func(w *Widget) {
		if p != nil {
			w.audioProbe = p
		}
	}
}

// WithOnComplete registers the callback invoked after a successful upload.
func WithOnComplete(fn func(Result)) Option {
	return func(w *Widget) {
		w.onComplete = fn
	}
}

// NewWidget creates an idle widget for kind.
func NewWidget(kind Kind, presigner Presigner, opts ...Option) *Widget {
	w := &Widget{
		kind:       kind,
		maxSize:    DefaultMaxSize(kind),
		presigner:  presigner,
		client:     &http.Client{Timeout: 10 * time.Minute},
		audioProbe: MetadataProber{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Widget) State() State { return w.state }

// Err returns the error that put the widget in the failed state.
func (w *Widget) Err() error { return w.err }

// Result returns the outcome of a successful upload, or nil.
func (w *Widget) Result() *Result { return w.result }

// MaxSizeLabel renders the size ceiling for display.
func (w *Widget) MaxSizeLabel() string {
	return humanize.IBytes(uint64(w.maxSize))
}

// Select validates f and, if acceptable, makes it the pending file. On
// rejection the widget is failed with a *ValidationError. Validation only
// inspects f locally.
func (w *Widget) Select(f File) error {
	if w.state == StateUploading {
		return ErrBusy
	}
	w.file = nil
	w.result = nil

	if err := w.validate(&f); err != nil {
		w.fail(err)
		return err
	}

	w.file = &f
	w.err = nil
	w.state = StateSelected
	return nil
}

func (w *Widget) validate(f *File) error {
	if f.Size <= 0 {
		return &ValidationError{Message: "The selected file is empty"}
	}
	if f.Size > w.maxSize {
		return &ValidationError{Message: fmt.Sprintf("File size must be less than %s", w.MaxSizeLabel())}
	}

	if mt := baseType(f.Type); mt == "" || mt == "application/octet-stream" {
		sniffed, err := sniff(f.Content)
		if err != nil {
			return &ValidationError{Message: "Could not read the selected file"}
		}
		f.Type = sniffed
	}

	if !strings.HasPrefix(baseType(f.Type), string(w.kind)+"/") {
		return &ValidationError{Message: fmt.Sprintf("Please select an %s file", w.kind)}
	}
	return nil
}

// sniff detects the MIME type from the file content and rewinds it.
func sniff(r io.ReadSeeker) (string, error) {
	if r == nil {
		return "", errors.New("no content")
	}
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mt.String(), nil
}

// baseType strips parameters from a MIME type.
func baseType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// Upload runs the upload for the selected file: request a pre-signed
// target, PUT the bytes with the file's MIME type, then probe. Any failing
// step fails the widget and skips the remaining steps.
func (w *Widget) Upload(ctx context.Context) (*Result, error) {
	if w.state != StateSelected || w.file == nil {
		return nil, ErrNoFile
	}
	w.state = StateUploading
	f := w.file

	target, err := w.presigner.PresignUpload(ctx, models.PresignRequest{
		FileName: f.Name,
		FileType: baseType(f.Type),
		FileSize: f.Size,
	})
	if err != nil {
		return nil, w.fail(fmt.Errorf("request upload target: %w", err))
	}

	if err := w.put(ctx, target.UploadURL, f); err != nil {
		return nil, w.fail(err)
	}

	res := Result{URL: target.FileURL, Size: f.Size, MimeType: baseType(f.Type)}
	switch w.kind {
	case KindAudio:
		// A file the probe cannot read still uploaded fine; report no duration.
		d, err := w.audioProbe.Duration(ctx, f)
		if err != nil {
			slog.Warn("audio duration probe failed", "file", f.Name, "error", err)
		}
		res.Duration = int(d.Round(time.Second).Seconds())
	case KindImage:
		width, height, err := imageDimensions(f.Content)
		if err != nil {
			slog.Warn("image probe failed", "file", f.Name, "error", err)
		}
		res.Width, res.Height = width, height
	}

	w.state = StateSucceeded
	w.result = &res
	w.file = nil
	if w.onComplete != nil {
		w.onComplete(res)
	}
	return &res, nil
}

func (w *Widget) put(ctx context.Context, url string, f *File) error {
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, io.NopCloser(f.Content))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = f.Size
	req.Header.Set("Content-Type", baseType(f.Type))

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("Failed to upload file: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("Failed to upload file: storage returned %s", resp.Status)
	}
	return nil
}

// Remove drops the selected file or the last outcome and returns to idle.
func (w *Widget) Remove() error {
	if w.state == StateUploading {
		return ErrBusy
	}
	w.state = StateIdle
	w.file = nil
	w.err = nil
	w.result = nil
	return nil
}

func (w *Widget) fail(err error) error {
	w.state = StateFailed
	w.err = err
	return err
}
