// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiobook-admin/internal/models"
)

type fakePresigner struct {
	calls   atomic.Int32
	target  string
	err     error
	lastReq models.PresignRequest
}

func (p *fakePresigner) PresignUpload(_ context.Context, req models.PresignRequest) (*models.PresignedUpload, error) {
	p.calls.Add(1)
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &models.PresignedUpload{
		UploadURL: p.target,
		FileURL:   "https://cdn.example.com/uploads/" + req.FileName,
		ExpiresIn: 3600,
	}, nil
}

type fixedProber struct {
	d   time.Duration
	err error
}

func (p fixedProber) Duration(context.Context, *File) (time.Duration, error) {
	return p.d, p.err
}

// storageServer accepts PUTs and records what it received.
type storageServer struct {
	*httptest.Server
	calls       atomic.Int32
	contentType atomic.Value
	body        atomic.Value
	status      int
}

func newStorageServer(t *testing.T, status int) *storageServer {
	t.Helper()
	s := &storageServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		s.contentType.Store(r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		s.body.Store(b)
		w.WriteHeader(s.status)
	}))
	t.Cleanup(s.Close)
	return s
}

func audioFile(size int) File {
	data := bytes.Repeat([]byte{0xAA}, size)
	return File{Name: "chapter-1.mp3", Type: "audio/mpeg", Size: int64(size), Content: bytes.NewReader(data)}
}

func pngFile(t *testing.T, w, h int) File {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return File{Name: "cover.png", Type: "image/png", Size: int64(buf.Len()), Content: bytes.NewReader(buf.Bytes())}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("audio")
	require.NoError(t, err)
	assert.Equal(t, KindAudio, k)
	assert.Equal(t, "image/*", KindImage.Accept())

	_, err = ParseKind("video")
	assert.Error(t, err)
}

func TestDefaultMaxSize(t *testing.T) {
	assert.Equal(t, int64(100<<20), DefaultMaxSize(KindAudio))
	assert.Equal(t, int64(10<<20), DefaultMaxSize(KindImage))
}

func TestUploadAudioSuccess(t *testing.T) {
	storage := newStorageServer(t, http.StatusOK)
	presigner := &fakePresigner{target: storage.URL + "/put"}

	var completed []Result
	w := NewWidget(KindAudio, presigner,
		WithAudioProber(fixedProber{d: 95*time.Second + 400*time.Millisecond}),
		WithOnComplete(func(r Result) { completed = append(completed, r) }),
	)
	assert.Equal(t, StateIdle, w.State())

	require.NoError(t, w.Select(audioFile(2048)))
	assert.Equal(t, StateSelected, w.State())

	res, err := w.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, w.State())

	assert.Equal(t, "https://cdn.example.com/uploads/chapter-1.mp3", res.URL)
	assert.Equal(t, int64(2048), res.Size)
	assert.Equal(t, 95, res.Duration)
	assert.Equal(t, "2.0 KiB", res.SizeLabel())

	assert.Equal(t, int32(1), presigner.calls.Load())
	assert.Equal(t, models.PresignRequest{FileName: "chapter-1.mp3", FileType: "audio/mpeg", FileSize: 2048}, presigner.lastReq)
	assert.Equal(t, int32(1), storage.calls.Load())
	assert.Equal(t, "audio/mpeg", storage.contentType.Load())
	assert.Len(t, storage.body.Load(), 2048)

	require.Len(t, completed, 1)
	assert.Equal(t, *res, completed[0])
}

func TestUploadAcceptsAny2xx(t *testing.T) {
	storage := newStorageServer(t, http.StatusNoContent)
	w := NewWidget(KindAudio, &fakePresigner{target: storage.URL}, WithAudioProber(fixedProber{}))
	require.NoError(t, w.Select(audioFile(16)))

	_, err := w.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, w.State())
}

func TestUploadDurationProbeFailureStillSucceeds(t *testing.T) {
	storage := newStorageServer(t, http.StatusOK)
	w := NewWidget(KindAudio, &fakePresigner{target: storage.URL}, WithAudioProber(fixedProber{err: errors.New("unsupported container")}))
	require.NoError(t, w.Select(audioFile(16)))

	res, err := w.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Duration)
	assert.Equal(t, StateSucceeded, w.State())
}

func TestUploadImageDimensions(t *testing.T) {
	storage := newStorageServer(t, http.StatusOK)
	w := NewWidget(KindImage, &fakePresigner{target: storage.URL})
	require.NoError(t, w.Select(pngFile(t, 40, 30)))

	res, err := w.Upload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, 30, res.Height)
	assert.Equal(t, "image/png", storage.contentType.Load())
}

func TestSelectRejectsWithoutNetwork(t *testing.T) {
	img := pngFile(t, 2, 2)

	tests := []struct {
		name    string
		kind    Kind
		opts    []Option
		file    File
		message string
	}{
		{
			name:    "oversized audio",
			kind:    KindAudio,
			opts:    []Option{WithMaxSize(1024)},
			file:    audioFile(2048),
			message: "File size must be less than 1.0 KiB",
		},
		{
			name:    "image in audio widget",
			kind:    KindAudio,
			file:    img,
			message: "Please select an audio file",
		},
		{
			name:    "audio in image widget",
			kind:    KindImage,
			file:    audioFile(64),
			message: "Please select an image file",
		},
		{
			name:    "empty file",
			kind:    KindAudio,
			file:    File{Name: "x.mp3", Type: "audio/mpeg", Content: bytes.NewReader(nil)},
			message: "The selected file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newStorageServer(t, http.StatusOK)
			presigner := &fakePresigner{target: storage.URL}
			w := NewWidget(tt.kind, presigner, tt.opts...)

			err := w.Select(tt.file)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, StateFailed, w.State())

			_, err = w.Upload(context.Background())
			assert.ErrorIs(t, err, ErrNoFile)

			assert.Zero(t, presigner.calls.Load())
			assert.Zero(t, storage.calls.Load())
		})
	}
}

func TestSelectSniffsMissingType(t *testing.T) {
	img := pngFile(t, 4, 4)
	img.Type = ""

	w := NewWidget(KindImage, &fakePresigner{})
	require.NoError(t, w.Select(img))
	assert.Equal(t, StateSelected, w.State())

	octet := pngFile(t, 4, 4)
	octet.Type = "application/octet-stream"
	a := NewWidget(KindAudio, &fakePresigner{})
	var verr *ValidationError
	assert.ErrorAs(t, a.Select(octet), &verr)
}

func TestUploadPresignFailure(t *testing.T) {
	storage := newStorageServer(t, http.StatusOK)
	w := NewWidget(KindAudio, &fakePresigner{err: errors.New("backend down")}, WithAudioProber(fixedProber{}))
	require.NoError(t, w.Select(audioFile(16)))

	_, err := w.Upload(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, err, w.Err())
	assert.Zero(t, storage.calls.Load())
}

func TestUploadStorageRejects(t *testing.T) {
	storage := newStorageServer(t, http.StatusForbidden)
	called := false
	w := NewWidget(KindAudio, &fakePresigner{target: storage.URL},
		WithAudioProber(fixedProber{}),
		WithOnComplete(func(Result) { called = true }),
	)
	require.NoError(t, w.Select(audioFile(16)))

	_, err := w.Upload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, StateFailed, w.State())
	assert.Nil(t, w.Result())
	assert.False(t, called)
}

func TestUploadWithoutSelection(t *testing.T) {
	w := NewWidget(KindAudio, &fakePresigner{})
	_, err := w.Upload(context.Background())
	assert.ErrorIs(t, err, ErrNoFile)
	assert.Equal(t, StateIdle, w.State())
}

func TestRemove(t *testing.T) {
	storage := newStorageServer(t, http.StatusOK)
	w := NewWidget(KindAudio, &fakePresigner{target: storage.URL}, WithAudioProber(fixedProber{}))

	require.NoError(t, w.Select(audioFile(16)))
	require.NoError(t, w.Remove())
	assert.Equal(t, StateIdle, w.State())

	require.NoError(t, w.Select(audioFile(16)))
	_, err := w.Upload(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.Remove())
	assert.Equal(t, StateIdle, w.State())
	assert.Nil(t, w.Result())

	w.state = StateUploading
	assert.ErrorIs(t, w.Remove(), ErrBusy)
	assert.ErrorIs(t, w.Select(audioFile(16)), ErrBusy)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uploading", StateUploading.String())
	assert.Equal(t, "State(9)", State(9).String())
}
