// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/simonhull/audiometa"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// AudioProber reports the playback duration of an audio file.
type AudioProber interface {
	Duration(ctx context.Context, f *File) (time.Duration, error)
}

// MetadataProber reads the duration from the container metadata.
type MetadataProber struct{}

// Duration parses the file with audiometa. Content that is not already a
// file on disk is spooled to a temporary file first.
func (MetadataProber) Duration(ctx context.Context, f *File) (time.Duration, error) {
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("rewind: %w", err)
	}

	path, cleanup, err := onDisk(f)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	file, err := audiometa.OpenContext(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close() //nolint:errcheck // read-only

	return file.Audio.Duration, nil
}

// onDisk returns a path holding the file content.
func onDisk(f *File) (string, func(), error) {
	if osFile, ok := f.Content.(*os.File); ok {
		return osFile.Name(), func() {}, nil
	}

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(f.Name))
	if err != nil {
		return "", nil, fmt.Errorf("spool audio: %w", err)
	}
	cleanup := func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}
	if _, err := io.Copy(tmp, f.Content); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("spool audio: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// imageDimensions decodes only the image header.
func imageDimensions(r io.ReadSeeker) (int, int, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
