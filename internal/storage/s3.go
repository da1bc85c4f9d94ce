// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage issues pre-signed upload targets directly against an
// S3-compatible bucket. It wraps the AWS SDK v2 and is configured for
// path-style access (required by CEPH/Hetzner and MinIO).
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"audiobook-admin/internal/models"
	"audiobook-admin/internal/slug"
)

// UploadExpiry is how long a pre-signed PUT stays valid.
const UploadExpiry = time.Hour

// Client signs uploads for a single bucket.
type Client struct {
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
	now       func() time.Time
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start with the backend presigner instead.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		presigner: s3.NewPresignClient(s3Client),
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// PresignUpload signs a PUT for a new object named after the file. The
// signature covers the content type, so the uploader must send the same
// Content-Type header.
func (c *Client) PresignUpload(ctx context.Context, req models.PresignRequest) (*models.PresignedUpload, error) {
	if req.FileName == "" || req.FileType == "" {
		return nil, fmt.Errorf("storage: file name and type are required")
	}
	key := c.ObjectKey(req.FileType, req.FileName)

	signed, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.FileType),
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return nil, fmt.Errorf("s3 presign %s/%s: %w", c.bucket, key, err)
	}

	return &models.PresignedUpload{
		UploadURL: signed.URL,
		FileURL:   c.FileURL(key),
		ExpiresIn: int(UploadExpiry.Seconds()),
	}, nil
}

// ObjectKey builds a unique key: <audio|image|files>/YYYY/MM/<uuid>-<name>.
func (c *Client) ObjectKey(fileType, fileName string) string {
	prefix := "files"
	switch {
	case strings.HasPrefix(fileType, "audio/"):
		prefix = "audio"
	case strings.HasPrefix(fileType, "image/"):
		prefix = "images"
	}

	ext := strings.ToLower(path.Ext(fileName))
	base := slug.Generate(strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)))
	if base == "" {
		base = "upload"
	}

	return fmt.Sprintf("%s/%s/%s-%s%s", prefix, c.now().UTC().Format("2006/01"), uuid.NewString(), base, ext)
}

// FileURL returns the public URL for an object key.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Bucket returns the bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}
