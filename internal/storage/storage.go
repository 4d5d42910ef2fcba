// Package storage wraps the Supabase storage API for résumé files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	storage_go "github.com/supabase-community/storage-go"
)

// Client handles résumé blob reads and writes against a single bucket.
type Client struct {
	api    *storage_go.Client
	bucket string
}

// New creates a storage client. URL and key are validated up front so a
// missing credential fails at startup, not on the first download.
func New(url, key, bucket string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("storage url is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("storage key is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage bucket is required")
	}

	return &Client{
		api:    storage_go.NewClient(url, key, nil),
		bucket: bucket,
	}, nil
}

// Download reads the object at path.
// The underlying client does not take a context; ctx only guards the call
// boundary for callers that already gave up.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := c.api.DownloadFile(c.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	return data, nil
}

// Upload stores data at path and returns the stored path.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	_, err := c.api.UploadFile(c.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	return path, nil
}

// SignedURL returns a time-limited read URL for human-facing preview.
func (c *Client) SignedURL(path string, expiresInSec int) (string, error) {
	resp, err := c.api.CreateSignedUrl(c.bucket, path, expiresInSec)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", path, err)
	}
	return resp.SignedURL, nil
}
