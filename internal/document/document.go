// Package document retrieves stored résumé files and prepares them for
// transport to a model provider.
package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// Fetch errors. A missing storage path is a precondition failure and is
// never retried; a failed download fails the candidate immediately.
var (
	ErrNoStoragePath  = errors.New("candidate has no storage path")
	ErrDownloadFailed = errors.New("resume download failed")
)

// Downloader abstracts the blob store read.
type Downloader interface {
	Download(ctx context.Context, path string) ([]byte, error)
}

// Payload is a résumé ready for inline transmission to a model provider.
// Base64 carries the raw bytes for providers that accept inline documents;
// Text carries extracted plain text for providers that do not.
type Payload struct {
	Filename string
	MIMEType string
	Base64   string
	Text     string
}

// Fetcher downloads résumé files and encodes them for model calls.
type Fetcher struct {
	store Downloader
}

// NewFetcher creates a Fetcher over the given blob store.
func NewFetcher(store Downloader) *Fetcher {
	return &Fetcher{store: store}
}

// FetchEncoded downloads the file at path and returns its base64 payload
// with any data-URI header stripped.
func (f *Fetcher) FetchEncoded(ctx context.Context, path, filename string) (*Payload, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoStoragePath
	}

	data, err := f.store.Download(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDownloadFailed, path, err)
	}

	return &Payload{
		Filename: filename,
		MIMEType: docconv.MimeTypeByExtension(filename),
		Base64:   EncodeBase64(data),
	}, nil
}

// EncodeBase64 converts raw file bytes to a bare base64 string. Blobs that
// were stored as data URIs keep only the encoded span.
func EncodeBase64(data []byte) string {
	if s, ok := stripDataURI(data); ok {
		return s
	}
	return base64.StdEncoding.EncodeToString(data)
}

// stripDataURI returns the base64 span of a "data:<mime>;base64,<data>"
// payload, if data holds one.
func stripDataURI(data []byte) (string, bool) {
	if !bytes.HasPrefix(data, []byte("data:")) {
		return "", false
	}
	idx := bytes.Index(data, []byte(";base64,"))
	if idx < 0 {
		return "", false
	}
	return string(data[idx+len(";base64,"):]), true
}

// ExtractText converts résumé bytes to plain text. Used at upload time for
// search and for text-only model providers.
func ExtractText(filename string, data []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(data), docconv.MimeTypeByExtension(filename), true)
	if err != nil {
		return "", fmt.Errorf("extract text from %s: %w", filename, err)
	}
	return strings.TrimSpace(res.Body), nil
}
