// Package storage is the object-storage boundary: a byte buffer goes in, a
// durable URL comes out. The local implementation writes under an uploads
// directory served by the HTTP layer; a CDN-backed implementation would slot
// in behind the same interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUpload is the distinct "upload failed" condition the orchestrator maps
// to a storage error.
var ErrUpload = errors.New("object storage upload failed")

type Storage interface {
	// Save persists data and returns an absolute URL the saved object is
	// reachable at. The original filename is only used for its extension.
	Save(ctx context.Context, filename string, data []byte) (string, error)
	// Remove deletes a previously saved object by the URL Save returned.
	Remove(ctx context.Context, url string) error
}

// LocalStorage stores objects on disk with unique names. The base URL must be
// absolute: the extraction pipeline downloads saved objects over HTTP, so a
// relative URL would make every file upload fail.
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrUpload)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	name := uuid.New().String() + filepath.Ext(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.baseURL, name), nil
}

func (s *LocalStorage) Remove(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, path.Base(url))); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
