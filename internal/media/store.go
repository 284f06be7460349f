// Package media stores uploaded article images and videos on local disk.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is the class of an uploaded file.
type Kind string

const (
	KindImage Kind = "images"
	KindVideo Kind = "videos"
)

var (
	// ErrUnsupportedType is returned for file extensions outside the allow list.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned when an upload exceeds its size limit.
	ErrTooLarge = errors.New("file too large")
)

var allowedExtensions = map[Kind]map[string]bool{
	KindImage: {".jpg": true, ".jpeg": true, ".png": true, ".gif": true},
	KindVideo: {".mp4": true, ".mov": true, ".avi": true, ".webm": true},
}

// Store writes uploads under a root directory and returns their public URL.
type Store interface {
	Save(ctx context.Context, kind Kind, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// LocalStore is a Store backed by the local filesystem.
type LocalStore struct {
	root    string
	baseURL string
	limits  map[Kind]int64
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates a LocalStore. baseURL is the public prefix the files are served under.
func NewLocalStore(root, baseURL string, maxImage, maxVideo int64) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		limits:  map[Kind]int64{KindImage: maxImage, KindVideo: maxVideo},
	}
}

// Save copies r to a new file named after a random id, keeping the original extension.
func (s *LocalStore) Save(ctx context.Context, kind Kind, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[kind][ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	limit := s.limits[kind]
	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > limit {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}

	return s.baseURL + "/" + string(kind) + "/" + name, nil
}

// Delete removes a file previously returned by Save. URLs outside the store are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}
