package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps uploads in a directory that the router serves statically.
type LocalStore struct {
	dir     string
	urlPath string
}

// NewLocalStore creates dir when missing.
func NewLocalStore(dir, urlPath string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	urlPath = "/" + strings.Trim(urlPath, "/")
	return &LocalStore{dir: dir, urlPath: urlPath}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPath returns the route prefix uploads are served under.
func (s *LocalStore) URLPath() string {
	return s.urlPath
}

func (s *LocalStore) Put(_ context.Context, name string, body io.Reader, _ string, _ int64) (string, error) {
	target, err := s.path(name)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ErrObjectExists
		}
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return s.PublicURL(name), nil
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	target, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) PublicURL(name string) string {
	return path.Join(s.urlPath, name)
}

// path 拒绝包含目录分隔符的名称，避免写出上传目录。
func (s *LocalStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
