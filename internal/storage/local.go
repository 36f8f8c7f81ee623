package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resumetwin/internal/errors"
)

// LocalStore keeps objects as files below a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates dir if needed and returns a store rooted there.
func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, fmt.Sprintf("invalid storage dir %q", dir), err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, errors.NewStorageError(errors.ErrCodeStorageFailed, fmt.Sprintf("cannot create storage dir %s", abs), err)
	}
	return &LocalStore{root: abs}, nil
}

// Root returns the absolute directory backing the store.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return storageFailed("write", key, err)
	}

	// each writer gets its own temp file; the rename is the commit point
	tmp, err := os.CreateTemp(filepath.Dir(p), filepath.Base(p)+".*.tmp")
	if err != nil {
		return storageFailed("write", key, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return storageFailed("write", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return storageFailed("write", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return storageFailed("write", key, err)
	}
	return nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(key, err)
		}
		return nil, storageFailed("read", key, err)
	}
	return data, nil
}

func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storageFailed("stat", key, err)
	}
	return !info.IsDir(), nil
}

// resolve maps key to a path, rejecting keys that escape the root.
func (s *LocalStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, "empty object key", nil)
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid object key %q", key), nil)
	}
	return p, nil
}
