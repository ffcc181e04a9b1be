package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore writes uploads below a base directory.
type LocalStore struct {
	baseDir string
	prefix  string
}

func NewLocalStore(baseDir, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir, prefix: prefix}, nil
}

func (s *LocalStore) Put(ctx context.Context, folder string, up Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := ObjectKey(s.prefix, folder, up.Name, time.Now())
	full := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", ErrFileStorage.WithCause(err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", ErrFileStorage.WithCause(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, up.Body); err != nil {
		return "", ErrFileStorage.WithCause(err)
	}
	return key, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(path.Clean("/"+ref)))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return ErrFileStorage.WithCause(err)
	}
	return nil
}
