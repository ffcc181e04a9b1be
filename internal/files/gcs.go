package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *GCSStore) Put(ctx context.Context, folder string, up Upload) (string, error) {
	key := ObjectKey(s.prefix, folder, up.Name, time.Now())

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if up.ContentType != "" {
		w.ContentType = up.ContentType
	}
	if _, err := io.Copy(w, up.Body); err != nil {
		w.Close()
		return "", ErrFileStorage.WithCause(err)
	}
	if err := w.Close(); err != nil {
		return "", ErrFileStorage.WithCause(err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket))
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return ErrFileStorage.WithCause(err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
