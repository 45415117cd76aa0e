package storage

import (
	"context"
	"io"
)

// Storage keeps published post snapshots outside the database.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NoopStorage discards uploads. It is used when no bucket is configured.
type NoopStorage struct{}

func (NoopStorage) Upload(_ context.Context, _ string, body io.Reader, _ string) error {
	_, err := io.Copy(io.Discard, body)
	return err
}

func (NoopStorage) Exists(context.Context, string) (bool, error) {
	return false, nil
}

var _ Storage = NoopStorage{}
