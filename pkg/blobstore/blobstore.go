package blobstore

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the storage backend could not be reached.
var ErrUnavailable = errors.New("blob store unavailable")

// ErrNotFound indicates the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Store abstracts the content-addressed evidence store. Keys are opaque paths;
// callers are responsible for checksumming the bytes they hand in.
type Store interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}
