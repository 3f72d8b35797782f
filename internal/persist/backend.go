// Package persist mirrors the store to durable storage. A Backend is a
// key/value blob store in the spirit of browser local storage; the Persister
// subscribes to the store and rewrites the blob after every mutation.
package persist

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when nothing is stored under a key.
var ErrNotFound = errors.New("persist: key not found")

type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, blob []byte) error
}
