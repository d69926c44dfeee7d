package storage

import (
	"context"
	"errors"
)

// Well-known keys used by the session subsystem.
const (
	// UserKey holds the persisted user blob (JSON).
	UserKey = "user"
	// TokenKey holds the raw bearer token string.
	TokenKey = "token"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("storage key not found")

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("storage unavailable")

// Storage is a small durable key/value store. Implementations must be safe
// for concurrent use. Delete on a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
