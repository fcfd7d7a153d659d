// Package backend holds the durable media a collection can live on. Every
// backend stores one opaque encoded unit per collection name; the store
// above decides what the bytes mean.
package backend

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotExist is returned by Read when nothing was ever written under the name.
	ErrNotExist = errors.New("collection not persisted")
	// ErrInvalidName rejects names that cannot be used as a file or key name.
	ErrInvalidName = errors.New("invalid collection name")
)

// Backend reads and writes whole encoded collections.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	// Ping reports whether the medium is reachable (used by /ready).
	Ping(ctx context.Context) error
	Close() error
}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
