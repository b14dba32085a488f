package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when the named document does not exist.
var ErrNotFound = errors.New("store: document not found")

// ErrNotSaved is returned by Update when the rewritten document could not be
// written. The failure itself has already been logged.
var ErrNotSaved = errors.New("store: document not saved")

// ErrUndecodableRecord is returned by UpdateRecords when the stored document
// holds a record that does not decode. Nothing is written.
var ErrUndecodableRecord = errors.New("store: undecodable record")

// Backend persists raw document bytes by name. Implementations can be swapped
// (filesystem, Redis, S3, Postgres) without changing the Store.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Exists(ctx context.Context, name string) (bool, error)
}

// preparer is implemented by backends that need their location created before
// the first write (a data directory, a table).
type preparer interface {
	Prepare(ctx context.Context) error
}
