// Package store reads and writes the hospital's named JSON documents. Every
// document is a JSON array of records.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Well-known document names.
const (
	Patients     = "patients"
	Staff        = "staff"
	Inventory    = "inventory"
	Appointments = "appointments"
)

// Documents lists the documents EnsureDocuments creates.
var Documents = []string{Patients, Staff, Inventory, Appointments}

var emptyDocument = []byte("[]")

// Store loads and saves documents through a Backend.
type Store struct {
	backend Backend
	logger  *logging.Logger
	mu      sync.Mutex
}

// New creates a Store over backend.
func New(backend Backend, logger *logging.Logger) *Store {
	if backend == nil {
		panic("store: backend required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// EnsureDocuments prepares the backend and creates an empty array for every
// well-known document that does not exist yet. Safe to call repeatedly.
func (s *Store) EnsureDocuments(ctx context.Context) error {
	if p, ok := s.backend.(preparer); ok {
		if err := p.Prepare(ctx); err != nil {
			return fmt.Errorf("store: prepare backend: %w", err)
		}
	}
	for _, name := range Documents {
		exists, err := s.backend.Exists(ctx, name)
		if err != nil {
			return fmt.Errorf("store: check %s: %w", name, err)
		}
		if exists {
			s.logger.Debug("store: found existing document", "document", name)
			continue
		}
		if err := s.backend.Write(ctx, name, emptyDocument); err != nil {
			return fmt.Errorf("store: create %s: %w", name, err)
		}
		s.logger.Info("store: created document", "document", name)
	}
	return nil
}

// Load returns the records of the named document. A missing or unparseable
// document yields an empty sequence; Load never fails.
func (s *Store) Load(ctx context.Context, name string) []json.RawMessage {
	data, err := s.backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("store: document missing, using empty", "document", name)
		} else {
			s.logger.Warn("store: read failed, using empty", "document", name, "error", err)
		}
		return []json.RawMessage{}
	}
	return s.decode(name, data)
}

// Save overwrites the named document with records encoded as an indented JSON
// array. A failure is logged and reported as false; the caller's in-memory copy
// may then disagree with the stored one.
func (s *Store) Save(ctx context.Context, name string, records any) bool {
	data, err := encode(records)
	if err != nil {
		s.logger.Error("store: encode failed", "document", name, "error", err)
		return false
	}
	if err := s.backend.Write(ctx, name, data); err != nil {
		s.logger.Error("store: save failed", "document", name, "error", err)
		return false
	}
	return true
}

// Update runs a read-modify-write of one document while holding the store's
// lock. fn receives the current records and returns the replacement. Nothing
// is written when fn returns an error.
func (s *Store) Update(ctx context.Context, name string, fn func(records []json.RawMessage) ([]json.RawMessage, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.Load(ctx, name))
	if err != nil {
		return err
	}
	if next == nil {
		next = []json.RawMessage{}
	}
	if !s.Save(ctx, name, next) {
		return fmt.Errorf("%w: %s", ErrNotSaved, name)
	}
	return nil
}

func (s *Store) decode(name string, data []byte) []json.RawMessage {
	if len(bytes.TrimSpace(data)) == 0 {
		return []json.RawMessage{}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("store: document is not a JSON array, using empty", "document", name, "error", err)
		return []json.RawMessage{}
	}
	if records == nil {
		return []json.RawMessage{}
	}
	return records
}

func encode(records any) ([]byte, error) {
	if records == nil {
		return emptyDocument, nil
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, []byte("null")) {
		return emptyDocument, nil
	}
	return data, nil
}

// LoadRecords decodes every record of the named document into T. Records that
// do not decode are logged and skipped.
func LoadRecords[T any](ctx context.Context, s *Store, name string) []T {
	raw := s.Load(ctx, name)
	out := make([]T, 0, len(raw))
	for i, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			s.logger.Warn("store: skipping undecodable record", "document", name, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// UpdateRecords is Update over typed records. A record that does not decode
// aborts the update with ErrUndecodableRecord rather than being dropped from
// the rewritten document.
func UpdateRecords[T any](ctx context.Context, s *Store, name string, fn func(records []T) ([]T, error)) error {
	return s.Update(ctx, name, func(raw []json.RawMessage) ([]json.RawMessage, error) {
		records := make([]T, 0, len(raw))
		for i, r := range raw {
			var v T
			if err := json.Unmarshal(r, &v); err != nil {
				s.logger.Error("store: refusing to rewrite document with undecodable record", "document", name, "index", i, "error", err)
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrUndecodableRecord, name, i, err)
			}
			records = append(records, v)
		}
		next, err := fn(records)
		if err != nil {
			return nil, err
		}
		out := make([]json.RawMessage, 0, len(next))
		for _, v := range next {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("store: encode record: %w", err)
			}
			out = append(out, data)
		}
		return out, nil
	})
}
