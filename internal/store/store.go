// Copyright 2026 Depscout Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/depscout/depscout/internal/dependents"
	deperrors "github.com/depscout/depscout/internal/errors"
)

// Store owns the persisted record sequence for one target repository.
// It is the sole writer to the underlying file for the duration of a run.
type Store struct {
	path string
}

// New creates a store backed by the given file path. The file is not touched
// until Initialize, Load or AppendDeduped is called.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path backing the store.
func (s *Store) Path() string {
	return s.path
}

// Load reads and deserializes the full persisted record sequence. A missing
// file or invalid content wraps errors.ErrStoreCorrupt.
func (s *Store) Load() ([]dependents.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot read store file %s (%v): %w", s.path, err, deperrors.ErrStoreCorrupt)
	}
	var records []dependents.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store file %s is not a valid record array (%v): %w", s.path, err, deperrors.ErrStoreCorrupt)
	}
	return records, nil
}

// Last returns the most recently persisted record. An empty store wraps
// errors.ErrStoreEmpty; this is what makes resuming on a fresh store fail
// fast instead of crawling blind.
func (s *Store) Last() (dependents.Record, error) {
	records, err := s.Load()
	if err != nil {
		return dependents.Record{}, err
	}
	if len(records) == 0 {
		return dependents.Record{}, fmt.Errorf("store file %s holds no records: %w", s.path, deperrors.ErrStoreEmpty)
	}
	return records[len(records)-1], nil
}

// Initialize writes an empty record sequence, unconditionally discarding any
// existing content. Only a fresh (non-resumed) harvest may call this.
func (s *Store) Initialize() error {
	return s.writeAll([]dependents.Record{})
}

// FilterNew returns the subset of batch not already present in the store,
// preserving batch order. Presence is structural equality across all record
// fields, including the backward page link.
func (s *Store) FilterNew(batch []dependents.Record) ([]dependents.Record, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	return filterAgainst(existing, batch), nil
}

// AppendDeduped persists batch, minus any records already present, by
// rewriting the whole file. It returns the records that were actually
// appended. Appending an already-persisted batch is a no-op.
func (s *Store) AppendDeduped(batch []dependents.Record) ([]dependents.Record, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}
	fresh := filterAgainst(existing, batch)
	if err := s.writeAll(append(existing, fresh...)); err != nil {
		return nil, err
	}
	return fresh, nil
}

func filterAgainst(existing, batch []dependents.Record) []dependents.Record {
	fresh := make([]dependents.Record, 0, len(batch))
	for _, rec := range batch {
		if !contains(existing, rec) {
			fresh = append(fresh, rec)
		}
	}
	return fresh
}

func contains(records []dependents.Record, rec dependents.Record) bool {
	for _, r := range records {
		if r.Equal(rec) {
			return true
		}
	}
	return false
}

// writeAll serializes records and replaces the store file atomically using a
// write-to-temp-and-rename pattern. The temp file is synced before the
// rename so a crash cannot surface a truncated store.
func (s *Store) writeAll(records []dependents.Record) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}

	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
