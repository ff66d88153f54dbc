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

// Package metadata provides functionality for tracking and persisting
// metadata about harvest runs. It records how many pages were fetched, how
// many rows tokenized or were skipped, and how deduplication affected each
// persist, then writes the summary as a JSON file next to the record store
// it describes.
//
// Metadata is advisory: a failure to write it never fails a harvest whose
// records are already safely persisted.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Tracker collects statistics during a harvest run. Create one at the start
// of a run and call its methods as pages are processed; it is not safe for
// concurrent use, matching the strictly sequential page loop.
type Tracker struct {
	startTime          time.Time
	pagesFetched       int
	rowsMatched        int
	rowsSkipped        int
	recordsAppended    int
	duplicatesFiltered int
}

// New creates a tracker initialized with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// PageFetched records that one listing page was processed.
func (t *Tracker) PageFetched() {
	t.pagesFetched++
}

// RowsExtracted records the extraction outcome for one page: matched rows
// became records, skipped rows failed to tokenize.
func (t *Tracker) RowsExtracted(matched, skipped int) {
	t.rowsMatched += matched
	t.rowsSkipped += skipped
}

// RecordsPersisted records the deduplication outcome of one persist call.
func (t *Tracker) RecordsPersisted(appended, duplicates int) {
	t.recordsAppended += appended
	t.duplicatesFiltered += duplicates
}

// Generate creates a HarvestMetadata instance capturing the run's
// statistics. finalState is the controller state the run ended in.
func (t *Tracker) Generate(toolVersion string, params HarvestParams, finalState string) *HarvestMetadata {
	completedAt := time.Now()

	return &HarvestMetadata{
		ToolVersion: toolVersion,
		HarvestID:   fmt.Sprintf("harvest-%d", t.startTime.Unix()),
		Parameters:  params,
		Results: HarvestResults{
			PagesFetched:       t.pagesFetched,
			RowsMatched:        t.rowsMatched,
			RowsSkipped:        t.rowsSkipped,
			RecordsAppended:    t.recordsAppended,
			DuplicatesFiltered: t.duplicatesFiltered,
			FinalState:         finalState,
			StartedAt:          t.startTime,
			CompletedAt:        completedAt,
			Duration:           completedAt.Sub(t.startTime).String(),
		},
	}
}

// PathFor derives the metadata file path for a record store: the store path
// with its .json suffix replaced by .meta.json, so the summary always sits
// next to the data it describes.
func PathFor(storePath string) string {
	return strings.TrimSuffix(storePath, ".json") + ".meta.json"
}

// Save persists a HarvestMetadata record alongside the record store at
// storePath, under the name PathFor derives. Each run overwrites the
// previous summary for the same store. The file is written atomically using
// a temporary file and rename to prevent corruption.
func Save(md *HarvestMetadata, storePath string) error {
	path := PathFor(storePath)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(md); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}
