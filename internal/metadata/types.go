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

// Package metadata types define the structures used for tracking and
// persisting information about harvest runs.
package metadata

import (
	"time"
)

// HarvestMetadata represents the complete metadata record for a single
// harvest run. It captures what was harvested, how, and with what outcome,
// providing an audit trail and troubleshooting context.
type HarvestMetadata struct {
	ToolVersion string         `json:"tool_version"`
	HarvestID   string         `json:"harvest_id"`
	Parameters  HarvestParams  `json:"parameters"`
	Results     HarvestResults `json:"results"`
}

// HarvestParams captures the input parameters used for a harvest run.
type HarvestParams struct {
	Target    string `json:"target"`
	StoreFile string `json:"store_file"`
	Resume    bool   `json:"resume"`
}

// HarvestResults contains statistics about a completed or aborted harvest:
// page and row counts, deduplication effect, timing, and the controller
// state the run ended in ("done" or "aborted").
type HarvestResults struct {
	PagesFetched       int       `json:"pages_fetched"`
	RowsMatched        int       `json:"rows_matched"`
	RowsSkipped        int       `json:"rows_skipped"`
	RecordsAppended    int       `json:"records_appended"`
	DuplicatesFiltered int       `json:"duplicates_filtered"`
	FinalState         string    `json:"final_state"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	Duration           string    `json:"duration"`
}
