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

// Package store persists harvested dependent records for one target
// repository as a single JSON array file.
//
// The store is append-only from the crawl's point of view but every persist
// rewrites the whole file: AppendDeduped loads the current sequence, filters
// the incoming batch against it by structural record equality, and writes the
// concatenation back atomically using a write-to-temp-and-rename pattern so a
// crash never leaves a half-written store behind.
//
// Deduplication compares every field of a record, including the backward
// page link, and scans the full persisted sequence per incoming record. The
// store assumes a single writer; concurrent harvests against the same file
// are not supported.
package store
