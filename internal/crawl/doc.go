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

// Package crawl drives an incremental harvest of a dependents listing.
//
// The Controller is a sequential state machine. A run enters through exactly
// one of two states - a fresh start wipes the store, a resume repositions
// the fetcher from the last persisted record's backward page link - and then
// iterates the page loop: extract the page's records, filter them against
// the store, stamp them with the page's previous-page link, persist, and
// follow the next-page link until the listing's boundary.
//
// Persistence happens per page, so interrupting a harvest loses at most the
// page currently in flight; everything already persisted survives and a
// later resume picks up from the page the run stopped on without re-storing
// records it already holds.
package crawl
