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

// Package main implements the depscout command-line interface. The tool
// harvests GitHub dependents listings into a deduplicated JSON record store
// that survives interruption and can be resumed.
//
// The CLI supports:
//   - Fresh harvests that start the store over from the listing's first page
//   - Resuming an interrupted harvest with --resume
//   - Mirroring newly harvested records as NDJSON to stdout with --ndjson
//     or to a file with --ndjson-out
//   - An optional API preflight of the target when a token is available
//
// Usage:
//
//	depscout harvest <owner>/<repo> --out <file.json> [flags]
//
// Example:
//
//	depscout harvest gorilla/mux --out mux-dependents.json
//	depscout harvest gorilla/mux --out mux-dependents.json --resume
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Blocked/rate-limited, authentication or target error
//   - 3: Network error
package main
