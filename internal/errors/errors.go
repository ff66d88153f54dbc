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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrPageBlocked indicates the dependents listing did not render its
	// entries container, which is how GitHub serves rate-limit and abuse
	// interstitials. Re-running later with --resume is the expected recovery.
	// Maps to exit code 2.
	ErrPageBlocked = errors.New("dependents page blocked or rate limited")

	// ErrNavigation indicates the pagination controls of a listing page
	// could not be located, so the crawl cannot decide whether another page
	// exists. Usually a sign the page markup changed.
	// Maps to exit code 1.
	ErrNavigation = errors.New("pagination controls not found")

	// ErrStoreCorrupt indicates the persisted record store could not be read
	// or does not contain a valid JSON record array.
	// Maps to exit code 1.
	ErrStoreCorrupt = errors.New("record store corrupt or missing")

	// ErrStoreEmpty indicates a resume was requested but the record store
	// holds no records to resume from.
	// Maps to exit code 1.
	ErrStoreEmpty = errors.New("record store is empty")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the target repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")
)
