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

package github

import "context"

// Client defines the interface for the target preflight check.
// This interface allows for easy mocking in tests.
type Client interface {
	// RepositoryInfo retrieves basic metadata for owner/repo, failing with a
	// sentinel error when the repository is missing or the token is invalid.
	RepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error)
}

// RepositoryInfo contains basic metadata about a harvest target.
type RepositoryInfo struct {
	// NameWithOwner is the canonical "owner/repo" name, which may differ in
	// casing from what the operator typed.
	NameWithOwner string
	Stars         int
	Forks         int
}
