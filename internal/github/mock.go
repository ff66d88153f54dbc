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

import (
	"context"
	"fmt"

	deperrors "github.com/depscout/depscout/internal/errors"
)

// MockClient is a mock implementation of the preflight Client interface for testing.
type MockClient struct {
	// Info to return on success
	Info *RepositoryInfo

	// Errors to return, consumed one per call; when exhausted, Info is returned.
	Errors []error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
}

// RepositoryInfo implements the Client interface
func (m *MockClient) RepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", deperrors.ErrInvalidToken)
	}
	if m.ShouldFailNotFound {
		return nil, fmt.Errorf("repository not found: %w", deperrors.ErrRepoNotFound)
	}

	if len(m.Errors) > 0 {
		err := m.Errors[0]
		m.Errors = m.Errors[1:]
		if err != nil {
			return nil, err
		}
	}

	if m.Info != nil {
		return m.Info, nil
	}
	return &RepositoryInfo{NameWithOwner: owner + "/" + repo}, nil
}
