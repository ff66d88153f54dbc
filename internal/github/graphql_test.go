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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	deperrors "github.com/depscout/depscout/internal/errors"
)

func TestGraphQLClient_RepositoryInfo(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"repository":{"nameWithOwner":"Acme/Widget","stargazerCount":1204,"forkCount":88}}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewGraphQLClient("test-token", srv.URL)
	info, err := client.RepositoryInfo(context.Background(), "acme", "widget")
	if err != nil {
		t.Fatalf("RepositoryInfo failed: %v", err)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want Bearer test-token", gotAuth)
	}
	if info.NameWithOwner != "Acme/Widget" {
		t.Errorf("NameWithOwner = %q, want the canonical casing Acme/Widget", info.NameWithOwner)
	}
	if info.Stars != 1204 || info.Forks != 88 {
		t.Errorf("stars/forks = %d/%d, want 1204/88", info.Stars, info.Forks)
	}
}

func TestGraphQLClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "repository not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"errors":[{"message":"Could not resolve to a Repository with the name 'acme/gone'."}]}`)
			},
			wantErr: deperrors.ErrRepoNotFound,
		},
		{
			name: "bad credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
			},
			wantErr: deperrors.ErrInvalidToken,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"errors":[{"message":"API rate limit exceeded for user."}]}`)
			},
			wantErr: deperrors.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			client := NewGraphQLClient("test-token", srv.URL)
			_, err := client.RepositoryInfo(context.Background(), "acme", "gone")
			if err == nil {
				t.Fatal("RepositoryInfo should fail")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got: %v", tt.wantErr, err)
			}
		})
	}
}
