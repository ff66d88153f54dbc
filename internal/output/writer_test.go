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

package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/depscout/depscout/internal/dependents"
)

var _ RecordWriter = (*Writer)(nil)

func TestWriter_StreamsNDJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	link := "https://github.test/acme/widget/network/dependents"
	records := []dependents.Record{
		{Owner: "alice", Repo: "api", Stars: 10, Forks: 2},
		{Owner: "bob", Repo: "cli", Stars: 3, Forks: 1, PreviousPageURL: &link},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first dependents.Record
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if !first.Equal(records[0]) {
		t.Errorf("line 0 round-tripped to %+v, want %+v", first, records[0])
	}

	// The backward link serializes under its dedicated key, null when absent.
	if !strings.Contains(lines[0], `"previousGithubDependentsPageUrl":null`) {
		t.Errorf("line 0 = %s, want a null backward link", lines[0])
	}
	if !strings.Contains(lines[1], `"previousGithubDependentsPageUrl":"`+link+`"`) {
		t.Errorf("line 1 = %s, want the backward link inline", lines[1])
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.ndjson")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}

	if err := w.Write(dependents.Record{Owner: "alice", Repo: "api", Stars: 1}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file failed: %v", err)
	}
	var rec dependents.Record
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if rec.FullName() != "alice/api" {
		t.Errorf("record = %s, want alice/api", rec.FullName())
	}
}
