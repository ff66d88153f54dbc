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

package crawl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/depscout/depscout/internal/dependents"
	deperrors "github.com/depscout/depscout/internal/errors"
	"github.com/depscout/depscout/internal/store"
	"github.com/depscout/depscout/test/testutil"
)

const (
	page1URL = "https://github.test/acme/widget/network/dependents"
	page2URL = "https://github.test/acme/widget/network/dependents?after=p2"
	page3URL = "https://github.test/acme/widget/network/dependents?after=p3"
)

// fakeFetcher serves synthetic listing pages by URL and records every
// navigation so tests can assert the visiting order.
type fakeFetcher struct {
	t       *testing.T
	pages   map[string]testutil.ListingPage
	current *dependents.Page
	visits  []string
}

func newFakeFetcher(t *testing.T, pages map[string]testutil.ListingPage) *fakeFetcher {
	return &fakeFetcher{t: t, pages: pages}
}

func (f *fakeFetcher) NavigateTo(_ context.Context, pageURL string) error {
	listing, ok := f.pages[pageURL]
	if !ok {
		return fmt.Errorf("no listing page at %s: %w", pageURL, deperrors.ErrNavigation)
	}
	f.visits = append(f.visits, pageURL)
	f.current = testutil.Page(f.t, pageURL, listing)
	return nil
}

func (f *fakeFetcher) CurrentPage() (*dependents.Page, error) {
	if f.current == nil {
		return nil, fmt.Errorf("fetcher has no current page")
	}
	return f.current, nil
}

func twoPageListing() map[string]testutil.ListingPage {
	return map[string]testutil.ListingPage{
		page1URL: {
			Rows: []testutil.Row{
				{Owner: "alice", Repo: "api", Stars: "10", Forks: "2"},
				{Owner: "bob", Repo: "cli", Stars: "3", Forks: "1"},
				{Owner: "carol", Repo: "lib", Stars: "1,204", Forks: "88"},
			},
			PrevDisabled: true,
			NextURL:      page2URL,
		},
		page2URL: {
			Rows: []testutil.Row{
				{Owner: "dave", Repo: "svc", Stars: "7", Forks: "0"},
				{Owner: "erin", Repo: "tool", Stars: "42", Forks: "5"},
			},
			PrevURL:      page1URL,
			NextDisabled: true,
		},
	}
}

func newTestController(t *testing.T, pages map[string]testutil.ListingPage) (*Controller, *fakeFetcher, *store.Store) {
	t.Helper()
	f := newFakeFetcher(t, pages)
	s := store.New(filepath.Join(t.TempDir(), "dependents.json"))
	return New(f, s), f, s
}

func TestRun_TwoPages(t *testing.T) {
	ctrl, f, s := newTestController(t, twoPageListing())

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	if err := ctrl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if ctrl.State() != StateDone {
		t.Errorf("state = %s, want %s", ctrl.State(), StateDone)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}

	// First-page records carry no backward link; later pages carry the URL
	// of the page before them.
	for i := 0; i < 3; i++ {
		if records[i].PreviousPageURL != nil {
			t.Errorf("record %d (%s): first-page record should have no backward link, got %q",
				i, records[i].FullName(), *records[i].PreviousPageURL)
		}
	}
	for i := 3; i < 5; i++ {
		if records[i].PreviousPageURL == nil || *records[i].PreviousPageURL != page1URL {
			t.Errorf("record %d (%s): backward link = %v, want %q",
				i, records[i].FullName(), records[i].PreviousPageURL, page1URL)
		}
	}

	if records[2].FullName() != "carol/lib" || records[2].Stars != 1204 {
		t.Errorf("record 2 = %+v, want carol/lib with 1204 stars", records[2])
	}
	if records[4].FullName() != "erin/tool" {
		t.Errorf("record 4 = %s, want erin/tool", records[4].FullName())
	}
}

func TestRun_DiscardsExistingStore(t *testing.T) {
	ctrl, f, s := newTestController(t, twoPageListing())

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := s.AppendDeduped([]dependents.Record{{Owner: "stale", Repo: "leftover", Stars: 99}}); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	if err := ctrl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, rec := range records {
		if rec.FullName() == "stale/leftover" {
			t.Error("fresh start must discard previously persisted records")
		}
	}
	if len(records) != 5 {
		t.Errorf("got %d records, want 5", len(records))
	}
}

func TestResume_ContinuesAfterLinkedPage(t *testing.T) {
	pages := twoPageListing()
	pages[page2URL] = testutil.ListingPage{
		Rows: []testutil.Row{
			{Owner: "dave", Repo: "svc", Stars: "7", Forks: "0"},
			{Owner: "erin", Repo: "tool", Stars: "42", Forks: "5"},
		},
		PrevURL: page1URL,
		NextURL: page3URL,
	}
	pages[page3URL] = testutil.ListingPage{
		Rows: []testutil.Row{
			{Owner: "frank", Repo: "proxy", Stars: "2", Forks: "0"},
		},
		PrevURL:      page2URL,
		NextDisabled: true,
	}

	ctrl, f, s := newTestController(t, pages)

	// Simulate an interruption right after page 2 was persisted: the last
	// record's backward link names page 1.
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	link := page1URL
	seed := []dependents.Record{
		{Owner: "alice", Repo: "api", Stars: 10, Forks: 2},
		{Owner: "bob", Repo: "cli", Stars: 3, Forks: 1},
		{Owner: "carol", Repo: "lib", Stars: 1204, Forks: 88},
		{Owner: "dave", Repo: "svc", Stars: 7, Forks: 0, PreviousPageURL: &link},
		{Owner: "erin", Repo: "tool", Stars: 42, Forks: 5, PreviousPageURL: &link},
	}
	if _, err := s.AppendDeduped(seed); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	if err := ctrl.Resume(context.Background()); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if ctrl.State() != StateDone {
		t.Errorf("state = %s, want %s", ctrl.State(), StateDone)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records, want 6 (5 seeded + 1 from page 3)", len(records))
	}
	last := records[len(records)-1]
	if last.FullName() != "frank/proxy" {
		t.Errorf("last record = %s, want frank/proxy", last.FullName())
	}
	if last.PreviousPageURL == nil || *last.PreviousPageURL != page2URL {
		t.Errorf("page-3 record backward link = %v, want %q", last.PreviousPageURL, page2URL)
	}

	// Resuming must not revisit page 1's content beyond the reposition hop:
	// the loop restarts at page 2, whose records dedup away.
	want := []string{page1URL, page1URL, page2URL, page3URL}
	if len(f.visits) != len(want) {
		t.Fatalf("visits = %v, want %v", f.visits, want)
	}
	for i := range want {
		if f.visits[i] != want[i] {
			t.Fatalf("visits = %v, want %v", f.visits, want)
		}
	}
}

func TestResume_AlreadyComplete(t *testing.T) {
	// The last record's backward link points at a page with no successor:
	// everything was harvested before the interruption.
	pages := map[string]testutil.ListingPage{
		page1URL: {
			Rows:         []testutil.Row{{Owner: "alice", Repo: "api", Stars: "10", Forks: "2"}},
			PrevDisabled: true,
			NextDisabled: true,
		},
	}
	ctrl, f, s := newTestController(t, pages)

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	link := page1URL
	if _, err := s.AppendDeduped([]dependents.Record{
		{Owner: "zoe", Repo: "final", Stars: 1, PreviousPageURL: &link},
	}); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	if err := ctrl.Resume(context.Background()); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if ctrl.State() != StateDone {
		t.Errorf("state = %s, want %s", ctrl.State(), StateDone)
	}

	records, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("a completed harvest must not gain records on resume, got %d", len(records))
	}
}

func TestResume_EmptyStore(t *testing.T) {
	ctrl, _, s := newTestController(t, twoPageListing())

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	err := ctrl.Resume(context.Background())
	if err == nil {
		t.Fatal("Resume on an empty store should fail")
	}
	if !errors.Is(err, deperrors.ErrStoreEmpty) {
		t.Errorf("expected ErrStoreEmpty, got: %v", err)
	}
	if ctrl.State() != StateAborted {
		t.Errorf("state = %s, want %s", ctrl.State(), StateAborted)
	}
}

func TestRun_BlockedPageAbortsWithProgressIntact(t *testing.T) {
	pages := twoPageListing()
	pages[page2URL] = testutil.ListingPage{
		OmitContainer: true,
		PrevURL:       page1URL,
		NextDisabled:  true,
	}
	ctrl, f, s := newTestController(t, pages)

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	err := ctrl.Run(context.Background())
	if err == nil {
		t.Fatal("Run should fail when a page serves no entries container")
	}
	if !errors.Is(err, deperrors.ErrPageBlocked) {
		t.Errorf("expected ErrPageBlocked, got: %v", err)
	}
	if ctrl.State() != StateAborted {
		t.Errorf("state = %s, want %s", ctrl.State(), StateAborted)
	}

	// Page 1's records must already be durable so a later resume can pick
	// up where the block happened.
	records, lerr := s.Load()
	if lerr != nil {
		t.Fatalf("Load failed: %v", lerr)
	}
	if len(records) != 3 {
		t.Errorf("got %d persisted records, want the 3 from page 1", len(records))
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctrl, f, _ := newTestController(t, twoPageListing())

	if err := f.NavigateTo(context.Background(), page1URL); err != nil {
		t.Fatalf("positioning fetcher failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ctrl.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if ctrl.State() != StateAborted {
		t.Errorf("state = %s, want %s", ctrl.State(), StateAborted)
	}
}
