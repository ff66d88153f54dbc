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
	"fmt"
	"io"

	"github.com/depscout/depscout/internal/dependents"
	"github.com/depscout/depscout/internal/fetcher"
	"github.com/depscout/depscout/internal/metadata"
	"github.com/depscout/depscout/internal/output"
	"github.com/depscout/depscout/internal/store"
)

// State identifies where a harvest run is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateFreshStart State = "fresh_start"
	StateResuming   State = "resuming"
	StatePageLoop   State = "page_loop"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// Controller orchestrates one harvest run: it drives the fetcher from page
// to page, extracts records, deduplicates them against the store, stamps
// them with their backward page link and persists them incrementally.
//
// A Controller is single-use and strictly sequential; start it through
// exactly one of Run (fresh start) or Resume.
type Controller struct {
	fetcher fetcher.Fetcher
	store   *store.Store

	// Stream, when set, receives every newly persisted record.
	Stream output.RecordWriter
	// Tracker, when set, accumulates run statistics.
	Tracker *metadata.Tracker
	// Progress, when set, receives human-readable per-page progress.
	Progress io.Writer

	// overwrite is true only between a fresh start and the first successful
	// persist. While set, persisting may still wipe the store; afterwards
	// every persist strictly appends.
	overwrite bool
	state     State
}

// New creates a controller over the given fetcher and store.
func New(f fetcher.Fetcher, s *store.Store) *Controller {
	return &Controller{
		fetcher: f,
		store:   s,
		state:   StateIdle,
	}
}

// State returns the state the controller is currently in. After Run or
// Resume returns it is either StateDone or StateAborted.
func (c *Controller) State() State {
	return c.state
}

// Run executes a fresh harvest. The caller must already have positioned the
// fetcher at the listing's first page. Any existing store content is
// discarded before the page loop begins.
func (c *Controller) Run(ctx context.Context) error {
	c.state = StateFreshStart
	c.overwrite = true
	if err := c.store.Initialize(); err != nil {
		return c.abort(err)
	}
	return c.pageLoop(ctx)
}

// Resume continues an interrupted harvest from the persisted store. The
// caller must have positioned the fetcher at the listing's first page; when
// the last persisted record carries a backward page link, Resume repositions
// the fetcher one page past that link, because the link names the page
// before the one that was last completed.
//
// Resuming an empty store fails with errors.ErrStoreEmpty. If the page after
// the linked page turns out not to exist, the harvest was already complete
// and the run ends in StateDone without fetching anything further.
func (c *Controller) Resume(ctx context.Context) error {
	c.state = StateResuming

	last, err := c.store.Last()
	if err != nil {
		return c.abort(fmt.Errorf("cannot resume: %w", err))
	}

	if last.PreviousPageURL != nil {
		if err := c.fetcher.NavigateTo(ctx, *last.PreviousPageURL); err != nil {
			return c.abort(err)
		}
		page, err := c.fetcher.CurrentPage()
		if err != nil {
			return c.abort(err)
		}
		next, ok, err := dependents.NextPage(page)
		if err != nil {
			return c.abort(err)
		}
		if !ok {
			// The page before the last completed one has no successor left:
			// the listing was fully harvested before the interruption.
			c.state = StateDone
			return nil
		}
		if err := c.fetcher.NavigateTo(ctx, next); err != nil {
			return c.abort(err)
		}
	}

	return c.pageLoop(ctx)
}

// pageLoop processes listing pages until the boundary or a fatal failure.
func (c *Controller) pageLoop(ctx context.Context) error {
	c.state = StatePageLoop

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return c.abort(err)
		}

		page, err := c.fetcher.CurrentPage()
		if err != nil {
			return c.abort(err)
		}

		batch, skipped, err := dependents.ExtractRecords(page)
		if err != nil {
			return c.abort(err)
		}
		for _, rowErr := range skipped {
			c.progressf("skipping %s on %s\n", rowErr.Error(), page.URL)
		}
		if c.Tracker != nil {
			c.Tracker.PageFetched()
			c.Tracker.RowsExtracted(len(batch), len(skipped))
		}

		fresh, err := c.store.FilterNew(batch)
		if err != nil {
			return c.abort(err)
		}

		prevURL, hasPrev, err := dependents.PreviousPage(page)
		if err != nil {
			return c.abort(err)
		}
		if hasPrev {
			// The backward link is what a later resume navigates to; records
			// from the first page keep none.
			for i := range fresh {
				u := prevURL
				fresh[i].PreviousPageURL = &u
			}
		}

		appended, err := c.persist(fresh)
		if err != nil {
			return c.abort(err)
		}
		if c.Tracker != nil {
			c.Tracker.RecordsPersisted(len(appended), len(batch)-len(appended))
		}
		c.progressf("page %d: %d rows, %d new records persisted\n", pageNum, len(batch), len(appended))

		next, ok, err := dependents.NextPage(page)
		if err != nil {
			return c.abort(err)
		}
		if !ok {
			c.state = StateDone
			return nil
		}
		if err := c.fetcher.NavigateTo(ctx, next); err != nil {
			return c.abort(err)
		}
	}
}

// persist appends batch to the store with deduplication and streams the
// records that were actually added. The first successful persist of a run
// clears the fresh-start overwrite intent for good.
func (c *Controller) persist(batch []dependents.Record) ([]dependents.Record, error) {
	if c.overwrite {
		if err := c.store.Initialize(); err != nil {
			return nil, err
		}
	}

	appended, err := c.store.AppendDeduped(batch)
	if err != nil {
		return nil, err
	}
	c.overwrite = false

	if c.Stream != nil {
		for _, rec := range appended {
			if err := c.Stream.Write(rec); err != nil {
				return nil, fmt.Errorf("failed to stream record %s: %w", rec.FullName(), err)
			}
		}
	}

	return appended, nil
}

func (c *Controller) abort(err error) error {
	c.state = StateAborted
	return err
}

func (c *Controller) progressf(format string, args ...interface{}) {
	if c.Progress != nil {
		fmt.Fprintf(c.Progress, format, args...)
	}
}
