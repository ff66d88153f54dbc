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

// Package testutil builds synthetic dependents listing pages shaped like
// GitHub's real markup, for use by package tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/depscout/depscout/internal/dependents"
)

// Row describes one dependent entry on a synthetic listing page. Stars and
// Forks are literal cell text so tests can exercise thousands separators.
type Row struct {
	Owner string
	Repo  string
	Stars string
	Forks string
}

// ListingPage describes one synthetic dependents listing page.
type ListingPage struct {
	Rows []Row
	// RawRows are injected verbatim as additional data rows; use them to
	// produce rows that fail to tokenize.
	RawRows []string

	// PrevURL/NextURL render enabled pagination anchors; the Disabled flags
	// render the corresponding control as a disabled button instead.
	PrevURL      string
	PrevDisabled bool
	NextURL      string
	NextDisabled bool

	// OmitPagination leaves out the paginate container entirely.
	OmitPagination bool
	// OmitPrev renders a button group holding only the next control.
	OmitPrev bool
	// OmitNext renders a button group holding only the previous control.
	OmitNext bool
	// OmitContainer leaves out the entries container, mimicking the
	// interstitial GitHub serves when it blocks a client.
	OmitContainer bool
	// UseFallbackPagination renders the older bare pagination list instead
	// of the button group.
	UseFallbackPagination bool
}

// HTML renders the page as GitHub-shaped markup.
func (p ListingPage) HTML() string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="dependents">`)

	if !p.OmitContainer {
		b.WriteString(`<div class="Box"><div class="Box-header">`)
		fmt.Fprintf(&b, "%d Repositories", len(p.Rows)+len(p.RawRows))
		b.WriteString(`</div>`)
		for _, row := range p.Rows {
			fmt.Fprintf(&b,
				`<div class="Box-row"><span><a href="/%[1]s">%[1]s</a> / <a href="/%[1]s/%[2]s">%[2]s</a></span> <span>%[3]s</span> <span>%[4]s</span></div>`,
				row.Owner, row.Repo, row.Stars, row.Forks)
		}
		for _, raw := range p.RawRows {
			fmt.Fprintf(&b, `<div class="Box-row">%s</div>`, raw)
		}
		b.WriteString(`</div>`)
	}

	if !p.OmitPagination {
		b.WriteString(`<div class="paginate-container">`)
		if p.UseFallbackPagination {
			b.WriteString(`<div class="pagination">`)
			if p.PrevURL != "" {
				fmt.Fprintf(&b, `<a href="%s">Previous</a>`, p.PrevURL)
			}
			b.WriteString(`</div>`)
		} else {
			b.WriteString(`<div class="BtnGroup">`)
			if !p.OmitPrev {
				b.WriteString(control("Previous", p.PrevURL, p.PrevDisabled))
			}
			if !p.OmitNext {
				b.WriteString(control("Next", p.NextURL, p.NextDisabled))
			}
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div>`)
	}

	b.WriteString(`</div></body></html>`)
	return b.String()
}

func control(label, href string, disabled bool) string {
	if disabled || href == "" {
		return fmt.Sprintf(`<button class="BtnGroup-item" disabled>%s</button>`, label)
	}
	return fmt.Sprintf(`<a class="BtnGroup-item" href="%s">%s</a>`, href, label)
}

// Page parses the listing into a dependents.Page addressed by url.
func Page(t *testing.T, url string, p ListingPage) *dependents.Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML()))
	if err != nil {
		t.Fatalf("failed to parse synthetic page: %v", err)
	}
	return dependents.NewPage(url, doc)
}

// NewDependentsServer starts an httptest server serving listing pages by
// path. The server is shut down when the test finishes.
func NewDependentsServer(t *testing.T, pages map[string]ListingPage) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page.HTML())
	}))
	t.Cleanup(srv.Close)
	return srv
}
