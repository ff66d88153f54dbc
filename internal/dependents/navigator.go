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

package dependents

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	deperrors "github.com/depscout/depscout/internal/errors"
)

// The pagination controls are the children of the button group below the
// listing: the first is "Previous", the second is "Next". An enabled control
// is an anchor carrying the target URL; a disabled control is rendered as a
// button without an href, marking the listing boundary in that direction.
// Some renderings use a bare pagination list instead of the button group.
const (
	buttonGroupSelector        = "#dependents .paginate-container .BtnGroup"
	paginationFallbackSelector = "#dependents .paginate-container .pagination a"
)

// PreviousPage resolves the link to the listing page before page.
//
// The three outcomes are distinct: a URL with ok=true, ok=false with a nil
// error when page is the listing's first page (a boundary, not a failure),
// and a non-nil error wrapping errors.ErrNavigation when no pagination
// control can be located at all.
func PreviousPage(page *Page) (url string, ok bool, err error) {
	controls := paginationControls(page)
	if controls.Length() > 0 {
		// A collapsed group can hold a single control. When that lone
		// control is labeled "Next" it must not be mistaken for the
		// previous link, or the crawl would stop one page early.
		if controls.Length() == 1 && isNextControl(controls.Eq(0)) {
			return "", false, nil
		}
		u, present := resolveControl(controls.Eq(0))
		return u, present, nil
	}
	fallback := page.Doc.Find(paginationFallbackSelector).First()
	if fallback.Length() == 0 {
		return "", false, fmt.Errorf("previous-page control not found on %s: %w", page.URL, deperrors.ErrNavigation)
	}
	u, present := resolveControl(fallback)
	return u, present, nil
}

// NextPage resolves the link to the listing page after page, with the same
// three outcomes as PreviousPage.
//
// When the button group carries fewer than two controls the listing has
// collapsed: if a previous link exists this is the last page and the result
// is a boundary; otherwise the sole remaining control is treated as the next
// link and checked for the disabled state.
func NextPage(page *Page) (url string, ok bool, err error) {
	controls := paginationControls(page)
	if controls.Length() >= 2 {
		u, present := resolveControl(controls.Eq(1))
		return u, present, nil
	}

	if _, hasPrev, perr := PreviousPage(page); perr == nil && hasPrev {
		return "", false, nil
	}

	if controls.Length() == 1 {
		u, present := resolveControl(controls.Eq(0))
		return u, present, nil
	}
	fallback := page.Doc.Find(paginationFallbackSelector)
	if fallback.Length() == 1 {
		u, present := resolveControl(fallback.First())
		return u, present, nil
	}
	return "", false, fmt.Errorf("next-page control not found on %s: %w", page.URL, deperrors.ErrNavigation)
}

func paginationControls(page *Page) *goquery.Selection {
	return page.Doc.Find(buttonGroupSelector).First().Children()
}

// isNextControl reports whether a pagination control carries the "Next"
// label.
func isNextControl(sel *goquery.Selection) bool {
	return strings.EqualFold(strings.TrimSpace(sel.Text()), "Next")
}

// resolveControl returns a control's target URL, or present=false when the
// control is disabled or carries no target.
func resolveControl(sel *goquery.Selection) (url string, present bool) {
	if _, disabled := sel.Attr("disabled"); disabled {
		return "", false
	}
	if sel.HasClass("disabled") {
		return "", false
	}
	href, exists := sel.Attr("href")
	if !exists || href == "" {
		return "", false
	}
	return href, true
}
