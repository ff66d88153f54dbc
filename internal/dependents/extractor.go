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
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	deperrors "github.com/depscout/depscout/internal/errors"
)

// containerSelector locates the box listing the dependent entries. Its first
// child is a header ("N Repositories"), every following child is one entry.
const containerSelector = "#dependents .Box"

// rowPattern tokenizes a data row's collapsed text: owner, a slash, the
// repository name, then the star and fork counts. Counts are digit groups
// optionally joined by single thousands separators ("1,234").
var rowPattern = regexp.MustCompile(`^(\S+)\s*/\s*(\S+)\s+(\d+(?:,\d+)*)\s+(\d+(?:,\d+)*)$`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// RowError reports a single listing row whose text did not match the
// expected owner/repo/stars/forks shape. Row errors are advisory: the row is
// skipped and extraction of the remaining rows continues.
type RowError struct {
	// Index is the row's 1-based position among the container's data rows.
	Index int
	// Text is the collapsed row text that failed to tokenize.
	Text string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d does not match owner/repo stars forks: %q", e.Index, e.Text)
}

// ExtractRecords returns the dependent records found on page, in document
// order, with PreviousPageURL left unset; the crawl controller stamps the
// backward link once the page's navigation is resolved.
//
// Rows that fail to tokenize are skipped and reported in the second return
// value. A page without the entries container is fatal and wraps
// errors.ErrPageBlocked: that is the shape GitHub serves when it rate limits
// or blocks the client.
func ExtractRecords(page *Page) ([]Record, []RowError, error) {
	container := page.Doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return nil, nil, fmt.Errorf("entries container not found on %s: %w", page.URL, deperrors.ErrPageBlocked)
	}

	var (
		records []Record
		skipped []RowError
	)
	container.Children().Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// Header, not a data row.
			return
		}
		text := collapseWhitespace(row.Text())
		rec, ok := tokenizeRow(text)
		if !ok {
			skipped = append(skipped, RowError{Index: i, Text: text})
			return
		}
		records = append(records, rec)
	})

	return records, skipped, nil
}

// tokenizeRow matches a collapsed row text against rowPattern and converts
// the numeric captures. It never panics on partial matches: either the whole
// row tokenizes into a Record or it is rejected.
func tokenizeRow(text string) (Record, bool) {
	m := rowPattern.FindStringSubmatch(text)
	if m == nil {
		return Record{}, false
	}
	stars, err := parseCount(m[3])
	if err != nil {
		return Record{}, false
	}
	forks, err := parseCount(m[4])
	if err != nil {
		return Record{}, false
	}
	return Record{Owner: m[1], Repo: m[2], Stars: stars, Forks: forks}, true
}

// parseCount parses a star/fork count after stripping thousands separators.
func parseCount(s string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
