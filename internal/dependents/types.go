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
)

// Record is one harvested dependent entry. This is the unit that gets
// persisted to the record store, so the JSON field names are part of the
// store's on-disk contract and must not change.
type Record struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Stars int    `json:"stars"`
	Forks int    `json:"forks"`

	// PreviousPageURL points at the listing page that precedes the page this
	// record was extracted from, or is nil for records found on the first
	// page. It carries no meaning about the dependent itself; it exists only
	// so an interrupted harvest can be resumed from the page it stopped on.
	PreviousPageURL *string `json:"previousGithubDependentsPageUrl"`
}

// Equal reports structural equality across all fields, including
// PreviousPageURL. Two records describing the same dependent but tagged with
// different backward links are not equal; the store's deduplication relies
// on exactly this comparison.
func (r Record) Equal(other Record) bool {
	if r.Owner != other.Owner || r.Repo != other.Repo ||
		r.Stars != other.Stars || r.Forks != other.Forks {
		return false
	}
	if r.PreviousPageURL == nil || other.PreviousPageURL == nil {
		return r.PreviousPageURL == other.PreviousPageURL
	}
	return *r.PreviousPageURL == *other.PreviousPageURL
}

// FullName returns the record's repository in "owner/repo" form.
func (r Record) FullName() string {
	return r.Owner + "/" + r.Repo
}

// Page is a fetched and parsed dependents listing page. URL is the address
// the page was loaded from and is used to report errors and to resolve
// relative pagination links.
type Page struct {
	URL string
	Doc *goquery.Document
}

// NewPage wraps a parsed document as a listing page.
func NewPage(url string, doc *goquery.Document) *Page {
	return &Page{URL: url, Doc: doc}
}

// ListingURL derives the dependents listing address for a target repository.
// base is the web origin, e.g. "https://github.com".
func ListingURL(base, owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s/network/dependents", strings.TrimRight(base, "/"), owner, repo)
}
