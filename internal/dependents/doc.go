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

// Package dependents models GitHub's "used by" listing: the paginated view at
// /<owner>/<repo>/network/dependents that enumerates repositories depending
// on a project.
//
// The package owns the read side of a harvest. It turns a rendered listing
// page into ordered Record values (extractor) and resolves the page's
// previous/next navigation links (navigator). It deliberately knows nothing
// about how pages are fetched or where records are persisted; those concerns
// live in the fetcher and store packages.
//
// Row extraction is an explicit tokenizer: each data row's collapsed text is
// matched against the owner/repo/stars/forks shape, and rows that do not
// match are reported as RowError values rather than aborting the page. A
// listing page without its entries container is a different matter entirely -
// GitHub serves that shape when it rate limits a client - and is reported as
// a fatal errors.ErrPageBlocked.
package dependents
