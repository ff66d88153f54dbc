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

// Package github verifies harvest targets against the GitHub GraphQL API.
//
// The dependents listing itself has no API; it is only reachable as a web
// page. What the API can do is tell us, before a crawl starts, whether the
// target repository exists and whether the supplied token is valid, so a
// typo fails in one round trip instead of after crawling an error page. The
// preflight is optional: it runs only when a token is configured.
//
// Unlike page fetches, which are never retried, the preflight goes through a
// RetryClient with exponential backoff, since a transient API failure should
// not stop a harvest from even starting.
package github
