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

// Package fetcher loads and renders dependents listing pages.
//
// The crawl controller only consumes the Fetcher interface: position the
// fetcher on a URL, then ask for the current page. The HTTP implementation
// keeps exactly one page in memory at a time, throttles requests with a
// politeness limiter and classifies transport failures into the shared
// sentinel errors. It never retries a page; the harvest's recovery mechanism
// is re-invocation with --resume.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/depscout/depscout/internal/dependents"
	deperrors "github.com/depscout/depscout/internal/errors"
)

// Fetcher is the page-fetching collaborator driven by the crawl controller.
type Fetcher interface {
	// NavigateTo loads the given listing URL and makes it the current page.
	// Relative URLs are resolved against the current page.
	NavigateTo(ctx context.Context, pageURL string) error

	// CurrentPage returns the most recently loaded page. It fails if the
	// fetcher has not been positioned yet.
	CurrentPage() (*dependents.Page, error)
}

// Options configures the HTTP fetcher.
type Options struct {
	// UserAgent is sent with every request. GitHub blocks empty agents.
	UserAgent string
	// Timeout bounds a single page load, including rendering the body.
	Timeout time.Duration
	// RequestsPerMinute throttles page loads. Zero disables throttling.
	RequestsPerMinute int
}

// HTTPFetcher implements Fetcher over plain HTTP requests. The dependents
// listing is served fully rendered, so no browser engine is needed.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	current   *dependents.Page
}

// NewHTTP creates an HTTP fetcher with the given options.
func NewHTTP(opts Options) *HTTPFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		limiter:   limiter,
		userAgent: opts.UserAgent,
	}
}

// NavigateTo implements Fetcher. Transport failures wrap
// errors.ErrNetworkFailure; an upstream 429 wraps errors.ErrRateLimit and a
// 404 wraps errors.ErrRepoNotFound so the CLI can report the target as
// missing rather than the crawl as broken.
func (f *HTTPFetcher) NavigateTo(ctx context.Context, pageURL string) error {
	target, err := f.resolveURL(pageURL)
	if err != nil {
		return fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("failed to load %s (%v): %w", target, err, deperrors.ErrNetworkFailure)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("GitHub throttled the request to %s: %w", target, deperrors.ErrRateLimit)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("listing %s does not exist: %w", target, deperrors.ErrRepoNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d loading %s", resp.StatusCode, target)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", target, err)
	}

	f.current = dependents.NewPage(target, doc)
	return nil
}

// CurrentPage implements Fetcher.
func (f *HTTPFetcher) CurrentPage() (*dependents.Page, error) {
	if f.current == nil {
		return nil, fmt.Errorf("fetcher has no current page; call NavigateTo first")
	}
	return f.current, nil
}

// resolveURL resolves pageURL against the current page, so pagination hrefs
// may be absolute or relative.
func (f *HTTPFetcher) resolveURL(pageURL string) (string, error) {
	ref, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() || f.current == nil {
		return pageURL, nil
	}
	base, err := url.Parse(f.current.URL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
