package helpers

import (
	"bytes"
	"context"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/html/charset"

	"opcgsearch/cardscraper/pkg/errors"
)

// Statuses the target site answers with when it refuses a client.
// All of them abort the run; retrying only gets the IP banned harder.
var blockedStatuses = []int{http.StatusForbidden, http.StatusTooManyRequests, 430}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// Fetcher issues browser-like GET requests against the target site and
// returns UTF-8 page bodies.
type Fetcher struct {
	client  *http.Client
	referer string
}

// NewFetcher creates a fetcher with the given per-request timeout and
// the referer the site expects to see.
func NewFetcher(timeout time.Duration, referer string) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		referer: referer,
	}
}

// Client exposes the underlying HTTP client so tests can install a mock
// transport on it.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch sends an HTTP GET request with browser-like headers, converts
// the response body to UTF-8 if needed, and returns it as an io.Reader.
// A blocked status yields a fatal errors.ErrorTypeBlocked; any other
// non-200 status or transport failure yields an ordinary network error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.Reader, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to create request", err)
	}

	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Referer", f.referer)
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to fetch "+url, err)
	}
	defer resp.Body.Close()

	if slices.Contains(blockedStatuses, resp.StatusCode) {
		return nil, errors.NewBlocked("fetch", url, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetwork("fetch", "unexpected status "+resp.Status+" for "+url, nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork("fetch", "failed to read response body", err)
	}

	// Determine the encoding from the Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errors.NewNetwork("fetch", "failed to convert body to UTF-8", err)
	}

	return &buf, nil
}
