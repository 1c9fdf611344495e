// Package fetch retrieves raw text and bytes from external URLs with bounded
// latency. Failures are absorbed: callers get an empty result, never an
// error, so a dead upstream degrades import quality instead of breaking it.
package fetch

import (
	"io"
	"net/http"
	"time"
)

const (
	// UserAgent identifies outbound requests from the importer.
	UserAgent = "SweeezyBot/1.0 (+https://sweeezy.app)"

	// FeedTimeout bounds feed and article-page fetches.
	FeedTimeout = 10 * time.Second
	// AuxTimeout bounds auxiliary lookups (images, discovered feeds).
	AuxTimeout = 12 * time.Second

	// maxBodySize caps how much of a response is read.
	maxBodySize = 5 << 20
)

// ClientFactory builds HTTP clients for outbound fetches.
// security.SSRFGuardService satisfies this.
type ClientFactory interface {
	NewSafeClient(timeout time.Duration) *http.Client
}

// Fetcher performs guarded HTTP GETs with a fixed User-Agent.
type Fetcher struct {
	clients ClientFactory
}

// NewFetcher returns a Fetcher using the given client factory.
func NewFetcher(clients ClientFactory) *Fetcher {
	return &Fetcher{clients: clients}
}

// Text fetches the URL and returns the response body as a string.
// Any transport error or status >= 400 yields "".
func (f *Fetcher) Text(url string, timeout time.Duration) string {
	body := f.get(url, timeout)
	return string(body)
}

// Bytes fetches the URL and returns the raw response body.
// Any transport error or status >= 400 yields nil.
func (f *Fetcher) Bytes(url string, timeout time.Duration) []byte {
	return f.get(url, timeout)
}

func (f *Fetcher) get(url string, timeout time.Duration) []byte {
	if url == "" {
		return nil
	}

	client := f.clients.NewSafeClient(timeout)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil
	}
	return body
}
