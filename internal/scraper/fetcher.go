package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrEmptyDocument is returned when the listing responds with no body.
var ErrEmptyDocument = errors.New("empty document")

var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Upgrade-Insecure-Requests": "1",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
}

// Fetcher retrieves a listing document.
type Fetcher interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}

// FetcherConfig holds settings for CollyFetcher.
type FetcherConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// CollyFetcher fetches listing pages with a fresh colly collector per call,
// so concurrent fetches share no state.
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
}

// NewCollyFetcher creates a fetcher, filling unset fields with defaults.
func NewCollyFetcher(cfg FetcherConfig) *CollyFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &CollyFetcher{
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
	}
}

// Fetch performs a single GET of address. Non-2xx responses, transport
// errors and context cancellation are all returned as errors.
func (f *CollyFetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range browserHeaders {
			r.Headers.Set(k, v)
		}
	})

	var body []byte
	var status int
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})

	start := time.Now()
	if err := c.Visit(address); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", address, err)
	}
	log.Printf("[Fetcher] GET %s -> %d (%d bytes) in %v", address, status, len(body), time.Since(start))

	if len(body) == 0 {
		return nil, ErrEmptyDocument
	}
	return body, nil
}

var _ Fetcher = (*CollyFetcher)(nil)
