package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"willaykuna/internal/config"
	"willaykuna/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Scraper performs single-attempt page fetches with fixed headers and a bounded timeout.
type Scraper struct {
	client    *http.Client
	headers   *utils.HTTPHelper
	bodyLimit int64
}

// NewScraper creates a new scraper instance with default config.
func NewScraper() *Scraper {
	return NewScraperWithConfig(&config.Default().HTTP)
}

// NewScraperWithConfig creates a scraper from the HTTP section of the configuration.
func NewScraperWithConfig(cfg *config.HTTPConfig) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		headers:   utils.NewHTTPHelper(cfg.UserAgent, cfg.AcceptLanguage),
		bodyLimit: cfg.BodyLimit(),
	}
}

// UserAgent returns the User-Agent sent with every request.
func (s *Scraper) UserAgent() string {
	return s.headers.UserAgent()
}

// FetchWithMetrics returns (content, statusCode, duration, error).
// A non-200 response yields ErrUnexpectedStatusCode together with the status.
// The body is decoded to UTF-8 using the Content-Type charset or the page's meta tag.
func (s *Scraper) FetchWithMetrics(ctx context.Context, url string) (string, int, time.Duration, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = s.headers.BuildHeaders(nil)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, time.Since(startTime), fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, s.bodyLimit), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to detect charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", resp.StatusCode, time.Since(startTime), fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, time.Since(startTime), nil
}

// Fetch fetches and returns content from the given URL.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	content, _, _, err := s.FetchWithMetrics(ctx, url)

	return content, err
}
