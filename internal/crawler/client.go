// Package crawler fetches news pages: it collects listing entries from an index or feed
// and extracts full article records from each linked page.
package crawler

import (
	"context"
	"errors"

	"github.com/samber/lo"

	"willaykuna/internal/config"
	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
	"willaykuna/internal/models"
)

// SkipReason classifies why a listing entry produced no record.
type SkipReason string

// Skip reasons.
const (
	SkipNone        SkipReason = ""
	SkipHTTPStatus  SkipReason = "http_status"
	SkipFetchFailed SkipReason = "fetch_failed"
	SkipNoTitle     SkipReason = "no_title"
	SkipNoBody      SkipReason = "no_body"
	SkipTooShort    SkipReason = "too_short"
	SkipParseFailed SkipReason = "parse_failed"
)

// ErrContentTooShort is returned when the chunked body fails the minimum length rule.
var ErrContentTooShort = errors.New("article body too short")

// Result is the outcome of extracting one listing entry.
type Result struct {
	Entry  models.ListingEntry
	Record *models.ArticleRecord
	Reason SkipReason
	Err    error
}

// OK reports whether the entry produced a record.
func (r Result) OK() bool {
	return r.Record != nil
}

// Report aggregates the results of one extraction run.
type Report struct {
	RunID   string
	Records []models.ArticleRecord
	Skipped int
	Reasons map[SkipReason]int
}

// Add folds a result into the report.
func (r *Report) Add(res Result) {
	if res.OK() {
		r.Records = append(r.Records, *res.Record)

		return
	}

	r.Skipped++
	r.Reasons[res.Reason]++
}

// Client extracts article records from listing entries.
type Client struct {
	scraper   *Scraper
	extractor *Extractor
	minChars  int
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewClientWithDeps creates a new crawler client with injected dependencies. m may be nil.
func NewClientWithDeps(scraper *Scraper, extraction *config.ExtractionConfig, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		scraper:   scraper,
		extractor: NewExtractor(extraction.MaxImages),
		minChars:  extraction.MinParagraphChars,
		log:       log,
		metrics:   m,
	}
}

// Extract fetches one entry's page and builds its record.
// The run counter advances only when a record is produced.
func (c *Client) Extract(ctx context.Context, rc *RunContext, entry models.ListingEntry) Result {
	res := Result{Entry: entry}

	html, status, duration, err := c.scraper.FetchWithMetrics(ctx, entry.Link)
	if c.metrics != nil && status != 0 {
		c.metrics.ObserveFetch(duration)
	}

	if err != nil {
		res.Err = err
		res.Reason = SkipFetchFailed

		if errors.Is(err, ErrUnexpectedStatusCode) {
			res.Reason = SkipHTTPStatus
		}

		return res
	}

	page, err := c.extractor.Parse(html)
	if err != nil {
		res.Err = err

		switch {
		case errors.Is(err, ErrNoTitle):
			res.Reason = SkipNoTitle
		case errors.Is(err, ErrNoBody):
			res.Reason = SkipNoBody
		default:
			res.Reason = SkipParseFailed
		}

		return res
	}

	paragraphs := ChunkParagraphs(page.Body, c.minChars)
	if TooShort(paragraphs, c.minChars) {
		res.Err = ErrContentTooShort
		res.Reason = SkipTooShort

		return res
	}

	id, err := rc.NextID()
	if err != nil {
		res.Err = err
		res.Reason = SkipParseFailed

		return res
	}

	res.Record = &models.ArticleRecord{
		ID:          id,
		SourceName:  rc.SourceName,
		ExtractedAt: rc.ExtractedAt(),
		PublishedAt: page.PublishedAt,
		Title:       page.Title,
		Paragraphs:  paragraphs,
		URL:         entry.Link,
		Images: lo.Map(page.ImageURLs, func(u string, _ int) models.ImageRef {
			return models.ImageRef{URL: u, Caption: "", Credit: rc.ImageCredit}
		}),
	}

	return res
}

// ExtractAll processes entries in order, one request at a time.
// Per-entry failures are logged and counted; they never abort the run.
// Cancelling ctx stops the loop before the next entry.
func (c *Client) ExtractAll(ctx context.Context, rc *RunContext, entries []models.ListingEntry) *Report {
	report := &Report{
		RunID:   rc.RunID,
		Records: make([]models.ArticleRecord, 0, len(entries)),
		Reasons: make(map[SkipReason]int),
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			c.log.Warn("extraction cancelled", "error", ctx.Err())

			break
		}

		c.log.Info("processing", "url", entry.Link)

		res := c.Extract(ctx, rc, entry)
		report.Add(res)

		if res.OK() {
			c.log.Info("ok", "id", res.Record.ID.String(), "paragraphs", len(res.Record.Paragraphs))

			if c.metrics != nil {
				c.metrics.ArticlesExtracted.Inc()
			}

			continue
		}

		c.log.Warn("skipped", "url", entry.Link, "reason", string(res.Reason), "error", res.Err)

		if c.metrics != nil {
			c.metrics.Skipped(string(res.Reason))
		}
	}

	c.log.Info("extraction finished",
		"records", len(report.Records),
		"skipped", report.Skipped,
	)

	return report
}
