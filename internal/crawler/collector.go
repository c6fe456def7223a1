package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"willaykuna/internal/config"
	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
	"willaykuna/internal/models"
	"willaykuna/pkg/utils"
)

// ErrIndexUnreachable is returned when the first index page cannot be fetched.
var ErrIndexUnreachable = errors.New("index page unreachable")

// Collector discovers listing entries from an index page (html mode) or a feed (rss mode).
type Collector struct {
	source   config.SourceConfig
	settings config.CollectorConfig
	http     config.HTTPConfig
	scraper  *Scraper
	urls     *utils.HTTPHelper
	text     *utils.StringHelper
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewCollector creates a collector from the full configuration. m may be nil.
func NewCollector(cfg *config.Config, scraper *Scraper, log *logger.Logger, m *metrics.Metrics) *Collector {
	return &Collector{
		source:   cfg.Source,
		settings: cfg.Collector,
		http:     cfg.HTTP,
		scraper:  scraper,
		urls:     utils.NewHTTPHelper(cfg.HTTP.UserAgent, cfg.HTTP.AcceptLanguage),
		text:     utils.NewStringHelper(),
		log:      log,
		metrics:  m,
	}
}

// Collect returns unique listing entries in discovery order.
func (c *Collector) Collect(ctx context.Context) ([]models.ListingEntry, error) {
	var (
		entries []models.ListingEntry
		err     error
	)

	switch c.settings.Mode {
	case config.ModeRSS:
		entries, err = c.collectFeed(ctx)
	default:
		entries, err = c.collectHTML(ctx)
	}

	if err != nil {
		return nil, err
	}

	unique := DedupByLink(entries)

	if c.metrics != nil {
		c.metrics.ListingEntries.Add(float64(len(unique)))
	}

	c.log.Info("listing collected",
		"mode", c.settings.Mode,
		"found", len(entries),
		"unique", len(unique),
	)

	return unique, nil
}

// DedupByLink drops entries whose link was already seen. The first occurrence wins.
func DedupByLink(entries []models.ListingEntry) []models.ListingEntry {
	return lo.UniqBy(entries, func(e models.ListingEntry) string {
		return e.Link
	})
}

// collectHTML walks the index page and follows next-page links up to MaxPages.
func (c *Collector) collectHTML(ctx context.Context) ([]models.ListingEntry, error) {
	collector := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(c.scraper.UserAgent()),
		colly.MaxBodySize(int(c.http.BodyLimit())),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(c.http.GetTimeout())

	var (
		entries  []models.ListingEntry
		pages    int
		firstErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		pages++

		r.Headers.Set("Accept-Language", c.http.AcceptLanguage)
		c.log.Debug("visiting index page", "url", r.URL.String(), "page", pages)
	})

	collector.OnError(func(r *colly.Response, err error) {
		c.log.Warn("index page failed", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)

		if r.Request.URL.String() == c.source.IndexURL && firstErr == nil {
			firstErr = fmt.Errorf("%w: %w", ErrIndexUnreachable, err)
		}
	})

	collector.OnHTML(c.settings.ArticleSelector, func(e *colly.HTMLElement) {
		entry, ok := c.entryFromElement(e)
		if ok {
			entries = append(entries, entry)
		}
	})

	if c.settings.NextSelector != "" {
		collector.OnHTML(c.settings.NextSelector, func(e *colly.HTMLElement) {
			if pages >= c.settings.MaxPages {
				return
			}

			href := strings.TrimSpace(e.Attr("href"))
			if href == "" {
				return
			}

			next := e.Request.AbsoluteURL(href)

			if err := e.Request.Visit(next); err != nil {
				c.log.Debug("next page not visited", "url", next, "error", err)
			}
		})
	}

	if err := collector.Visit(c.source.IndexURL); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("%w: %w", ErrIndexUnreachable, err)
	}

	collector.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return entries, nil
}

// entryFromElement reads title, link and date from one article card.
// Cards without a title or a link are skipped.
func (c *Collector) entryFromElement(e *colly.HTMLElement) (models.ListingEntry, bool) {
	titleSelector := c.settings.TitleSelector
	if titleSelector == "" {
		titleSelector = "h2, h3"
	}

	title := c.text.NormalizeWhitespace(e.DOM.Find(titleSelector).First().Text())

	href, _ := e.DOM.Find("a[href]").First().Attr("href")

	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return models.ListingEntry{}, false
	}

	link := e.Request.AbsoluteURL(href)
	if !c.urls.IsValidURL(link) {
		return models.ListingEntry{}, false
	}

	return models.ListingEntry{
		Title:       title,
		Link:        link,
		PublishedAt: firstDatetime(e.DOM),
	}, true
}

func firstDatetime(s *goquery.Selection) string {
	value, _ := s.Find("time[datetime]").First().Attr("datetime")

	return strings.TrimSpace(value)
}

// collectFeed fetches the configured RSS or Atom feed and maps its items.
func (c *Collector) collectFeed(ctx context.Context) ([]models.ListingEntry, error) {
	body, err := c.scraper.Fetch(ctx, c.source.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnreachable, err)
	}

	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := make([]models.ListingEntry, 0, len(feed.Items))

	for _, item := range feed.Items {
		if item == nil {
			continue
		}

		title := c.text.NormalizeWhitespace(item.Title)
		link := c.urls.Resolve(c.source.FeedURL, item.Link)

		if title == "" || !c.urls.IsValidURL(link) {
			continue
		}

		published := strings.TrimSpace(item.Published)
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format(time.RFC3339)
		}

		entries = append(entries, models.ListingEntry{
			Title:       title,
			Link:        link,
			PublishedAt: published,
		})
	}

	return entries, nil
}
