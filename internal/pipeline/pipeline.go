// Package pipeline wires the collector, detail extractor and normalizer into the file-based stages
// run by the command-line tools.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"willaykuna/internal/config"
	"willaykuna/internal/crawler"
	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
	"willaykuna/internal/models"
	"willaykuna/internal/normalizer"
	"willaykuna/internal/store"
)

// Pipeline runs individual stages against the configured files.
type Pipeline struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	scraper *crawler.Scraper
	now     func() time.Time
}

// New creates a pipeline. m may be nil.
func New(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		log:     log,
		metrics: m,
		scraper: crawler.NewScraperWithConfig(&cfg.HTTP),
		now:     time.Now,
	}
}

// WithClock replaces the clock used to stamp extraction runs.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now

	return p
}

// Collect discovers listing entries and writes them to out as JSON and CSV.
func (p *Pipeline) Collect(ctx context.Context, out string) ([]models.ListingEntry, error) {
	collector := crawler.NewCollector(p.cfg, p.scraper, p.log, p.metrics)

	entries, err := collector.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing collection failed: %w", err)
	}

	if err := store.WriteJSON(out, entries, p.cfg.Output.PrettyPrint); err != nil {
		return nil, err
	}

	if err := store.WriteListingCSV(config.CSVPath(out), entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Crawl reads listing entries from in, extracts every article and writes the records to out.
// A missing input file is fatal; per-article failures are only counted.
func (p *Pipeline) Crawl(ctx context.Context, in, out string) (*crawler.Report, error) {
	entries, err := store.ReadJSON[models.ListingEntry](in)
	if err != nil {
		return nil, err
	}

	rc := crawler.NewRunContext(p.now().In(p.cfg.Location()), p.cfg.Source.Name, p.cfg.Source.ImageCredit)
	log := p.log.With("run_id", rc.RunID)

	log.Info("extraction started", "entries", len(entries), "input", in)

	client := crawler.NewClientWithDeps(p.scraper, &p.cfg.Extraction, log, p.metrics)
	report := client.ExtractAll(ctx, rc, entries)

	if err := p.writeDetail(out, report.Records); err != nil {
		return nil, err
	}

	return report, nil
}

func (p *Pipeline) writeDetail(out string, records []models.ArticleRecord) error {
	if err := store.WriteJSON(out, records, p.cfg.Output.PrettyPrint); err != nil {
		return err
	}

	return store.WriteDetailCSV(config.CSVPath(out), records)
}

// Normalize reads article records from in and writes their normalized form to out.
func (p *Pipeline) Normalize(in, out string) ([]models.NormalizedRecord, error) {
	records, err := store.ReadJSON[models.ArticleRecord](in)
	if err != nil {
		return nil, err
	}

	normalized := normalizer.NewProcessorWithDeps(p.log, p.metrics).ProcessAll(records)

	if err := store.WriteJSON(out, normalized, p.cfg.Output.PrettyPrint); err != nil {
		return nil, err
	}

	if err := store.WriteNormalizedCSV(config.CSVPath(out), normalized); err != nil {
		return nil, err
	}

	return normalized, nil
}

// FlushMetrics writes the metrics textfile when one is configured.
func (p *Pipeline) FlushMetrics() error {
	if p.metrics == nil {
		return nil
	}

	return p.metrics.WriteTextfile(p.cfg.Metrics.Textfile)
}
