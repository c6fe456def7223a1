// Package normalizer cleans extracted article text into a canonical, speech-ready form.
package normalizer

import (
	"github.com/samber/lo"

	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
	"willaykuna/internal/models"
)

// Processor validates and normalizes article records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	log         *logger.Logger
	metrics     *metrics.Metrics
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return NewProcessorWithDeps(logger.Discard(), nil)
}

// NewProcessorWithDeps creates a processor that logs validation findings. m may be nil.
func NewProcessorWithDeps(log *logger.Logger, m *metrics.Metrics) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		log:         log,
		metrics:     m,
	}
}

// Process normalizes one record. Validation problems are logged, never fatal.
func (p *Processor) Process(rec models.ArticleRecord) models.NormalizedRecord {
	if err := p.validator.Validate(&rec); err != nil {
		p.log.Warn("record incomplete", "id", rec.ID.String(), "url", rec.URL, "error", err)
	}

	out := p.transformer.Transform(rec)

	if p.metrics != nil {
		p.metrics.RecordsNormalized.Inc()
	}

	return out
}

// ProcessAll normalizes records in order. Every input record yields exactly one output record.
func (p *Processor) ProcessAll(records []models.ArticleRecord) []models.NormalizedRecord {
	out := lo.Map(records, func(rec models.ArticleRecord, _ int) models.NormalizedRecord {
		return p.Process(rec)
	})

	p.log.Info("normalization finished", "records", len(out))

	return out
}

// Transformer exposes the text transformer for callers that normalize free text.
func (p *Processor) Transformer() *Transformer {
	return p.transformer
}
