// Package metrics holds the Prometheus counters shared by the pipeline stages and the web server.
// Batch stages dump the registry to a node-exporter textfile; the web server exposes it at /metrics.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "willaykuna"

// Metrics holds all pipeline metrics registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	ArticlesExtracted prometheus.Counter
	ArticlesSkipped   *prometheus.CounterVec
	RecordsNormalized prometheus.Counter
	ListingEntries    prometheus.Counter
	FetchDuration     prometheus.Histogram
	HTTPRequests      *prometheus.CounterVec
}

// New creates a Metrics set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ArticlesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_extracted_total",
			Help:      "Articles that passed detail extraction",
		}),
		ArticlesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Listing entries skipped during detail extraction, by reason",
		}, []string{"reason"}),
		RecordsNormalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      "Records written by the text normalizer",
		}),
		ListingEntries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_entries_total",
			Help:      "Unique listing entries collected",
		}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of article page fetches",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the web front end",
		}, []string{"route", "code"}),
	}
}

// RegisterRuntime adds the Go runtime and process collectors. Only the long-running server wants these.
func (m *Metrics) RegisterRuntime() {
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler returns the Prometheus HTTP handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records the duration of one page fetch.
func (m *Metrics) ObserveFetch(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

// Skipped increments the skip counter for reason.
func (m *Metrics) Skipped(reason string) {
	m.ArticlesSkipped.WithLabelValues(reason).Inc()
}

// WriteTextfile writes the registry in text exposition format to path.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
