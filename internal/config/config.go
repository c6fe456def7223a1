// Package config provides configuration management for the ingestion pipeline and web front end.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSourceName      = errors.New("source.name is required")
	ErrInvalidTimezone        = errors.New("source.timezone is not a known IANA zone")
	ErrMissingIndexURL        = errors.New("source.index_url is required in html mode")
	ErrMissingFeedURL         = errors.New("source.feed_url is required in rss mode")
	ErrInvalidCollectorMode   = errors.New("collector.mode must be 'html' or 'rss'")
	ErrInvalidMaxPages        = errors.New("collector.max_pages must be at least 1")
	ErrInvalidTimeout         = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidBodyLimit       = errors.New("http.max_body_kb must be at least 1")
	ErrInvalidMinParagraph    = errors.New("extraction.min_paragraph_chars must be at least 1")
	ErrInvalidMaxImages       = errors.New("extraction.max_images must be non-negative")
	ErrMissingOutputDir       = errors.New("output.dir is required")
	ErrMissingOutputFile      = errors.New("output file names are required")
	ErrMissingWebNewsFile     = errors.New("web.news_file is required")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidCollectorSelect = errors.New("collector.article_selector is required in html mode")
)

// Collector modes.
const (
	ModeHTML = "html"
	ModeRSS  = "rss"
)

// Environment variables that override file configuration.
const (
	EnvDataDir  = "WILLAYKUNA_DATA_DIR"
	EnvTextDir  = "WILLAYKUNA_TEXT_DIR"
	EnvAudioDir = "WILLAYKUNA_AUDIO_DIR"
	EnvLogLevel = "WILLAYKUNA_LOG_LEVEL"
	EnvAddr     = "WILLAYKUNA_ADDR"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Collector  CollectorConfig  `yaml:"collector"`
	HTTP       HTTPConfig       `yaml:"http"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Output     OutputConfig     `yaml:"output"`
	Web        WebConfig        `yaml:"web"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SourceConfig identifies the publication being ingested.
type SourceConfig struct {
	Name        string `yaml:"name"`
	IndexURL    string `yaml:"index_url"`
	FeedURL     string `yaml:"feed_url"`
	Timezone    string `yaml:"timezone"`
	ImageCredit string `yaml:"image_credit"`
}

// CollectorConfig controls listing discovery.
type CollectorConfig struct {
	Mode            string `yaml:"mode"`
	ArticleSelector string `yaml:"article_selector"`
	TitleSelector   string `yaml:"title_selector"`
	NextSelector    string `yaml:"next_selector"`
	MaxPages        int    `yaml:"max_pages"`
}

// HTTPConfig holds the fixed request settings used for every fetch.
type HTTPConfig struct {
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	TimeoutSec     int    `yaml:"timeout_sec"`
	MaxBodyKb      int    `yaml:"max_body_kb"`
}

// ExtractionConfig holds detail extraction thresholds.
type ExtractionConfig struct {
	MinParagraphChars int `yaml:"min_paragraph_chars"`
	MaxImages         int `yaml:"max_images"`
}

// OutputConfig defines where each stage reads and writes its files.
type OutputConfig struct {
	Dir            string `yaml:"dir"`
	ListingFile    string `yaml:"listing_file"`
	DetailFile     string `yaml:"detail_file"`
	NormalizedFile string `yaml:"normalized_file"`
	PrettyPrint    bool   `yaml:"pretty_print"`
}

// WebConfig configures the read-only front end.
type WebConfig struct {
	Addr      string `yaml:"addr"`
	TextDir   string `yaml:"text_dir"`
	AudioDir  string `yaml:"audio_dir"`
	NewsFile  string `yaml:"news_file"`
	StaticDir string `yaml:"static_dir"`
	SiteTitle string `yaml:"site_title"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures metric export for batch stages.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Name:        "RPP",
			IndexURL:    "https://rpp.pe/ultimas-noticias",
			Timezone:    "America/Lima",
			ImageCredit: "RPP",
		},
		Collector: CollectorConfig{
			Mode:            ModeHTML,
			ArticleSelector: "article",
			TitleSelector:   "h2, h3",
			NextSelector:    "a[rel='next']",
			MaxPages:        10,
		},
		HTTP: HTTPConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
				"AppleWebKit/537.36 (KHTML, like Gecko) " +
				"Chrome/120.0.0.0 Safari/537.36",
			AcceptLanguage: "es-PE,es;q=0.9",
			TimeoutSec:     20,
			MaxBodyKb:      4096,
		},
		Extraction: ExtractionConfig{
			MinParagraphChars: 300,
			MaxImages:         15,
		},
		Output: OutputConfig{
			Dir:            ".",
			ListingFile:    "rpp_noticias_hoy.json",
			DetailFile:     "rpp_detalle.json",
			NormalizedFile: "rpp_normalizado.json",
			PrettyPrint:    true,
		},
		Web: WebConfig{
			Addr:      ":8000",
			TextDir:   "./quechua_texto",
			AudioDir:  "./quechua_audio",
			NewsFile:  "noticias.json",
			SiteTitle: "Willaykuna",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of Default.
// An empty path yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; a file that exists but cannot be parsed is an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides fields from environment variables resolved through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.Output.Dir = v
	}

	if v, ok := lookup(EnvTextDir); ok && v != "" {
		c.Web.TextDir = v
	}

	if v, ok := lookup(EnvAudioDir); ok && v != "" {
		c.Web.AudioDir = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Web.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Name) == "" {
		return ErrMissingSourceName
	}

	if _, err := time.LoadLocation(c.Source.Timezone); err != nil || c.Source.Timezone == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Source.Timezone)
	}

	switch c.Collector.Mode {
	case ModeHTML:
		if c.Source.IndexURL == "" {
			return ErrMissingIndexURL
		}

		if c.Collector.ArticleSelector == "" {
			return ErrInvalidCollectorSelect
		}
	case ModeRSS:
		if c.Source.FeedURL == "" {
			return ErrMissingFeedURL
		}
	default:
		return ErrInvalidCollectorMode
	}

	if c.Collector.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.HTTP.MaxBodyKb < 1 {
		return ErrInvalidBodyLimit
	}

	if c.Extraction.MinParagraphChars < 1 {
		return ErrInvalidMinParagraph
	}

	if c.Extraction.MaxImages < 0 {
		return ErrInvalidMaxImages
	}

	if c.Output.Dir == "" {
		return ErrMissingOutputDir
	}

	if c.Output.ListingFile == "" || c.Output.DetailFile == "" || c.Output.NormalizedFile == "" {
		return ErrMissingOutputFile
	}

	if c.Web.NewsFile == "" {
		return ErrMissingWebNewsFile
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// Location returns the run timezone. Validate guarantees it resolves.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Source.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// GetTimeout returns the per-request timeout.
func (h *HTTPConfig) GetTimeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// BodyLimit returns the maximum response size in bytes.
func (h *HTTPConfig) BodyLimit() int64 {
	return int64(h.MaxBodyKb) * 1024
}

// ListingPath returns the listing JSON path.
func (c *Config) ListingPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ListingFile)
}

// DetailPath returns the detail JSON path.
func (c *Config) DetailPath() string {
	return filepath.Join(c.Output.Dir, c.Output.DetailFile)
}

// NormalizedPath returns the normalized JSON path.
func (c *Config) NormalizedPath() string {
	return filepath.Join(c.Output.Dir, c.Output.NormalizedFile)
}

// NewsPath returns the JSON file the web front end reads.
func (c *Config) NewsPath() string {
	return filepath.Join(c.Web.TextDir, c.Web.NewsFile)
}

// CSVPath swaps the extension of a JSON output path for .csv.
func CSVPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".csv"
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Source: %s, Mode: %s, Timeout: %ds, Output: %s}",
		c.Source.Name,
		c.Collector.Mode,
		c.HTTP.TimeoutSec,
		c.Output.Dir,
	)
}
