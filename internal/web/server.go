// Package web serves the read-only news front end: the article list, article pages,
// narrated audio files and static assets.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"willaykuna/internal/config"
	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server represents the front-end HTTP server.
type Server struct {
	router   *gin.Engine
	server   *http.Server
	log      *logger.Logger
	metrics  *metrics.Metrics
	web      config.WebConfig
	newsPath string
}

// NewServer builds the router and HTTP server. m may be nil, in which case a fresh registry is used.
func NewServer(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*Server, error) {
	if m == nil {
		m = metrics.New()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		log:      log,
		metrics:  m,
		web:      cfg.Web,
		newsPath: cfg.NewsPath(),
	}

	router := gin.New()
	router.Use(RecoveryMiddleware(log), LoggerMiddleware(log), MetricsMiddleware(m))
	router.SetHTMLTemplate(tmpl)

	if err := s.mountStatic(router); err != nil {
		return nil, err
	}

	router.GET("/", s.handleIndex)
	router.GET("/noticia/:id", s.handleDetail)
	router.GET("/audio/:filename", s.handleAudio)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	s.router = router
	s.server = &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Slog().Handler(), slog.LevelError),
	}

	return s, nil
}

// mountStatic serves /static from the configured directory, or from the embedded stylesheet.
func (s *Server) mountStatic(router *gin.Engine) error {
	if s.web.StaticDir != "" {
		router.Static("/static", s.web.StaticDir)

		return nil
	}

	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return fmt.Errorf("failed to open embedded static files: %w", err)
	}

	router.StaticFS("/static", http.FS(sub))

	return nil
}

// Router returns the underlying Gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("starting web server",
		"address", s.server.Addr,
		"news_file", s.newsPath,
		"audio_dir", s.web.AudioDir,
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.log.Info("web server stopped")

	return nil
}

func (s *Server) loadNews(c *gin.Context) ([]NewsItem, bool) {
	items, err := LoadNews(s.newsPath)
	if err != nil {
		s.log.Error("failed to load news", "path", s.newsPath, "error", err)
		c.String(http.StatusInternalServerError, "Error al leer las noticias")

		return nil, false
	}

	return items, true
}

func (s *Server) handleIndex(c *gin.Context) {
	items, ok := s.loadNews(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": s.web.SiteTitle,
		"news":  items,
	})
}

func (s *Server) handleDetail(c *gin.Context) {
	items, ok := s.loadNews(c)
	if !ok {
		return
	}

	item, found := FindNews(items, c.Param("id"))
	if !found {
		c.String(http.StatusNotFound, "Noticia no encontrada")

		return
	}

	title := item.Title
	if title == "" {
		title = "Noticia"
	}

	c.HTML(http.StatusOK, "noticia.html", gin.H{
		"title": title,
		"site":  s.web.SiteTitle,
		"item":  item,
	})
}

func (s *Server) handleAudio(c *gin.Context) {
	name := c.Param("filename")

	if !strings.HasSuffix(strings.ToLower(name), ".wav") {
		c.String(http.StatusBadRequest, "Formato de audio no permitido")

		return
	}

	if filepath.Base(name) != name || strings.HasPrefix(name, ".") {
		c.String(http.StatusNotFound, "Audio no encontrado")

		return
	}

	path := filepath.Join(s.web.AudioDir, name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.String(http.StatusNotFound, "Audio no encontrado")

		return
	}

	c.Header("Content-Type", "audio/wav")
	c.File(path)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
