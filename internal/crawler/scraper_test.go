package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willaykuna/internal/config"
	"willaykuna/pkg/utils"
)

func TestScraper_SendsFixedHeaders(t *testing.T) {
	var got http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hola</body></html>"))
	}))
	defer srv.Close()

	body, status, _, err := NewScraper().FetchWithMetrics(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "hola")
	assert.Equal(t, utils.DefaultUserAgent, got.Get("User-Agent"))
	assert.Equal(t, "es-PE,es;q=0.9", got.Get("Accept-Language"))
}

func TestScraper_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, status, _, err := NewScraper().FetchWithMetrics(context.Background(), srv.URL)

	assert.Equal(t, http.StatusNotFound, status)
	assert.ErrorIs(t, err, ErrUnexpectedStatusCode)
}

func TestScraper_DecodesLatin1(t *testing.T) {
	// "Perú" in ISO-8859-1
	latin1 := []byte{'<', 'p', '>', 'P', 'e', 'r', 0xfa, '<', '/', 'p', '>'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(latin1)
	}))
	defer srv.Close()

	body, err := NewScraper().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>Perú</p>", body)
}

func TestScraper_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	cfg := config.Default().HTTP
	cfg.MaxBodyKb = 1

	body, err := NewScraperWithConfig(&cfg).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 1024)
}
