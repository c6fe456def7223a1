package crawler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Parse(t *testing.T) {
	html := testPage{
		title:     "Headline",
		body:      validBody,
		published: "2026-10-18T10:00:00-05:00",
		ogImage:   "https://img.example/og.jpg",
		images:    []string{"https://img.example/1.jpg", "https://img.example/og.jpg", "https://img.example/2.jpg"},
	}.render(t)

	page, err := NewExtractor(15).Parse(html)
	require.NoError(t, err)

	assert.Equal(t, "Headline", page.Title)
	assert.Equal(t, validBody, page.Body)
	assert.Equal(t, "2026-10-18T10:00:00-05:00", page.PublishedAt)
	assert.Equal(t, []string{
		"https://img.example/og.jpg",
		"https://img.example/1.jpg",
		"https://img.example/2.jpg",
	}, page.ImageURLs)
}

func TestExtractor_Parse_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		page testPage
		want error
	}{
		{"no h1", testPage{body: validBody}, ErrNoTitle},
		{"blank h1", testPage{title: "   ", body: validBody}, ErrNoTitle},
		{"no json-ld", testPage{title: "T"}, ErrNoBody},
		{"only other types", testPage{title: "T", ldJSON: []string{`{"@type":"WebPage","articleBody":"x"}`}}, ErrNoBody},
		{"blank body", testPage{title: "T", ldJSON: []string{`{"@type":"NewsArticle","articleBody":"  "}`}}, ErrNoBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor(15).Parse(tt.page.render(t))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractor_JSONLDShapes(t *testing.T) {
	tests := []struct {
		name   string
		blocks []string
		want   string
	}{
		{"invalid block skipped", []string{`{not json`, `{"@type":"NewsArticle","articleBody":"cuerpo"}`}, "cuerpo"},
		{"array", []string{`[{"@type":"Organization"},{"@type":"NewsArticle","articleBody":"en lista"}]`}, "en lista"},
		{"graph", []string{`{"@context":"https://schema.org","@graph":[{"@type":"BreadcrumbList"},{"@type":"NewsArticle","articleBody":"en grafo"}]}`}, "en grafo"},
		{"type array", []string{`{"@type":["Article","NewsArticle"],"articleBody":"multi tipo"}`}, "multi tipo"},
		{"first wins", []string{`{"@type":"NewsArticle","articleBody":"primero"}`, `{"@type":"NewsArticle","articleBody":"segundo"}`}, "primero"},
		{"trimmed", []string{`{"@type":"NewsArticle","articleBody":"  con espacios \n"}`}, "con espacios"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := NewExtractor(15).Parse(testPage{title: "T", ldJSON: tt.blocks}.render(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Body)
		})
	}
}

func TestExtractor_NoDate(t *testing.T) {
	page, err := NewExtractor(15).Parse(testPage{title: "T", body: validBody}.render(t))
	require.NoError(t, err)
	assert.Empty(t, page.PublishedAt)
	assert.Empty(t, page.ImageURLs)
}

func TestExtractor_ImageCap(t *testing.T) {
	links := make([]string, 20)
	for i := range links {
		links[i] = fmt.Sprintf("https://img.example/%02d.jpg", i)
	}

	page, err := NewExtractor(15).Parse(testPage{
		title:   "T",
		body:    validBody,
		ogImage: "https://img.example/og.jpg",
		images:  links,
	}.render(t))
	require.NoError(t, err)

	require.Len(t, page.ImageURLs, 15)
	assert.Equal(t, "https://img.example/og.jpg", page.ImageURLs[0])
	assert.Equal(t, "https://img.example/13.jpg", page.ImageURLs[14])
}

func TestExtractor_ZeroImageCap(t *testing.T) {
	page, err := NewExtractor(0).Parse(testPage{
		title:   "T",
		body:    validBody,
		ogImage: "https://img.example/og.jpg",
		images:  []string{"https://img.example/1.jpg"},
	}.render(t))
	require.NoError(t, err)
	assert.Empty(t, page.ImageURLs)
}
