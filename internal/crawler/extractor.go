package crawler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page parse errors.
var (
	ErrNoTitle = errors.New("page has no <h1> title")
	ErrNoBody  = errors.New("page has no NewsArticle articleBody")
)

const newsArticleType = "NewsArticle"

// ArticlePage holds the fields read from one article page.
type ArticlePage struct {
	Title       string
	Body        string
	PublishedAt string
	ImageURLs   []string
}

// Extractor reads article fields out of HTML documents.
type Extractor struct {
	maxImages int
}

// NewExtractor creates an extractor keeping at most maxImages image URLs per page.
func NewExtractor(maxImages int) *Extractor {
	return &Extractor{maxImages: maxImages}
}

// Parse extracts title, structured body, publication date and images from html.
// It returns ErrNoTitle or ErrNoBody when the page cannot yield an article.
func (e *Extractor) Parse(html string) (*ArticlePage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title, ok := e.title(doc)
	if !ok {
		return nil, ErrNoTitle
	}

	body, ok := e.articleBody(doc)
	if !ok {
		return nil, ErrNoBody
	}

	return &ArticlePage{
		Title:       title,
		Body:        body,
		PublishedAt: e.publishedAt(doc),
		ImageURLs:   e.images(doc),
	}, nil
}

// title returns the trimmed text of the first <h1>. Empty text counts as missing.
func (e *Extractor) title(doc *goquery.Document) (string, bool) {
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return "", false
	}

	title := strings.TrimSpace(h1.Text())

	return title, title != ""
}

// articleBody scans JSON-LD blocks in order and returns the first NewsArticle articleBody.
// Blocks that are not valid JSON are skipped.
func (e *Extractor) articleBody(doc *goquery.Document) (string, bool) {
	var body string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return true
		}

		for _, node := range jsonLDNodes(data) {
			if !isNewsArticle(node["@type"]) {
				continue
			}

			if text, ok := node["articleBody"].(string); ok && strings.TrimSpace(text) != "" {
				body = strings.TrimSpace(text)

				return false
			}
		}

		return true
	})

	return body, body != ""
}

// publishedAt returns the datetime attribute of the first <time> element, or "".
func (e *Extractor) publishedAt(doc *goquery.Document) string {
	value, _ := doc.Find("time").First().Attr("datetime")

	return value
}

// images returns og:image first, then <link as="image"> hrefs, deduplicated by URL and capped.
func (e *Extractor) images(doc *goquery.Document) []string {
	urls := make([]string, 0, e.maxImages)
	seen := make(map[string]bool)

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && og != "" && e.maxImages > 0 {
		urls = append(urls, og)
		seen[og] = true
	}

	doc.Find(`link[as="image"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(urls) >= e.maxImages {
			return false
		}

		href, ok := s.Attr("href")
		if !ok || href == "" || seen[href] {
			return true
		}

		urls = append(urls, href)
		seen[href] = true

		return true
	})

	return urls
}

// jsonLDNodes flattens a decoded JSON-LD value into candidate objects:
// a single object, the elements of a top-level array, and any @graph members.
func jsonLDNodes(data any) []map[string]any {
	var nodes []map[string]any

	switch v := data.(type) {
	case map[string]any:
		nodes = append(nodes, v)

		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				nodes = append(nodes, jsonLDNodes(item)...)
			}
		}
	case []any:
		for _, item := range v {
			nodes = append(nodes, jsonLDNodes(item)...)
		}
	}

	return nodes
}

func isNewsArticle(t any) bool {
	switch v := t.(type) {
	case string:
		return v == newsArticleType
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == newsArticleType {
				return true
			}
		}
	}

	return false
}
