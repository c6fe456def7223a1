package crawler

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

// validBody is a single 350-character sentence with no internal boundary.
var validBody = strings.Repeat("palabra ", 43) + "final."

type testPage struct {
	title     string
	body      string
	published string
	ogImage   string
	images    []string
	ldJSON    []string
}

func (p testPage) render(t *testing.T) string {
	t.Helper()

	var b strings.Builder

	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">")

	if p.ogImage != "" {
		fmt.Fprintf(&b, `<meta property="og:image" content="%s">`, p.ogImage)
	}

	for _, img := range p.images {
		fmt.Fprintf(&b, `<link rel="preload" as="image" href="%s">`, img)
	}

	for _, raw := range p.ldJSON {
		fmt.Fprintf(&b, `<script type="application/ld+json">%s</script>`, raw)
	}

	if p.body != "" {
		ld, err := json.Marshal(map[string]any{
			"@context":    "https://schema.org",
			"@type":       "NewsArticle",
			"headline":    p.title,
			"articleBody": p.body,
		})
		if err != nil {
			t.Fatalf("marshal ld+json: %v", err)
		}

		fmt.Fprintf(&b, `<script type="application/ld+json">%s</script>`, ld)
	}

	b.WriteString("</head><body>")

	if p.title != "" {
		fmt.Fprintf(&b, "<h1>  %s  </h1>", p.title)
	}

	if p.published != "" {
		fmt.Fprintf(&b, `<time datetime="%s">hoy</time>`, p.published)
	}

	b.WriteString("<p>Visible paragraph that must never be used as body.</p></body></html>")

	return b.String()
}
