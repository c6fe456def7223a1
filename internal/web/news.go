package web

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedNews is returned when the news file is not valid JSON.
var ErrMalformedNews = errors.New("news file is not valid JSON")

// NewsItem is the display model rendered by the templates.
type NewsItem struct {
	ID            string
	Title         string
	Text          string
	ImageURL      string
	AudioFilename string

	order int64
}

// BodyKind tags which field a record's text came from.
type BodyKind int

// Body variants.
const (
	BodyNone BodyKind = iota
	BodyText
	BodyParagraphs
	BodyString
)

// Body is the decoded text of a record.
type Body struct {
	Kind       BodyKind
	Text       string
	Paragraphs []string
}

// Render returns the display text: paragraphs are separated by blank lines.
func (b Body) Render() string {
	switch b.Kind {
	case BodyText, BodyString:
		return strings.TrimSpace(b.Text)
	case BodyParagraphs:
		kept := make([]string, 0, len(b.Paragraphs))

		for _, p := range b.Paragraphs {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}

		return strings.Join(kept, "\n\n")
	default:
		return ""
	}
}

// ImageKind tags which field a record's image came from.
type ImageKind int

// Image variants.
const (
	ImageNone ImageKind = iota
	ImageDirect
	ImageList
)

// Image is the decoded lead image of a record.
type Image struct {
	Kind ImageKind
	URL  string
}

// decodeBody prefers "texto" when it is a string, then "contenido" as a list or a scalar.
func decodeBody(raw gjson.Result) Body {
	if texto := raw.Get("texto"); texto.Type == gjson.String {
		return Body{Kind: BodyText, Text: texto.Str}
	}

	contenido := raw.Get("contenido")

	switch {
	case contenido.IsArray():
		var paragraphs []string

		contenido.ForEach(func(_, v gjson.Result) bool {
			paragraphs = append(paragraphs, scalarString(v))

			return true
		})

		return Body{Kind: BodyParagraphs, Paragraphs: paragraphs}
	case contenido.Exists() && contenido.Type != gjson.Null:
		return Body{Kind: BodyString, Text: scalarString(contenido)}
	default:
		return Body{Kind: BodyNone}
	}
}

// decodeImage prefers "imagen" when it is a string, then the url of the first "imagenes" entry.
func decodeImage(raw gjson.Result) Image {
	if imagen := raw.Get("imagen"); imagen.Type == gjson.String {
		return Image{Kind: ImageDirect, URL: strings.TrimSpace(imagen.Str)}
	}

	imagenes := raw.Get("imagenes")
	if !imagenes.IsArray() {
		return Image{Kind: ImageNone}
	}

	first := imagenes.Get("0")
	if !first.IsObject() {
		return Image{Kind: ImageNone}
	}

	url := first.Get("url")
	if !url.Exists() || url.Type == gjson.Null {
		return Image{Kind: ImageList}
	}

	return Image{Kind: ImageList, URL: strings.TrimSpace(scalarString(url))}
}

// decodeID returns the record id as written and its integer value.
// Records without an integer id are not displayable.
func decodeID(raw gjson.Result) (string, int64, bool) {
	v := raw.Get("id")

	var id string

	switch v.Type {
	case gjson.String:
		id = strings.TrimSpace(v.Str)
	case gjson.Number:
		id = strings.TrimSpace(v.Raw)
	default:
		return "", 0, false
	}

	if id == "" {
		return "", 0, false
	}

	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", 0, false
	}

	return id, n, true
}

func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}

// DecodeItem converts one raw record into a display item.
func DecodeItem(raw gjson.Result) (NewsItem, bool) {
	if !raw.IsObject() {
		return NewsItem{}, false
	}

	id, order, ok := decodeID(raw)
	if !ok {
		return NewsItem{}, false
	}

	title := raw.Get("titulo")

	return NewsItem{
		ID:            id,
		Title:         strings.TrimSpace(title.Str),
		Text:          decodeBody(raw).Render(),
		ImageURL:      decodeImage(raw).URL,
		AudioFilename: id + ".wav",
		order:         order,
	}, true
}

// ParseNews decodes a news document: either a bare list of records or an object with an "items" list.
// Undisplayable records are dropped; the rest are sorted by integer id.
func ParseNews(data []byte) ([]NewsItem, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedNews
	}

	doc := gjson.ParseBytes(data)
	if doc.IsObject() {
		doc = doc.Get("items")
	}

	items := []NewsItem{}

	if !doc.IsArray() {
		return items, nil
	}

	doc.ForEach(func(_, raw gjson.Result) bool {
		if item, ok := DecodeItem(raw); ok {
			items = append(items, item)
		}

		return true
	})

	slices.SortStableFunc(items, func(a, b NewsItem) int {
		switch {
		case a.order < b.order:
			return -1
		case a.order > b.order:
			return 1
		default:
			return 0
		}
	})

	return items, nil
}

// LoadNews reads and decodes the news file. A missing file yields an empty list.
func LoadNews(path string) ([]NewsItem, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []NewsItem{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read news file: %w", err)
	}

	return ParseNews(data)
}

// FindNews returns the item whose id matches exactly.
func FindNews(items []NewsItem, id string) (NewsItem, bool) {
	idx := slices.IndexFunc(items, func(n NewsItem) bool { return n.ID == id })
	if idx < 0 {
		return NewsItem{}, false
	}

	return items[idx], true
}
