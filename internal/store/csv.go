package store

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"willaykuna/internal/models"
)

// utf8BOM opens every CSV so spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column layouts.
var (
	ListingHeader    = []string{"titulo", "link", "fecha_publicacion"}
	DetailHeader     = []string{"id", "diario", "fecha_extraccion", "fecha_publicacion", "titulo", "url", "contenido", "imagenes"}
	NormalizedHeader = []string{"id", "diario", "fecha_extraccion", "fecha_publicacion", "url", "titulo_normalizado", "contenido_normalizado"}
)

const paragraphSeparator = " || "

// WriteListingCSV writes listing entries as comma-separated rows.
func WriteListingCSV(path string, entries []models.ListingEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Title, e.Link, e.PublishedAt})
	}

	return writeCSV(path, ',', ListingHeader, rows)
}

// WriteDetailCSV writes article records with paragraphs joined by " || " and images as embedded JSON.
func WriteDetailCSV(path string, records []models.ArticleRecord) error {
	rows := make([][]string, 0, len(records))

	for _, r := range records {
		images := r.Images
		if images == nil {
			images = []models.ImageRef{}
		}

		imagesJSON, err := MarshalJSON(images, false)
		if err != nil {
			return err
		}

		rows = append(rows, []string{
			r.ID.String(),
			r.SourceName,
			r.ExtractedAt,
			r.PublishedAt,
			r.Title,
			r.URL,
			r.Paragraphs.Joined(paragraphSeparator),
			string(bytes.TrimRight(imagesJSON, "\n")),
		})
	}

	return writeCSV(path, ',', DetailHeader, rows)
}

// WriteNormalizedCSV writes normalized records as semicolon-separated rows.
func WriteNormalizedCSV(path string, records []models.NormalizedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID.String(),
			r.SourceName,
			r.ExtractedAt,
			r.PublishedAt,
			r.URL,
			r.TitleNormalized,
			r.BodyNormalized,
		})
	}

	return writeCSV(path, ';', NormalizedHeader, rows)
}

func writeCSV(path string, comma rune, header []string, rows [][]string) error {
	var buf bytes.Buffer

	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = comma

	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}

	return writeFile(path, buf.Bytes())
}
