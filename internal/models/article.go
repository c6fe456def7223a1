// Package models defines data structures shared by the collector, crawler, normalizer and web front end.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decoding errors.
var (
	ErrInvalidParagraphs = errors.New("contenido must be a string or a list of strings")
	ErrNotAnObject       = errors.New("record must be a JSON object")
)

// ListingEntry is one article discovered on an index page or feed.
type ListingEntry struct {
	Title       string `json:"titulo"`
	Link        string `json:"link"`
	PublishedAt string `json:"fecha_publicacion"`
}

// ImageRef is an image associated with an article.
type ImageRef struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Credit  string `json:"credit"`
}

// ArticleRecord is a fully extracted article.
type ArticleRecord struct {
	ID          RecordID   `json:"id"`
	SourceName  string     `json:"diario"`
	ExtractedAt string     `json:"fecha_extraccion"`
	PublishedAt string     `json:"fecha_publicacion"`
	Title       string     `json:"titulo"`
	Paragraphs  Paragraphs `json:"contenido"`
	URL         string     `json:"url"`
	Images      []ImageRef `json:"imagenes"`

	// source is the object the record was decoded from, keys in input order.
	source    []rawField
	decodeErr error
}

type rawField struct {
	key   string
	value json.RawMessage
}

// UnmarshalJSON decodes a record field by field. A field of the wrong type is left
// at its zero value and reported by DecodeErr; the rest of the record still decodes.
func (r *ArticleRecord) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	*r = ArticleRecord{source: fields}

	var errs []error

	for _, f := range fields {
		var target any

		switch f.key {
		case "id":
			target = &r.ID
		case "diario":
			target = &r.SourceName
		case "fecha_extraccion":
			target = &r.ExtractedAt
		case "fecha_publicacion":
			target = &r.PublishedAt
		case "titulo":
			target = &r.Title
		case "contenido":
			target = &r.Paragraphs
		case "url":
			target = &r.URL
		case "imagenes":
			target = &r.Images
		default:
			continue
		}

		if err := json.Unmarshal(f.value, target); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", f.key, err))

			// a list with a bad element decodes partially
			if f.key == "imagenes" {
				r.Images = nil
			}
		}
	}

	r.decodeErr = errors.Join(errs...)

	return nil
}

// DecodeErr reports the fields that could not be decoded, or nil.
func (r *ArticleRecord) DecodeErr() error {
	return r.decodeErr
}

// decodeObject splits a JSON object into its members, keeping their order and raw values.
func decodeObject(data []byte) ([]rawField, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotAnObject
	}

	var fields []rawField

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		fields = append(fields, rawField{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return fields, nil
}

// NormalizedRecord is an ArticleRecord plus the normalizer's derived fields.
// A record decoded from JSON is written back with its original members and shapes,
// followed by the derived fields.
type NormalizedRecord struct {
	ArticleRecord

	TitleNormalized string `json:"titulo_normalizado"`
	BodyNormalized  string `json:"contenido_normalizado"`
}

// derived holds the normalizer's fields for decoding.
type derived struct {
	TitleNormalized string `json:"titulo_normalizado"`
	BodyNormalized  string `json:"contenido_normalizado"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NormalizedRecord) UnmarshalJSON(data []byte) error {
	if err := n.ArticleRecord.UnmarshalJSON(data); err != nil {
		return err
	}

	var d derived
	if err := json.Unmarshal(data, &d); err != nil {
		n.decodeErr = errors.Join(n.decodeErr, fmt.Errorf("normalized fields: %w", err))

		return nil
	}

	n.TitleNormalized = d.TitleNormalized
	n.BodyNormalized = d.BodyNormalized

	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NormalizedRecord) MarshalJSON() ([]byte, error) {
	if n.source == nil {
		return encodeNoEscape(struct {
			ArticleRecord
			derived
		}{n.ArticleRecord, derived{n.TitleNormalized, n.BodyNormalized}})
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for _, f := range n.source {
		if f.key == "titulo_normalizado" || f.key == "contenido_normalizado" {
			continue
		}

		if err := writeMember(&buf, f.key, f.value); err != nil {
			return nil, err
		}

		buf.WriteByte(',')
	}

	title, err := encodeNoEscape(n.TitleNormalized)
	if err != nil {
		return nil, err
	}

	body, err := encodeNoEscape(n.BodyNormalized)
	if err != nil {
		return nil, err
	}

	if err := writeMember(&buf, "titulo_normalizado", title); err != nil {
		return nil, err
	}

	buf.WriteByte(',')

	if err := writeMember(&buf, "contenido_normalizado", body); err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value json.RawMessage) error {
	k, err := encodeNoEscape(key)
	if err != nil {
		return err
	}

	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(value)

	return nil
}

// encodeNoEscape marshals v without escaping <, > and &.
func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// RecordID is the synthetic article identifier. It decodes from a JSON number or a numeric string.
type RecordID int64

// String returns the decimal form of the id.
func (id RecordID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts 2026101812300000001 as well as "2026101812300000001".
func (id *RecordID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*id = 0

		return nil
	}

	raw = strings.Trim(raw, `"`)

	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q: %w", raw, err)
	}

	*id = RecordID(v)

	return nil
}

// Paragraphs is the ordered body text of an article.
// It decodes from a list of strings, a single string, or null.
type Paragraphs []string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Paragraphs) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*p = nil

		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*p = Paragraphs{s}

		return nil
	case len(data) > 0 && data[0] == '[':
		var list []any
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}

		out := make(Paragraphs, 0, len(list))
		for _, item := range list {
			switch v := item.(type) {
			case string:
				out = append(out, v)
			case nil:
				out = append(out, "")
			default:
				out = append(out, fmt.Sprint(v))
			}
		}

		*p = out

		return nil
	}

	return ErrInvalidParagraphs
}

// Joined returns the paragraphs joined with sep.
func (p Paragraphs) Joined(sep string) string {
	return strings.Join(p, sep)
}
