package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleRecord_LooseDecode(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		id         RecordID
		paragraphs Paragraphs
	}{
		{"number id and list", `{"id": 2026101812300000001, "contenido": ["a", "b"]}`, 2026101812300000001, Paragraphs{"a", "b"}},
		{"string id and string body", `{"id": "2026101812300000002", "contenido": "solo texto"}`, 2026101812300000002, Paragraphs{"solo texto"}},
		{"null body", `{"id": 7, "contenido": null}`, 7, nil},
		{"missing id", `{"contenido": [1, null, "x"]}`, 0, Paragraphs{"1", "", "x"}},
		{"empty string id", `{"id": ""}`, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec ArticleRecord
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &rec))
			assert.Equal(t, tt.id, rec.ID)
			assert.Equal(t, tt.paragraphs, rec.Paragraphs)
		})
	}
}

func TestArticleRecord_InvalidFieldsKeepRecord(t *testing.T) {
	var rec ArticleRecord

	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc", "titulo": "Sigue", "contenido": {"a": 1}, "imagenes": [{"url": 3}]}`), &rec))

	assert.Equal(t, RecordID(0), rec.ID)
	assert.Equal(t, "Sigue", rec.Title)
	assert.Nil(t, rec.Paragraphs)
	assert.Nil(t, rec.Images)
	require.Error(t, rec.DecodeErr())
	assert.ErrorIs(t, rec.DecodeErr(), ErrInvalidParagraphs)
	assert.Contains(t, rec.DecodeErr().Error(), "field id")
	assert.Contains(t, rec.DecodeErr().Error(), "field imagenes")

	var clean ArticleRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1.0e0}`), &clean))
	assert.Error(t, clean.DecodeErr(), "a float id is not an integer id")

	require.NoError(t, json.Unmarshal([]byte(`{"id": 5}`), &clean))
	assert.NoError(t, clean.DecodeErr())
}

func TestArticleRecord_NotAnObject(t *testing.T) {
	var records []ArticleRecord

	assert.ErrorIs(t, json.Unmarshal([]byte(`[{"id": 1}, 2]`), &records), ErrNotAnObject)
}

func TestNormalizedRecord_KeepsInputShape(t *testing.T) {
	var rec ArticleRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc", "contenido": "Texto plano.", "extra": {"k": [1, 2]}, "titulo_normalizado": "viejo"}`), &rec))

	data, err := json.Marshal(NormalizedRecord{
		ArticleRecord:   rec,
		TitleNormalized: "Niños & <jóvenes>",
		BodyNormalized:  "Texto plano.",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "abc",
		"contenido": "Texto plano.",
		"extra": {"k": [1, 2]},
		"titulo_normalizado": "Niños & <jóvenes>",
		"contenido_normalizado": "Texto plano."
	}`, string(data))
	assert.True(t, strings.HasPrefix(string(data), `{"id":"abc","contenido":"Texto plano.","extra":`), string(data))
	assert.NotContains(t, string(data), "imagenes")
	assert.NotContains(t, string(data), "viejo")
}

func TestNormalizedRecord_FlatJSON(t *testing.T) {
	rec := NormalizedRecord{
		ArticleRecord:   ArticleRecord{ID: 42, Title: "T & U", Paragraphs: Paragraphs{"p"}},
		TitleNormalized: "T & U",
		BodyNormalized:  "p",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.InDelta(t, 42, flat["id"], 0)
	assert.Equal(t, "T & U", flat["titulo_normalizado"])
	assert.Equal(t, "p", flat["contenido_normalizado"])
	assert.NotContains(t, flat, "ArticleRecord")

	assert.NotContains(t, string(data), `\u0026`)

	var back NormalizedRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.EqualExportedValues(t, rec, back)
	assert.NoError(t, back.DecodeErr())
}

func TestRecordID_String(t *testing.T) {
	assert.Equal(t, "2026101812300000001", RecordID(2026101812300000001).String())
}
