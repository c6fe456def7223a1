package normalizer

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"willaykuna/internal/logger"
	"willaykuna/internal/metrics"
	"willaykuna/internal/models"
)

func TestProcessor_ProcessAll(t *testing.T) {
	var buf bytes.Buffer

	m := metrics.New()
	p := NewProcessorWithDeps(logger.New(logger.Options{Output: &buf}), m)

	records := []models.ArticleRecord{
		{ID: 1, SourceName: "RPP", Title: "ALERTA EN LIMA", Paragraphs: models.Paragraphs{"Uno .", "Dos…"}, URL: "https://rpp.pe/1"},
		{Title: "", Paragraphs: nil},
	}

	out := p.ProcessAll(records)

	require.Len(t, out, 2)
	assert.Equal(t, "Alerta en lima", out[0].TitleNormalized)
	assert.Equal(t, "Uno. Dos...", out[0].BodyNormalized)
	assert.Equal(t, models.RecordID(1), out[0].ID)

	// incomplete records are kept with empty derived fields
	assert.Empty(t, out[1].TitleNormalized)
	assert.Empty(t, out[1].BodyNormalized)
	assert.Contains(t, buf.String(), "record incomplete")

	assert.InDelta(t, 2, testutil.ToFloat64(m.RecordsNormalized), 0)
}

func TestProcessor_Defaults(t *testing.T) {
	p := NewProcessor()

	out := p.Process(models.ArticleRecord{Title: "“Cita”"})
	assert.Equal(t, `"Cita"`, out.TitleNormalized)
	assert.NotNil(t, p.Transformer())
}
