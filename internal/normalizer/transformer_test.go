package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"willaykuna/internal/models"
)

func TestTransformer_Clean(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"url removed", "Ver más en https://rpp.pe/x?y=1 ahora", "Ver más en ahora"},
		{"url stops at nbsp", "Fuente: https://rpp.pe/a\u00a0Lima", "Fuente: Lima"},
		{"nbsp", "a\u00a0b", "a b"},
		{"symbols and live marker", "► Lima: EN VIVO la marcha", "Lima: la marcha"},
		{"bracket video", "[ VIDEO ] Presidente habla", "Presidente habla"},
		{"paren video", "Presidente habla (video)", "Presidente habla"},
		{"read also", "Lee también: Otra nota", "Otra nota"},
		{"more info accented", "Más información sobre el sismo", "sobre el sismo"},
		{"more info plain", "MAS INFORMACION sobre el sismo", "sobre el sismo"},
		{"watch the video", "Mira el video (VIDEO) aquí", "aquí"},
		{"here the video", "Aquí el video del accidente", "del accidente"},
		{"transmission", "Transmisión desde Cusco", "desde Cusco"},
		{"podcast and listen", "Escucha el podcast completo", "el completo"},
		{"space before punctuation", "Hola , mundo ! ¿Qué tal ?", "Hola, mundo! ¿Qué tal?"},
		{"whitespace runs", "uno\t\n  dos tres", "uno dos tres"},
		{"bullets anywhere", "•Uno ● dos ▶tres", "Uno dos tres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Clean(tt.in))
		})
	}
}

func TestTransformer_Orthography(t *testing.T) {
	tr := NewTransformer()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quotes dashes ellipsis", "“Hola” —dijo… ‘sí’ – l´s", `"Hola" -dijo... 'sí' - l's`},
		{"long caps", "ALERTA EN LIMA", "Alerta en lima"},
		{"accented caps", "ÚLTIMA HORA EN PIURA", "Última hora en piura"},
		{"short caps kept", "ALERTA", "ALERTA"},
		{"eight chars kept", "ABCDEFGH", "ABCDEFGH"},
		{"nine chars", "ABCDEFGHI", "Abcdefghi"},
		{"mixed case kept", "Congreso APRUEBA ley", "Congreso APRUEBA ley"},
		{"no letters", "123 456 789", "123 456 789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Orthography(tt.in))
		})
	}
}

func TestTransformer_Normalize_Idempotent(t *testing.T) {
	tr := NewTransformer()

	inputs := []string{
		"hola …",
		"  “EN VIVO” ► ÚLTIMA HORA: SISMO EN LIMA  ",
		"Texto con https://rpp.pe/enlace y , comas .",
		"Lee también : VER VIDEO Otra cosa",
		"PALABRA … OTRA",
		"—Dijo el ministro — ante la prensa…",
		"[VIDEO] (VIDEO) ESCUCHA",
		"",
		"   ",
	}

	for _, in := range inputs {
		once := tr.Normalize(in)
		assert.Equal(t, once, tr.Normalize(once), "Normalize not idempotent for %q", in)
	}

	assert.Equal(t, "hola...", tr.Normalize("hola …"))
}

func TestTransformer_NormalizeBody(t *testing.T) {
	tr := NewTransformer()

	got := tr.NormalizeBody([]string{"Paragraph one.", "  ", "► EN VIVO", "Paragraph two."})
	assert.Equal(t, "Paragraph one. Paragraph two.", got)

	assert.Empty(t, tr.NormalizeBody(nil))
}

func TestTransformer_Transform(t *testing.T) {
	tr := NewTransformer()

	rec := models.ArticleRecord{
		ID:          2026101812300000001,
		SourceName:  "RPP",
		ExtractedAt: "2026-10-18T12:30:00.000000-05:00",
		Title:       "  Headline  ",
		Paragraphs:  models.Paragraphs{"Paragraph one.", "Paragraph two."},
		URL:         "https://rpp.pe/nota",
		Images:      []models.ImageRef{{URL: "https://img/1.jpg", Credit: "RPP"}},
	}

	out := tr.Transform(rec)

	assert.Equal(t, "Headline", out.TitleNormalized)
	assert.Equal(t, "Paragraph one. Paragraph two.", out.BodyNormalized)
	assert.Equal(t, rec, out.ArticleRecord)
}
