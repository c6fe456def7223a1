package crawler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "Sin puntuación final", []string{"Sin puntuación final"}},
		{"three kinds", "Uno. Dos! Tres? Cuatro", []string{"Uno.", "Dos!", "Tres?", "Cuatro"}},
		{"no space after dot", "Son 3.5 millones. Fin.", []string{"Son 3.5 millones.", "Fin."}},
		{"newlines", "Uno.\n\nDos. Tres.", []string{"Uno.", "Dos.", "Tres."}},
		{"trailing boundary", "Uno. ", []string{"Uno.", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestChunkParagraphs_GreedyFlush(t *testing.T) {
	paragraphs := ChunkParagraphs("Uno. Dos! Tres? Cuatro", 1)
	assert.Equal(t, []string{"Uno.", "Dos!", "Tres?", "Cuatro"}, paragraphs)

	paragraphs = ChunkParagraphs("Aaaa. Bbbb. Cccc. Dddd.", 11)
	// "Aaaa. Bbbb." reaches 11 characters and flushes; the rest flushes the same way.
	assert.Equal(t, []string{"Aaaa. Bbbb.", "Cccc. Dddd."}, paragraphs)
}

func TestChunkParagraphs_ReconstructsBody(t *testing.T) {
	sentence := "La municipalidad anunció nuevas obras para el distrito durante la semana. "
	body := strings.TrimSpace(strings.Repeat(sentence, 12))

	paragraphs := ChunkParagraphs(body, 300)

	assert.Greater(t, len(paragraphs), 1)
	assert.Equal(t, body, strings.Join(paragraphs, " "))

	for _, p := range paragraphs[:len(paragraphs)-1] {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(p), 300)
	}
}

func TestChunkParagraphs_SeparatorDoesNotCountTowardMinimum(t *testing.T) {
	// 299 characters plus the joining space would reach 300 if the space counted.
	body := strings.Repeat("a", 298) + ". " + strings.Repeat("b", 400) + "."

	paragraphs := ChunkParagraphs(body, 300)

	assert.Equal(t, []string{body}, paragraphs)
	assert.False(t, TooShort(paragraphs, 300))

	body = strings.Repeat("a", 299) + ". " + strings.Repeat("b", 400) + "."

	paragraphs = ChunkParagraphs(body, 300)
	assert.Equal(t, []string{strings.Repeat("a", 299) + ".", strings.Repeat("b", 400) + "."}, paragraphs)
	assert.Equal(t, 300, utf8.RuneCountInString(paragraphs[0]))
}

func TestChunkParagraphs_CountsCharactersNotBytes(t *testing.T) {
	// 150 two-byte runes: 300 bytes but only 150 characters.
	body := strings.Repeat("ñ", 150)

	paragraphs := ChunkParagraphs(body, 300)
	assert.Len(t, paragraphs, 1)
	assert.True(t, TooShort(paragraphs, 300))
}

func TestTooShort(t *testing.T) {
	long := strings.Repeat("a", 300)

	assert.True(t, TooShort(nil, 300))
	assert.True(t, TooShort([]string{strings.Repeat("a", 299)}, 300))
	assert.False(t, TooShort([]string{long}, 300))
	assert.False(t, TooShort([]string{"corto", "también corto"}, 300))
	assert.Empty(t, ChunkParagraphs("   ", 300))
}
