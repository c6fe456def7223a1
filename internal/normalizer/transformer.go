package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"willaykuna/internal/models"
)

// maxPasses bounds the fixed-point iteration in Normalize.
const maxPasses = 8

// capsMinLength is the length above which an all-caps string is rewritten in sentence case.
const capsMinLength = 8

// Unicode whitespace classes; Go's \s alone is ASCII only.
const (
	space    = `[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`
	nonSpace = `[^\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`
)

var editorialPatterns = []string{
	`\[\s*VIDEO\s*\]`,
	`\(\s*VIDEO\s*\)`,
	`\bVIDEO\s*:\b`,
	`\bVER\s+VIDEO\b`,
	`\bMIRA\s+EL\s+VIDEO\b`,
	`\bEN\s+VIVO\b`,
	`\bTRANSMISI[ÓO]N\b`,
	`\bPODCAST\b`,
	`\bESCUCHA\b`,
	`\bAQU[IÍ]\s+EL\s+VIDEO\b`,
	`\bM[ÁA]S\s+INFORMACI[ÓO]N\b`,
	`\bLEE\s+TAMBI[ÉE]N\b\s*:?`,
}

// Transformer cleans editorial noise out of article text.
type Transformer struct {
	urlPattern      *regexp.Regexp
	symbolPattern   *regexp.Regexp
	editorial       []*regexp.Regexp
	whitespace      *regexp.Regexp
	spaceBeforePunc *regexp.Regexp
	typography      *strings.Replacer
}

// NewTransformer creates a new transformer instance.
func NewTransformer() *Transformer {
	return &Transformer{
		urlPattern:    regexp.MustCompile(`https?://` + nonSpace + `+`),
		symbolPattern: regexp.MustCompile(`[►▶●•]`),
		editorial: lo.Map(editorialPatterns, func(p string, _ int) *regexp.Regexp {
			return regexp.MustCompile(`(?i)` + p)
		}),
		whitespace:      regexp.MustCompile(space + `+`),
		spaceBeforePunc: regexp.MustCompile(space + `+([,.;:!?])`),
		typography: strings.NewReplacer(
			"“", `"`,
			"”", `"`,
			"‘", "'",
			"’", "'",
			"—", "-",
			"–", "-",
			"…", "...",
			"´", "'",
		),
	}
}

// Clean applies the cleanup steps in order: URLs, non-breaking spaces, bullet symbols,
// editorial markers, whitespace runs, space before punctuation, trim.
func (t *Transformer) Clean(s string) string {
	if s == "" {
		return ""
	}

	s = t.urlPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = t.symbolPattern.ReplaceAllString(s, "")

	for _, re := range t.editorial {
		s = re.ReplaceAllString(s, "")
	}

	s = t.whitespace.ReplaceAllString(s, " ")
	s = t.spaceBeforePunc.ReplaceAllString(s, "$1")

	return strings.TrimSpace(s)
}

// Orthography maps typographic quotes, dashes and ellipses to ASCII and
// rewrites long all-caps strings in sentence case.
func (t *Transformer) Orthography(s string) string {
	if s == "" {
		return ""
	}

	s = t.typography.Replace(s)

	if isAllCaps(s) && utf8.RuneCountInString(s) > capsMinLength {
		s = sentenceCase(s)
	}

	return strings.TrimSpace(s)
}

// Normalize runs Clean then Orthography until the text stops changing.
// Normalize(Normalize(s)) == Normalize(s).
func (t *Transformer) Normalize(s string) string {
	for range maxPasses {
		next := t.Orthography(t.Clean(s))
		if next == s {
			return next
		}

		s = next
	}

	return s
}

// NormalizeBody normalizes each paragraph, drops the empty ones, joins the rest
// with single spaces and normalizes the joined text once more.
func (t *Transformer) NormalizeBody(paragraphs []string) string {
	cleaned := lo.Map(paragraphs, func(p string, _ int) string {
		return t.Normalize(p)
	})

	kept := lo.Filter(cleaned, func(p string, _ int) bool {
		return p != ""
	})

	return t.Normalize(strings.Join(kept, " "))
}

// Transform derives the normalized fields of a record. The source fields are carried over unchanged.
func (t *Transformer) Transform(rec models.ArticleRecord) models.NormalizedRecord {
	return models.NormalizedRecord{
		ArticleRecord:   rec,
		TitleNormalized: t.Normalize(rec.Title),
		BodyNormalized:  t.NormalizeBody(rec.Paragraphs),
	}
}

// isAllCaps reports whether s has at least one cased letter and no lowercase ones.
func isAllCaps(s string) bool {
	cased := false

	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}

	return cased
}

// sentenceCase upper-cases the first character and lower-cases the rest.
func sentenceCase(s string) string {
	first, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToTitle(first)) + strings.ToLower(s[size:])
}
