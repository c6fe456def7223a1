package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"willaykuna/internal/models"
)

// Validation findings. None of them stops a record from being normalized.
var (
	ErrMissingID     = errors.New("record has no id")
	ErrMissingTitle  = errors.New("record has no title")
	ErrEmptyContent  = errors.New("record has no content")
	ErrMissingURL    = errors.New("record has no url")
	ErrMissingDiario = errors.New("record has no source name")
	ErrInvalidField  = errors.New("record has fields of the wrong type")
)

// Validator checks extracted records for missing fields.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns every problem found in rec joined into one error, or nil.
func (v *Validator) Validate(rec *models.ArticleRecord) error {
	var errs []error

	if err := rec.DecodeErr(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidField, err))
	}

	if rec.ID == 0 {
		errs = append(errs, ErrMissingID)
	}

	if strings.TrimSpace(rec.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}

	if strings.TrimSpace(rec.Paragraphs.Joined("")) == "" {
		errs = append(errs, ErrEmptyContent)
	}

	if rec.URL == "" {
		errs = append(errs, ErrMissingURL)
	}

	if rec.SourceName == "" {
		errs = append(errs, ErrMissingDiario)
	}

	return errors.Join(errs...)
}
