// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Level is a coarse confidence band. B is high, C medium, D low.
type Level string

const (
	LevelB Level = "B"
	LevelC Level = "C"
	LevelD Level = "D"

	// LevelNone marks a confidence below the lowest band. Such candidates
	// never become Suggestions.
	LevelNone Level = ""
)

// ErrInvalidSuggestion reports a Suggestion that violates its construction
// invariants. It indicates a miscalibrated calculator, not bad user input.
var ErrInvalidSuggestion = errors.New("invalid suggestion")

var validate = validator.New()

// Suggestion is a ranked candidate supplier returned to callers.
// Build it with NewSuggestion; the zero value is not valid.
type Suggestion struct {
	SupplierID   string `json:"supplier_id" yaml:"supplier_id" validate:"required"`
	OfficialName string `json:"official_name" yaml:"official_name"`
	EnglishName  string `json:"english_name,omitempty" yaml:"english_name,omitempty"`

	Confidence int   `json:"confidence" yaml:"confidence" validate:"min=0,max=100"`
	Level      Level `json:"level" yaml:"level" validate:"oneof=B C D"`

	// Reason is the human-readable justification.
	Reason string `json:"reason" yaml:"reason" validate:"required"`

	ConfirmationCount int `json:"confirmation_count" yaml:"confirmation_count" validate:"min=0"`
	RejectionCount    int `json:"rejection_count" yaml:"rejection_count" validate:"min=0"`
	UsageCount        int `json:"usage_count" yaml:"usage_count" validate:"min=0"`

	PrimarySource SignalType `json:"primary_source" yaml:"primary_source"`
	SignalCount   int        `json:"signal_count" yaml:"signal_count"`

	IsAmbiguous          bool `json:"is_ambiguous" yaml:"is_ambiguous"`
	RequiresConfirmation bool `json:"requires_confirmation" yaml:"requires_confirmation"`
}

// NewSuggestion validates s against its field constraints and checks that
// its Level is the band th assigns to its Confidence.
func NewSuggestion(s Suggestion, th LevelThresholds) (Suggestion, error) {
	if err := validate.Struct(s); err != nil {
		return Suggestion{}, fmt.Errorf("%w: supplier %q: %w", ErrInvalidSuggestion, s.SupplierID, err)
	}
	if want := th.Level(s.Confidence); want != s.Level {
		return Suggestion{}, fmt.Errorf("%w: supplier %q: confidence %d maps to level %q, got %q",
			ErrInvalidSuggestion, s.SupplierID, s.Confidence, want, s.Level)
	}
	return s, nil
}
