// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for supplier resolution.
// Signals flow from feeders to the authority; Suggestions are the only
// values the authority hands back to its callers.
package types

import "strings"

// SignalType identifies the evidence source and strength bucket of a Signal.
type SignalType string

const (
	SignalOverrideExact        SignalType = "override_exact"
	SignalAliasExact           SignalType = "alias_exact"
	SignalLearningConfirmation SignalType = "learning_confirmation"
	SignalLearningRejection    SignalType = "learning_rejection"
	SignalFuzzyStrong          SignalType = "fuzzy_official_strong"
	SignalFuzzyMedium          SignalType = "fuzzy_official_medium"
	SignalFuzzyWeak            SignalType = "fuzzy_official_weak"
	SignalAnchorUnique         SignalType = "entity_anchor_unique"
	SignalAnchorGeneric        SignalType = "entity_anchor_generic"
	SignalHistoricalFrequent   SignalType = "historical_frequent"
	SignalHistoricalOccasional SignalType = "historical_occasional"
)

// AllSignalTypes lists every signal type in descending default base score.
var AllSignalTypes = []SignalType{
	SignalOverrideExact,
	SignalAliasExact,
	SignalLearningConfirmation,
	SignalFuzzyStrong,
	SignalAnchorUnique,
	SignalHistoricalFrequent,
	SignalFuzzyMedium,
	SignalHistoricalOccasional,
	SignalAnchorGeneric,
	SignalFuzzyWeak,
	SignalLearningRejection,
}

// IsFuzzy reports whether the type comes from string similarity.
func (t SignalType) IsFuzzy() bool {
	return strings.HasPrefix(string(t), "fuzzy_")
}

// Metadata keys carried by signals.
const (
	MetaSource            = "source"
	MetaMatchedText       = "matched_text"
	MetaConfirmationCount = "confirmation_count"
	MetaRejectionCount    = "rejection_count"
	MetaSimilarity        = "similarity"
	MetaMatchCount        = "match_count"
	MetaReason            = "reason"
	MetaCreatedBy         = "created_by"
)

// Signal is one piece of raw evidence about one candidate supplier.
// RawStrength is always within [0, 1].
type Signal struct {
	// CandidateID is the opaque identifier of a known supplier.
	CandidateID string `json:"candidate_id" yaml:"candidate_id"`

	Type SignalType `json:"signal_type" yaml:"signal_type"`

	RawStrength float64 `json:"raw_strength" yaml:"raw_strength"`

	// Metadata carries provenance: source name, matched text, counts.
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewSignal returns a Signal with RawStrength clamped into [0, 1].
func NewSignal(candidateID string, t SignalType, strength float64, meta map[string]any) Signal {
	if strength < 0 {
		strength = 0
	}
	if strength > 1 {
		strength = 1
	}
	return Signal{CandidateID: candidateID, Type: t, RawStrength: strength, Metadata: meta}
}

// Count returns a non-negative integer count stored under key, or 0.
func (s Signal) Count(key string) int {
	v, ok := s.Metadata[key]
	if !ok {
		return 0
	}
	var n int
	switch x := v.(type) {
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		n = int(x)
	}
	if n < 0 {
		return 0
	}
	return n
}
