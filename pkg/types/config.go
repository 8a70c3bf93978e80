// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
)

// DisplayFloor is the hard minimum confidence for a Suggestion to be shown.
// It does not move with LevelThresholds.
const DisplayFloor = 40

// LevelThresholds holds the lower bound of each confidence band.
type LevelThresholds struct {
	B int `json:"b" yaml:"b" mapstructure:"b"`
	C int `json:"c" yaml:"c" mapstructure:"c"`
	D int `json:"d" yaml:"d" mapstructure:"d"`
}

// Level returns the band for confidence. Anything at or above DisplayFloor
// is at least LevelD, so a stricter D never hides a displayable candidate.
func (th LevelThresholds) Level(confidence int) Level {
	switch {
	case confidence >= th.B:
		return LevelB
	case confidence >= th.C:
		return LevelC
	case confidence >= th.D, confidence >= DisplayFloor:
		return LevelD
	default:
		return LevelNone
	}
}

// BoostTier adds Boost points once confirmations reach Min.
type BoostTier struct {
	Min   int `json:"min" yaml:"min" mapstructure:"min"`
	Boost int `json:"boost" yaml:"boost" mapstructure:"boost"`
}

// ScoringConfig holds every tunable of the confidence calculation.
type ScoringConfig struct {
	// BaseScores maps a signal type to its base score (40-100).
	BaseScores map[string]int `json:"base_scores" yaml:"base_scores" mapstructure:"base_scores"`

	// DefaultBaseScore applies to signal types missing from BaseScores.
	DefaultBaseScore int `json:"default_base_score" yaml:"default_base_score" mapstructure:"default_base_score"`

	ConfirmBoost []BoostTier `json:"confirm_boost" yaml:"confirm_boost" mapstructure:"confirm_boost"`

	// RejectionPenaltyPct is the share of confidence lost per rejection.
	RejectionPenaltyPct int `json:"rejection_penalty_pct" yaml:"rejection_penalty_pct" mapstructure:"rejection_penalty_pct"`

	Levels LevelThresholds `json:"levels" yaml:"levels" mapstructure:"levels"`

	// FuzzyStrengthPivot and FuzzyStrengthScale shape the fuzzy strength
	// modifier: round((strength - pivot) * scale).
	FuzzyStrengthPivot float64 `json:"fuzzy_strength_pivot" yaml:"fuzzy_strength_pivot" mapstructure:"fuzzy_strength_pivot"`
	FuzzyStrengthScale float64 `json:"fuzzy_strength_scale" yaml:"fuzzy_strength_scale" mapstructure:"fuzzy_strength_scale"`

	// AmbiguitySpread is the strength spread above which a candidate is ambiguous.
	AmbiguitySpread float64 `json:"ambiguity_spread" yaml:"ambiguity_spread" mapstructure:"ambiguity_spread"`
}

// FuzzyConfig holds similarity thresholds for the fuzzy feeder.
type FuzzyConfig struct {
	MinSimilarity float64 `json:"min_similarity" yaml:"min_similarity" mapstructure:"min_similarity"`
	Strong        float64 `json:"strong" yaml:"strong" mapstructure:"strong"`
	Medium        float64 `json:"medium" yaml:"medium" mapstructure:"medium"`
}

// AnchorConfig holds anchor extraction and classification settings.
type AnchorConfig struct {
	// MinLength is the minimum rune length of a single-word anchor.
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`

	// UniqueMaxSuppliers is the largest supplier count for which an anchor
	// is still considered distinctive.
	UniqueMaxSuppliers int `json:"unique_max_suppliers" yaml:"unique_max_suppliers" mapstructure:"unique_max_suppliers"`

	// MaxMatches, when positive, drops anchors shared by more suppliers
	// than this. Zero keeps every match as generic anchor evidence.
	MaxMatches int `json:"max_matches" yaml:"max_matches" mapstructure:"max_matches"`
}

// HistoricalConfig holds settings for the historical feeder.
type HistoricalConfig struct {
	FrequentMin int `json:"frequent_min" yaml:"frequent_min" mapstructure:"frequent_min"`
}

// StoreConfig locates the supplier database.
type StoreConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ResolverConfig groups all configuration consumed by the resolver.
type ResolverConfig struct {
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Fuzzy      FuzzyConfig      `json:"fuzzy" yaml:"fuzzy" mapstructure:"fuzzy"`
	Anchor     AnchorConfig     `json:"anchor" yaml:"anchor" mapstructure:"anchor"`
	Historical HistoricalConfig `json:"historical" yaml:"historical" mapstructure:"historical"`
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`

	// MaxSuggestions truncates the result list. Zero means unlimited.
	MaxSuggestions int `json:"max_suggestions" yaml:"max_suggestions" mapstructure:"max_suggestions"`
}

// DefaultBaseScores returns the built-in base score table.
func DefaultBaseScores() map[string]int {
	return map[string]int{
		string(SignalOverrideExact):        100,
		string(SignalAliasExact):           100,
		string(SignalLearningConfirmation): 90,
		string(SignalFuzzyStrong):          85,
		string(SignalAnchorUnique):         80,
		string(SignalHistoricalFrequent):   75,
		string(SignalFuzzyMedium):          70,
		string(SignalHistoricalOccasional): 65,
		string(SignalAnchorGeneric):        60,
		string(SignalFuzzyWeak):            55,
		string(SignalLearningRejection):    40,
	}
}

// DefaultScoringConfig returns the built-in scoring tunables.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BaseScores:       DefaultBaseScores(),
		DefaultBaseScore: 40,
		ConfirmBoost: []BoostTier{
			{Min: 1, Boost: 5},
			{Min: 3, Boost: 10},
			{Min: 6, Boost: 15},
		},
		RejectionPenaltyPct: 25,
		Levels:              LevelThresholds{B: 85, C: 65, D: 40},
		FuzzyStrengthPivot:  0.9,
		FuzzyStrengthScale:  50,
		AmbiguitySpread:     0.4,
	}
}

// DefaultResolverConfig returns a complete configuration with built-in defaults.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Scoring:    DefaultScoringConfig(),
		Fuzzy:      FuzzyConfig{MinSimilarity: 0.55, Strong: 0.85, Medium: 0.70},
		Anchor:     AnchorConfig{MinLength: 4, UniqueMaxSuppliers: 2},
		Historical: HistoricalConfig{FrequentMin: 5},
		Store:      StoreConfig{Path: "data/suppliers.db"},
	}
}

// SortedTiers returns ConfirmBoost ordered by Min ascending.
func (c ScoringConfig) SortedTiers() []BoostTier {
	tiers := append([]BoostTier(nil), c.ConfirmBoost...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Min < tiers[j].Min })
	return tiers
}

// Validate reports the first inconsistency in c.
func (c ResolverConfig) Validate() error {
	s := c.Scoring
	for k, v := range s.BaseScores {
		if v < 40 || v > 100 {
			return fmt.Errorf("scoring.base_scores.%s = %d: must be within 40-100", k, v)
		}
	}
	if s.DefaultBaseScore < 40 || s.DefaultBaseScore > 100 {
		return fmt.Errorf("scoring.default_base_score = %d: must be within 40-100", s.DefaultBaseScore)
	}
	if s.RejectionPenaltyPct < 0 || s.RejectionPenaltyPct > 100 {
		return fmt.Errorf("scoring.rejection_penalty_pct = %d: must be within 0-100", s.RejectionPenaltyPct)
	}
	prevBoost := 0
	for _, t := range s.SortedTiers() {
		if t.Min < 1 || t.Boost < 0 {
			return fmt.Errorf("scoring.confirm_boost: tier {min: %d, boost: %d} is invalid", t.Min, t.Boost)
		}
		if t.Boost < prevBoost {
			return fmt.Errorf("scoring.confirm_boost: boost must not decrease as min grows")
		}
		prevBoost = t.Boost
	}
	lv := s.Levels
	if !(lv.B > lv.C && lv.C > lv.D && lv.D >= 0 && lv.B <= 100) {
		return fmt.Errorf("scoring.levels: want 100 >= b > c > d >= 0, got b=%d c=%d d=%d", lv.B, lv.C, lv.D)
	}
	if s.AmbiguitySpread < 0 || s.AmbiguitySpread > 1 {
		return fmt.Errorf("scoring.ambiguity_spread = %g: must be within 0-1", s.AmbiguitySpread)
	}
	f := c.Fuzzy
	if !(f.Strong >= f.Medium && f.Medium >= f.MinSimilarity && f.MinSimilarity > 0 && f.Strong <= 1) {
		return fmt.Errorf("fuzzy: want 1 >= strong >= medium >= min_similarity > 0")
	}
	if c.Anchor.MinLength < 1 || c.Anchor.UniqueMaxSuppliers < 1 {
		return fmt.Errorf("anchor: min_length and unique_max_suppliers must be positive")
	}
	if c.Anchor.MaxMatches < 0 || (c.Anchor.MaxMatches > 0 && c.Anchor.MaxMatches < c.Anchor.UniqueMaxSuppliers) {
		return fmt.Errorf("anchor.max_matches = %d: must be 0 or at least unique_max_suppliers", c.Anchor.MaxMatches)
	}
	if c.Historical.FrequentMin < 1 {
		return fmt.Errorf("historical.frequent_min must be positive")
	}
	if c.MaxSuggestions < 0 {
		return fmt.Errorf("max_suggestions must not be negative")
	}
	return nil
}
