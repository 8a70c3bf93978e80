// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the resolver configuration from viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// SetDefaults registers every configuration key with its built-in default
// so that config files and environment variables can override any of them.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultResolverConfig()

	for k, score := range d.Scoring.BaseScores {
		v.SetDefault("scoring.base_scores."+k, score)
	}
	v.SetDefault("scoring.default_base_score", d.Scoring.DefaultBaseScore)

	tiers := make([]map[string]any, 0, len(d.Scoring.ConfirmBoost))
	for _, t := range d.Scoring.ConfirmBoost {
		tiers = append(tiers, map[string]any{"min": t.Min, "boost": t.Boost})
	}
	v.SetDefault("scoring.confirm_boost", tiers)

	v.SetDefault("scoring.rejection_penalty_pct", d.Scoring.RejectionPenaltyPct)
	v.SetDefault("scoring.levels.b", d.Scoring.Levels.B)
	v.SetDefault("scoring.levels.c", d.Scoring.Levels.C)
	v.SetDefault("scoring.levels.d", d.Scoring.Levels.D)
	v.SetDefault("scoring.fuzzy_strength_pivot", d.Scoring.FuzzyStrengthPivot)
	v.SetDefault("scoring.fuzzy_strength_scale", d.Scoring.FuzzyStrengthScale)
	v.SetDefault("scoring.ambiguity_spread", d.Scoring.AmbiguitySpread)

	v.SetDefault("fuzzy.min_similarity", d.Fuzzy.MinSimilarity)
	v.SetDefault("fuzzy.strong", d.Fuzzy.Strong)
	v.SetDefault("fuzzy.medium", d.Fuzzy.Medium)

	v.SetDefault("anchor.min_length", d.Anchor.MinLength)
	v.SetDefault("anchor.unique_max_suppliers", d.Anchor.UniqueMaxSuppliers)
	v.SetDefault("anchor.max_matches", d.Anchor.MaxMatches)

	v.SetDefault("historical.frequent_min", d.Historical.FrequentMin)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("max_suggestions", d.MaxSuggestions)
}

// Load unmarshals and validates the resolver configuration held by v.
// Defaults must already be registered with SetDefaults.
func Load(v *viper.Viper) (types.ResolverConfig, error) {
	var cfg types.ResolverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
