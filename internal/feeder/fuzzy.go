// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

import (
	"context"
	"fmt"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Fuzzy compares the input against every official supplier name. It scans
// the full catalog snapshot on each call.
type Fuzzy struct {
	src CatalogSource
	cfg types.FuzzyConfig
}

// NewFuzzy returns a Fuzzy feeder. Zero thresholds take the defaults
// 0.55 / 0.70 / 0.85.
func NewFuzzy(src CatalogSource, cfg types.FuzzyConfig) *Fuzzy {
	def := types.DefaultResolverConfig().Fuzzy
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = def.MinSimilarity
	}
	if cfg.Medium <= 0 {
		cfg.Medium = def.Medium
	}
	if cfg.Strong <= 0 {
		cfg.Strong = def.Strong
	}
	return &Fuzzy{src: src, cfg: cfg}
}

// Name returns "fuzzy".
func (f *Fuzzy) Name() string { return "fuzzy" }

// Signals implements Feeder.
func (f *Fuzzy) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	if normalized == "" {
		return nil, nil
	}
	suppliers, err := f.src.AllSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog scan: %w", err)
	}

	var signals []types.Signal
	for _, s := range suppliers {
		if s.NormalizedName == "" {
			continue
		}
		sim := Similarity(normalized, s.NormalizedName)
		if sim < f.cfg.MinSimilarity {
			continue
		}
		if !sharesDistinctiveKeyword(normalized, s.NormalizedName) {
			continue
		}
		signals = append(signals, types.NewSignal(s.ID, f.bucket(sim), sim, map[string]any{
			types.MetaSource:      "fuzzy",
			types.MetaMatchedText: s.NormalizedName,
			types.MetaSimilarity:  sim,
		}))
	}
	return signals, nil
}

func (f *Fuzzy) bucket(sim float64) types.SignalType {
	switch {
	case sim >= f.cfg.Strong:
		return types.SignalFuzzyStrong
	case sim >= f.cfg.Medium:
		return types.SignalFuzzyMedium
	default:
		return types.SignalFuzzyWeak
	}
}
