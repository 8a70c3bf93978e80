// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/supplier-resolver/internal/anchor"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Anchor matches extracted entity anchors against supplier names. Anchors
// shared by few suppliers are distinctive and score higher.
//
// If extraction yields no anchor the feeder stays silent: it returns no
// signals and logs the input, never a low-confidence guess.
//
// A supplier hit by several anchors gets one signal, from the anchor
// shared by the fewest suppliers; the longer anchor wins a tie.
type Anchor struct {
	src       AnchorSource
	extractor *anchor.Extractor
	cfg       types.AnchorConfig
	logger    *zap.Logger
}

// NewAnchor returns an Anchor feeder. A nil logger discards log output.
func NewAnchor(src AnchorSource, cfg types.AnchorConfig, logger *zap.Logger) *Anchor {
	def := types.DefaultResolverConfig().Anchor
	if cfg.UniqueMaxSuppliers <= 0 {
		cfg.UniqueMaxSuppliers = def.UniqueMaxSuppliers
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Anchor{
		src:       src,
		extractor: anchor.NewExtractor(cfg),
		cfg:       cfg,
		logger:    logger.Named("anchor"),
	}
}

// Name returns "anchor".
func (f *Anchor) Name() string { return "anchor" }

// Signals implements Feeder.
func (f *Anchor) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	anchors := f.extractor.Extract(normalized)
	if len(anchors) == 0 {
		f.logger.Info("no entity anchors extracted, anchor evidence withheld",
			zap.String("input", normalized))
		return nil, nil
	}

	best := make(map[string]types.Signal)
	var order []string
	for _, a := range anchors {
		ids, err := f.src.AnchorMatches(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("anchor lookup %q: %w", a, err)
		}
		n := len(ids)
		if n == 0 {
			continue
		}
		if f.cfg.MaxMatches > 0 && n > f.cfg.MaxMatches {
			f.logger.Debug("anchor too common, skipped",
				zap.String("anchor", a), zap.Int("suppliers", n))
			continue
		}

		t := types.SignalAnchorGeneric
		if n <= f.cfg.UniqueMaxSuppliers {
			t = types.SignalAnchorUnique
		}
		strength := AnchorStrength(n)
		for _, id := range ids {
			sig := types.NewSignal(id, t, strength, map[string]any{
				types.MetaSource:      "anchor",
				types.MetaMatchedText: a,
				types.MetaMatchCount:  n,
			})
			prev, seen := best[id]
			if !seen {
				order = append(order, id)
				best[id] = sig
				continue
			}
			if betterAnchor(sig, prev) {
				best[id] = sig
			}
		}
	}

	signals := make([]types.Signal, 0, len(order))
	for _, id := range order {
		signals = append(signals, best[id])
	}
	return signals, nil
}

// betterAnchor reports whether a is stronger evidence than b.
func betterAnchor(a, b types.Signal) bool {
	if a.RawStrength != b.RawStrength {
		return a.RawStrength > b.RawStrength
	}
	ta, _ := a.Metadata[types.MetaMatchedText].(string)
	tb, _ := b.Metadata[types.MetaMatchedText].(string)
	return len([]rune(ta)) > len([]rune(tb))
}

// AnchorStrength maps the number of suppliers sharing an anchor to a strength.
func AnchorStrength(matches int) float64 {
	switch {
	case matches <= 0:
		return 0
	case matches == 1:
		return 1.0
	case matches == 2:
		return 0.9
	case matches <= 5:
		return 0.7
	default:
		return 0.5
	}
}
