// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

import (
	"context"
	"fmt"
	"math"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Learning turns user confirm/reject feedback into signals. Confirmations
// saturate at 10 and rejections at 5.
type Learning struct {
	src FeedbackSource
}

// NewLearning returns a Learning feeder.
func NewLearning(src FeedbackSource) *Learning { return &Learning{src: src} }

// Name returns "learning".
func (f *Learning) Name() string { return "learning" }

// Signals implements Feeder. A confirmation signal carries only the
// confirmation count and a rejection signal only the rejection count, so
// summing metadata across a candidate's signals never double counts.
func (f *Learning) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	if normalized == "" {
		return nil, nil
	}
	counts, err := f.src.FeedbackCounts(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("feedback lookup: %w", err)
	}

	var signals []types.Signal
	for _, c := range counts {
		if c.Confirmations > 0 {
			signals = append(signals, types.NewSignal(c.SupplierID, types.SignalLearningConfirmation,
				math.Min(1.0, float64(c.Confirmations)/10), map[string]any{
					types.MetaSource:            "learning",
					types.MetaConfirmationCount: c.Confirmations,
				}))
		}
		if c.Rejections > 0 {
			signals = append(signals, types.NewSignal(c.SupplierID, types.SignalLearningRejection,
				math.Min(1.0, float64(c.Rejections)/5), map[string]any{
					types.MetaSource:         "learning",
					types.MetaRejectionCount: c.Rejections,
				}))
		}
	}
	return signals, nil
}

// Historical turns past selection decisions into signals whose strength
// grows logarithmically with the number of decisions.
type Historical struct {
	src         DecisionSource
	frequentMin int
}

// NewHistorical returns a Historical feeder.
func NewHistorical(src DecisionSource, cfg types.HistoricalConfig) *Historical {
	frequentMin := cfg.FrequentMin
	if frequentMin <= 0 {
		frequentMin = 5
	}
	return &Historical{src: src, frequentMin: frequentMin}
}

// Name returns "historical".
func (f *Historical) Name() string { return "historical" }

// Signals implements Feeder.
func (f *Historical) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	if normalized == "" {
		return nil, nil
	}
	counts, err := f.src.DecisionCounts(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("decision lookup: %w", err)
	}

	var signals []types.Signal
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		t := types.SignalHistoricalOccasional
		if c.Count >= f.frequentMin {
			t = types.SignalHistoricalFrequent
		}
		signals = append(signals, types.NewSignal(c.SupplierID, t, HistoricalStrength(c.Count), map[string]any{
			types.MetaSource:     "historical",
			types.MetaMatchCount: c.Count,
		}))
	}
	return signals, nil
}

// HistoricalStrength is min(1, 0.3 + 0.5*ln(count+1)/ln(20)).
func HistoricalStrength(count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(1.0, 0.3+0.5*math.Log(float64(count+1))/math.Log(20))
}
