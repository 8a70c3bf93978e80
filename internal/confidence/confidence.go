// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package confidence turns the signals gathered for one candidate supplier
// into a single 0-100 confidence score and a level band.
//
// The score is the base score of the strongest signal type, plus a
// confirmation boost, plus a strength modifier for fuzzy signals, then
// multiplied by a retention factor once per rejection. The calculator is a
// pure function of its inputs and the ScoringConfig it was built with.
package confidence

import (
	"math"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Calculator computes confidence scores. It is safe for concurrent use.
type Calculator struct {
	cfg   types.ScoringConfig
	tiers []types.BoostTier
}

// New returns a Calculator bound to cfg. Missing base scores fall back to
// the built-in table; a zero DefaultBaseScore becomes 40.
func New(cfg types.ScoringConfig) *Calculator {
	scores := types.DefaultBaseScores()
	for k, v := range cfg.BaseScores {
		scores[k] = v
	}
	cfg.BaseScores = scores
	if cfg.DefaultBaseScore == 0 {
		cfg.DefaultBaseScore = 40
	}
	return &Calculator{cfg: cfg, tiers: cfg.SortedTiers()}
}

// Config returns the scoring configuration in effect.
func (c *Calculator) Config() types.ScoringConfig {
	return c.cfg
}

// BaseScore returns the configured base score for t.
func (c *Calculator) BaseScore(t types.SignalType) int {
	if v, ok := c.cfg.BaseScores[string(t)]; ok {
		return v
	}
	return c.cfg.DefaultBaseScore
}

// Primary returns the signal with the highest base score. Ties keep the
// earliest signal. ok is false when signals is empty.
func (c *Calculator) Primary(signals []types.Signal) (primary types.Signal, ok bool) {
	best := -1
	for _, s := range signals {
		if score := c.BaseScore(s.Type); score > best {
			best = score
			primary = s
			ok = true
		}
	}
	return primary, ok
}

// ConfirmBoost returns the boost for the given confirmation count.
func (c *Calculator) ConfirmBoost(confirmations int) int {
	boost := 0
	for _, t := range c.tiers {
		if confirmations >= t.Min {
			boost = t.Boost
		}
	}
	return boost
}

// StrengthModifier adjusts fuzzy signals by how far their similarity sits
// from the pivot. Other signal types are unaffected.
func (c *Calculator) StrengthModifier(s types.Signal) int {
	if !s.Type.IsFuzzy() {
		return 0
	}
	return roundHalfUp((s.RawStrength - c.cfg.FuzzyStrengthPivot) * c.cfg.FuzzyStrengthScale)
}

// Calculate returns the confidence (0-100) for a candidate with the given
// signals and feedback counts.
func (c *Calculator) Calculate(signals []types.Signal, confirmations, rejections int) int {
	primary, ok := c.Primary(signals)
	if !ok {
		return 0
	}
	if confirmations < 0 {
		confirmations = 0
	}
	if rejections < 0 {
		rejections = 0
	}

	base := c.BaseScore(primary.Type) + c.ConfirmBoost(confirmations) + c.StrengthModifier(primary)
	base = clamp(base, 0, 100)

	retention := float64(100-c.cfg.RejectionPenaltyPct) / 100
	final := roundHalfUp(float64(base) * math.Pow(retention, float64(rejections)))

	return clamp(final, 0, 100)
}

// AssignLevel returns the level band for confidence, or LevelNone.
func (c *Calculator) AssignLevel(confidence int) types.Level {
	return c.cfg.Levels.Level(confidence)
}

// MeetsDisplayThreshold reports whether confidence clears the hard
// display floor, regardless of the configured level thresholds.
func MeetsDisplayThreshold(confidence int) bool {
	return confidence >= types.DisplayFloor
}

// roundHalfUp rounds to the nearest integer with halves going towards
// positive infinity. Float noise below 1e-9 is discarded first so that
// (0.75-0.9)*50 rounds as -7.5 would.
func roundHalfUp(x float64) int {
	x = math.Round(x*1e9) / 1e9
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
