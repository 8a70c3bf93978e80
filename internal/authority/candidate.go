// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package authority

import (
	"fmt"
	"sort"

	"github.com/pdiddy/supplier-resolver/internal/confidence"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// candidate aggregates every signal about one supplier.
type candidate struct {
	id            string
	signals       []types.Signal
	confirmations int
	rejections    int

	confidence    int
	level         types.Level
	primarySource types.SignalType
	ambiguous     bool
}

// group collects signals per candidate id, keeping first-seen order, and
// sums the feedback counts carried in signal metadata.
func group(signals []types.Signal) []*candidate {
	index := make(map[string]*candidate)
	var out []*candidate
	for _, s := range signals {
		c, ok := index[s.CandidateID]
		if !ok {
			c = &candidate{id: s.CandidateID}
			index[s.CandidateID] = c
			out = append(out, c)
		}
		c.signals = append(c.signals, s)
		c.confirmations += s.Count(types.MetaConfirmationCount)
		c.rejections += s.Count(types.MetaRejectionCount)
	}
	return out
}

// score computes confidence, level, primary source and ambiguity for
// every candidate and drops those below the display floor.
func (a *Authority) score(candidates []*candidate) []*candidate {
	spread := a.calc.Config().AmbiguitySpread
	kept := candidates[:0]
	for _, c := range candidates {
		c.confidence = a.calc.Calculate(c.signals, c.confirmations, c.rejections)
		if !confidence.MeetsDisplayThreshold(c.confidence) {
			continue
		}
		c.level = a.calc.AssignLevel(c.confidence)
		if p, ok := a.calc.Primary(c.signals); ok {
			c.primarySource = p.Type
		}
		c.ambiguous = strengthSpread(c.signals) > spread
		kept = append(kept, c)
	}
	return kept
}

func strengthSpread(signals []types.Signal) float64 {
	if len(signals) == 0 {
		return 0
	}
	lo, hi := signals[0].RawStrength, signals[0].RawStrength
	for _, s := range signals[1:] {
		lo = min(lo, s.RawStrength)
		hi = max(hi, s.RawStrength)
	}
	return hi - lo
}

// rankCandidates sorts by confidence descending. Ties go to the candidate
// with more signals, then to the lexically smaller supplier id.
func rankCandidates(cs []*candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].confidence != cs[j].confidence {
			return cs[i].confidence > cs[j].confidence
		}
		if len(cs[i].signals) != len(cs[j].signals) {
			return len(cs[i].signals) > len(cs[j].signals)
		}
		return cs[i].id < cs[j].id
	})
}

type panicError struct {
	value any
}

func (p panicError) Error() string { return fmt.Sprintf("feeder panicked: %v", p.value) }
