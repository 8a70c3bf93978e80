// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package authority resolves a free-text supplier name into a ranked list
// of candidate suppliers.
//
// Resolution normalizes the input once, fans out to every registered
// feeder, groups the merged signals by candidate, scores each candidate,
// drops those below the display floor, sorts by confidence and formats
// the survivors as Suggestions. The authority is read-only: it never
// writes to any of its collaborators.
package authority

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/supplier-resolver/internal/confidence"
	"github.com/pdiddy/supplier-resolver/internal/feeder"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Normalizer canonicalizes raw supplier names.
type Normalizer interface {
	Normalize(raw string) string
}

// SupplierLookup resolves a supplier id to its catalog record. It returns
// nil and no error when the supplier does not exist.
type SupplierLookup interface {
	SupplierByID(ctx context.Context, id string) (*types.Supplier, error)
}

// FeederError records one feeder's failure during a resolution.
type FeederError struct {
	Feeder string
	Err    error
}

func (e FeederError) Error() string { return e.Feeder + ": " + e.Err.Error() }

func (e FeederError) Unwrap() error { return e.Err }

// Result is the full outcome of one resolution.
type Result struct {
	ResolutionID string             `json:"resolution_id" yaml:"resolution_id"`
	Input        string             `json:"input" yaml:"input"`
	Normalized   string             `json:"normalized" yaml:"normalized"`
	Suggestions  []types.Suggestion `json:"suggestions" yaml:"suggestions"`
	SignalCount  int                `json:"signal_count" yaml:"signal_count"`
	FeederErrors []FeederError      `json:"-" yaml:"-"`
}

// Options holds optional collaborators of an Authority.
type Options struct {
	// Logger receives feeder failures, stale references and summaries.
	// Nil discards log output.
	Logger *zap.Logger

	// Registerer receives the resolution metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// MaxSuggestions truncates the result list. Zero means unlimited.
	MaxSuggestions int
}

// Authority orchestrates feeders, scoring and formatting.
type Authority struct {
	normalizer Normalizer
	feeders    []feeder.Feeder
	calc       *confidence.Calculator
	suppliers  SupplierLookup
	logger     *zap.Logger
	metrics    *Metrics
	maxResults int
}

// New returns an Authority. The feeder list is fixed for its lifetime.
func New(n Normalizer, feeders []feeder.Feeder, calc *confidence.Calculator, suppliers SupplierLookup, opts Options) *Authority {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authority{
		normalizer: n,
		feeders:    append([]feeder.Feeder(nil), feeders...),
		calc:       calc,
		suppliers:  suppliers,
		logger:     logger,
		metrics:    NewMetrics(opts.Registerer),
		maxResults: opts.MaxSuggestions,
	}
}

// Suggestions returns the ranked suggestions for raw. The list is empty,
// never nil, when nothing qualifies. An error is returned only when a
// Suggestion fails its construction invariants.
func (a *Authority) Suggestions(ctx context.Context, raw string) ([]types.Suggestion, error) {
	res, err := a.Resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	return res.Suggestions, nil
}

// Resolve is Suggestions with the resolution details kept.
func (a *Authority) Resolve(ctx context.Context, raw string) (Result, error) {
	res := Result{
		ResolutionID: uuid.NewString(),
		Input:        raw,
		Normalized:   a.normalizer.Normalize(raw),
		Suggestions:  []types.Suggestion{},
	}
	log := a.logger.With(zap.String("resolution_id", res.ResolutionID))
	a.metrics.resolutions.Inc()

	signals, ferrs := a.collect(ctx, res.Normalized)
	res.FeederErrors = ferrs
	res.SignalCount = len(signals)
	for _, fe := range ferrs {
		a.metrics.feederFailures.WithLabelValues(fe.Feeder).Inc()
		log.Warn("feeder failed, continuing without its signals",
			zap.String("feeder", fe.Feeder), zap.Error(fe.Err))
	}
	a.metrics.signals.Observe(float64(len(signals)))

	if len(signals) == 0 {
		a.metrics.silent.Inc()
		log.Debug("no signals, returning no suggestions", zap.String("input", res.Normalized))
		return res, nil
	}

	candidates := a.score(group(signals))
	rankCandidates(candidates)

	for _, c := range candidates {
		s, err := a.format(ctx, log, c)
		if err != nil {
			if errors.Is(err, errStaleReference) {
				continue
			}
			return Result{}, err
		}
		res.Suggestions = append(res.Suggestions, s)
		a.metrics.suggestions.WithLabelValues(string(s.Level)).Inc()
		if a.maxResults > 0 && len(res.Suggestions) == a.maxResults {
			break
		}
	}

	log.Debug("resolution complete",
		zap.Int("signals", len(signals)),
		zap.Int("candidates", len(candidates)),
		zap.Int("suggestions", len(res.Suggestions)))
	return res, nil
}

// collect runs every feeder concurrently and merges their signals in
// registration order. Failures are returned, not propagated.
func (a *Authority) collect(ctx context.Context, normalized string) ([]types.Signal, []FeederError) {
	type feederResult struct {
		signals []types.Signal
		err     error
	}
	results := make([]feederResult, len(a.feeders))

	var g errgroup.Group
	for i, f := range a.feeders {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = feederResult{err: panicError{value: r}}
				}
			}()
			signals, err := f.Signals(ctx, normalized)
			results[i] = feederResult{signals: signals, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var (
		all   []types.Signal
		ferrs []FeederError
	)
	for i, r := range results {
		if r.err != nil {
			ferrs = append(ferrs, FeederError{Feeder: a.feeders[i].Name(), Err: r.err})
			continue
		}
		all = append(all, r.signals...)
	}
	return all, ferrs
}
