package authority

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/supplier-resolver/internal/confidence"
	"github.com/pdiddy/supplier-resolver/internal/feeder"
	"github.com/pdiddy/supplier-resolver/internal/normalize"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// --- test doubles ---

type stubFeeder struct {
	name    string
	signals []types.Signal
	err     error
	panics  bool
	gotArg  *string
}

func (f *stubFeeder) Name() string { return f.name }

func (f *stubFeeder) Signals(_ context.Context, normalized string) ([]types.Signal, error) {
	if f.gotArg != nil {
		*f.gotArg = normalized
	}
	if f.panics {
		panic("index out of range")
	}
	return f.signals, f.err
}

type memSuppliers map[string]types.Supplier

func (m memSuppliers) SupplierByID(_ context.Context, id string) (*types.Supplier, error) {
	s, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func catalog(ids ...string) memSuppliers {
	m := memSuppliers{}
	for _, id := range ids {
		m[id] = types.Supplier{ID: id, OfficialName: "Supplier " + id, UsageCount: 3}
	}
	return m
}

func newTestAuthority(t *testing.T, feeders []feeder.Feeder, suppliers SupplierLookup, opts Options) *Authority {
	t.Helper()
	return New(normalize.Default, feeders, confidence.New(types.DefaultScoringConfig()), suppliers, opts)
}

func signal(id string, st types.SignalType, strength float64) types.Signal {
	return types.NewSignal(id, st, strength, nil)
}

// --- silence ---

func TestSuggestionsNoFeeders(t *testing.T) {
	a := newTestAuthority(t, nil, catalog(), Options{})
	got, err := a.Suggestions(context.Background(), "anything")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestionsNoSignals(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "a"}, &stubFeeder{name: "b"}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{})
	got, err := a.Suggestions(context.Background(), "Acme Trading")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNormalizesOnce(t *testing.T) {
	var seen1, seen2 string
	feeders := []feeder.Feeder{
		&stubFeeder{name: "a", gotArg: &seen1},
		&stubFeeder{name: "b", gotArg: &seen2},
	}
	a := newTestAuthority(t, feeders, catalog(), Options{})
	res, err := a.Resolve(context.Background(), "  ACME  Trading. ")
	require.NoError(t, err)
	assert.Equal(t, "acme trading", res.Normalized)
	assert.Equal(t, "acme trading", seen1)
	assert.Equal(t, "acme trading", seen2)
	assert.NotEmpty(t, res.ResolutionID)
}

// --- scoring and formatting ---

func TestAliasExactEndToEnd(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("s1", types.SignalAliasExact, 1.0),
	}}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)

	s := got[0]
	assert.Equal(t, "s1", s.SupplierID)
	assert.Equal(t, "Supplier s1", s.OfficialName)
	assert.Equal(t, 100, s.Confidence)
	assert.Equal(t, types.LevelB, s.Level)
	assert.Equal(t, types.SignalAliasExact, s.PrimarySource)
	assert.Equal(t, 1, s.SignalCount)
	assert.Equal(t, 3, s.UsageCount)
	assert.Equal(t, "exact match with a known alias", s.Reason)
	assert.False(t, s.IsAmbiguous)
	assert.False(t, s.RequiresConfirmation)
}

func TestFuzzyMediumEndToEnd(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "fuzzy", signals: []types.Signal{
		signal("s1", types.SignalFuzzyMedium, 0.75),
	}}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 63, got[0].Confidence)
	assert.Equal(t, types.LevelD, got[0].Level)
	assert.True(t, got[0].RequiresConfirmation)
}

func TestFeedbackCountsSummedFromMetadata(t *testing.T) {
	feeders := []feeder.Feeder{
		&stubFeeder{name: "anchor", signals: []types.Signal{signal("s1", types.SignalAnchorUnique, 1.0)}},
		&stubFeeder{name: "learning", signals: []types.Signal{
			types.NewSignal("s1", types.SignalLearningRejection, 0.4, map[string]any{types.MetaRejectionCount: 2}),
		}},
	}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	s := got[0]
	assert.Equal(t, 2, s.RejectionCount)
	assert.Equal(t, 0, s.ConfirmationCount)
	// anchor_unique base 80, two rejections at 25%: 80 * 0.5625 = 45.
	assert.Equal(t, 45, s.Confidence)
	assert.Equal(t, types.SignalAnchorUnique, s.PrimarySource)
	assert.True(t, s.RequiresConfirmation)
	assert.True(t, s.IsAmbiguous, "strengths 1.0 and 0.4 differ by more than 0.4")
	assert.Equal(t, "distinctive name match; rejected 2 times", s.Reason)
}

func TestBelowDisplayFloorDropped(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "learning", signals: []types.Signal{
		types.NewSignal("s1", types.SignalLearningRejection, 1.0, map[string]any{types.MetaRejectionCount: 5}),
	}}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOrderingAndTieBreak(t *testing.T) {
	feeders := []feeder.Feeder{
		&stubFeeder{name: "fuzzy", signals: []types.Signal{
			signal("zeta", types.SignalFuzzyStrong, 0.9),  // 85
			signal("alpha", types.SignalFuzzyStrong, 0.9), // 85
			signal("mid", types.SignalFuzzyMedium, 0.9),   // 70
		}},
		&stubFeeder{name: "alias", signals: []types.Signal{
			signal("top", types.SignalAliasExact, 1.0), // 100
		}},
		&stubFeeder{name: "historical", signals: []types.Signal{
			signal("zeta", types.SignalHistoricalOccasional, 0.6), // zeta keeps 85, two signals
		}},
	}
	a := newTestAuthority(t, feeders, catalog("zeta", "alpha", "mid", "top"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.SupplierID)
	}
	assert.Equal(t, []string{"top", "zeta", "alpha", "mid"}, ids)
}

func TestTieBreakBySupplierID(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("b", types.SignalAliasExact, 1.0),
		signal("c", types.SignalAliasExact, 1.0),
		signal("a", types.SignalAliasExact, 1.0),
	}}}
	a := newTestAuthority(t, feeders, catalog("a", "b", "c"), Options{})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].SupplierID)
	assert.Equal(t, "b", got[1].SupplierID)
	assert.Equal(t, "c", got[2].SupplierID)
}

func TestMaxSuggestions(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("a", types.SignalAliasExact, 1.0),
		signal("b", types.SignalAliasExact, 1.0),
		signal("c", types.SignalAliasExact, 1.0),
	}}}
	a := newTestAuthority(t, feeders, catalog("a", "b", "c"), Options{MaxSuggestions: 2})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// --- failure isolation ---

func TestFeederFailureIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	reg := prometheus.NewRegistry()
	feeders := []feeder.Feeder{
		&stubFeeder{name: "broken", err: errors.New("connection refused")},
		&stubFeeder{name: "crashy", panics: true},
		&stubFeeder{name: "alias", signals: []types.Signal{signal("s1", types.SignalAliasExact, 1.0)}},
	}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{Logger: zap.New(core), Registerer: reg})

	res, err := a.Resolve(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "s1", res.Suggestions[0].SupplierID)

	require.Len(t, res.FeederErrors, 2)
	assert.Equal(t, "broken", res.FeederErrors[0].Feeder)
	assert.Equal(t, "crashy", res.FeederErrors[1].Feeder)

	assert.Len(t, logs.FilterField(zap.String("feeder", "broken")).All(), 1)
	assert.Len(t, logs.FilterField(zap.String("feeder", "crashy")).All(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.feederFailures.WithLabelValues("broken")))
}

func TestStaleReferenceDropped(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("gone", types.SignalAliasExact, 1.0),
		signal("s1", types.SignalFuzzyStrong, 0.9),
	}}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{Logger: zap.New(core)})

	got, err := a.Suggestions(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SupplierID)
	assert.Len(t, logs.FilterField(zap.String("supplier_id", "gone")).All(), 1)
}

func TestInvalidSuggestionFailsLoudly(t *testing.T) {
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("s1", types.SignalAliasExact, 1.0),
	}}}
	// A catalog row without an id cannot produce a valid suggestion.
	suppliers := memSuppliers{"s1": {ID: "", OfficialName: "Broken"}}
	a := newTestAuthority(t, feeders, suppliers, Options{})

	_, err := a.Suggestions(context.Background(), "acme")
	assert.ErrorIs(t, err, types.ErrInvalidSuggestion)
}

// --- metrics ---

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	feeders := []feeder.Feeder{&stubFeeder{name: "alias", signals: []types.Signal{
		signal("s1", types.SignalAliasExact, 1.0),
	}}}
	a := newTestAuthority(t, feeders, catalog("s1"), Options{Registerer: reg})
	silent := newTestAuthority(t, nil, catalog(), Options{Registerer: prometheus.NewRegistry()})

	for range 3 {
		_, err := a.Suggestions(context.Background(), "acme")
		require.NoError(t, err)
	}
	_, err := silent.Suggestions(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(a.metrics.resolutions))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.metrics.suggestions.WithLabelValues("B")))
	assert.Equal(t, 0.0, testutil.ToFloat64(a.metrics.silent))
	assert.Equal(t, 1.0, testutil.ToFloat64(silent.metrics.silent))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

// --- reason ---

func TestReason(t *testing.T) {
	tests := []struct {
		primary       types.SignalType
		confirmations int
		rejections    int
		want          string
	}{
		{types.SignalFuzzyStrong, 0, 0, "strong similarity to official name"},
		{types.SignalHistoricalFrequent, 1, 0, "frequent prior use; confirmed once"},
		{types.SignalAliasExact, 4, 1, "exact match with a known alias; confirmed 4 times; rejected once"},
		{types.SignalType("custom_source"), 0, 0, "matched by custom source"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Reason(tt.primary, tt.confirmations, tt.rejections))
	}
}
