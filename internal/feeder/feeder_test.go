package feeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/supplier-resolver/internal/normalize"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// --- in-memory source ---

type memSource struct {
	aliases   map[string][]string
	overrides map[string]*types.Override
	feedback  map[string][]types.FeedbackCount
	decisions map[string][]types.DecisionCount
	suppliers []types.Supplier
	err       error
}

func (m *memSource) AliasMatches(_ context.Context, n string) ([]string, error) {
	return m.aliases[n], m.err
}

func (m *memSource) Override(_ context.Context, n string) (*types.Override, error) {
	return m.overrides[n], m.err
}

func (m *memSource) FeedbackCounts(_ context.Context, n string) ([]types.FeedbackCount, error) {
	return m.feedback[n], m.err
}

func (m *memSource) DecisionCounts(_ context.Context, n string) ([]types.DecisionCount, error) {
	return m.decisions[n], m.err
}

func (m *memSource) AllSuppliers(_ context.Context) ([]types.Supplier, error) {
	return m.suppliers, m.err
}

func (m *memSource) AnchorMatches(_ context.Context, anchor string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for _, s := range m.suppliers {
		if strings.Contains(" "+s.NormalizedName+" ", " "+anchor+" ") {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func supplier(id, name string) types.Supplier {
	return types.Supplier{ID: id, OfficialName: name, NormalizedName: normalize.Name(name)}
}

var errBoom = errors.New("database is locked")

// --- alias / override ---

func TestAlias(t *testing.T) {
	src := &memSource{aliases: map[string][]string{"almarai": {"s1", "s2"}}}
	f := NewAlias(src)

	got, err := f.Signals(context.Background(), "almarai")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, s := range got {
		assert.Equal(t, types.SignalAliasExact, s.Type)
		assert.Equal(t, 1.0, s.RawStrength)
	}

	got, err = f.Signals(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOverride(t *testing.T) {
	src := &memSource{overrides: map[string]*types.Override{
		"acme": {SupplierID: "s9", Reason: "legal rename", CreatedBy: "ops"},
	}}
	f := NewOverride(src)

	got, err := f.Signals(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s9", got[0].CandidateID)
	assert.Equal(t, types.SignalOverrideExact, got[0].Type)
	assert.Equal(t, "legal rename", got[0].Metadata[types.MetaReason])
	assert.Equal(t, "ops", got[0].Metadata[types.MetaCreatedBy])

	got, err = f.Signals(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFeedersWrapSourceErrors(t *testing.T) {
	src := &memSource{err: errBoom}
	feeders := Standard(src, types.DefaultResolverConfig(), nil)
	for _, f := range feeders {
		t.Run(f.Name(), func(t *testing.T) {
			_, err := f.Signals(context.Background(), "horizon trading")
			assert.ErrorIs(t, err, errBoom)
		})
	}
}

func TestStandardOrder(t *testing.T) {
	feeders := Standard(&memSource{}, types.DefaultResolverConfig(), nil)
	var names []string
	for _, f := range feeders {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"override", "alias", "learning", "fuzzy", "anchor", "historical"}, names)
}

// --- learning / historical ---

func TestLearning(t *testing.T) {
	src := &memSource{feedback: map[string][]types.FeedbackCount{
		"acme": {
			{SupplierID: "s1", Confirmations: 4},
			{SupplierID: "s2", Rejections: 7},
			{SupplierID: "s3", Confirmations: 12, Rejections: 1},
		},
	}}
	got, err := NewLearning(src).Signals(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, types.SignalLearningConfirmation, got[0].Type)
	assert.InDelta(t, 0.4, got[0].RawStrength, 1e-9)
	assert.Equal(t, 4, got[0].Count(types.MetaConfirmationCount))
	assert.Equal(t, 0, got[0].Count(types.MetaRejectionCount))

	assert.Equal(t, types.SignalLearningRejection, got[1].Type)
	assert.Equal(t, 1.0, got[1].RawStrength)
	assert.Equal(t, 7, got[1].Count(types.MetaRejectionCount))

	assert.Equal(t, 1.0, got[2].RawStrength)
	assert.InDelta(t, 0.2, got[3].RawStrength, 1e-9)
}

func TestHistorical(t *testing.T) {
	src := &memSource{decisions: map[string][]types.DecisionCount{
		"acme": {
			{SupplierID: "s1", Count: 5},
			{SupplierID: "s2", Count: 1},
			{SupplierID: "s3", Count: 0},
		},
	}}
	got, err := NewHistorical(src, types.HistoricalConfig{FrequentMin: 5}).Signals(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, types.SignalHistoricalFrequent, got[0].Type)
	assert.Equal(t, types.SignalHistoricalOccasional, got[1].Type)
	assert.Greater(t, got[0].RawStrength, got[1].RawStrength)
}

func TestHistoricalStrength(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 0.3 + 0.5*0.231378},
		{19, 0.8},
		{1000, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, HistoricalStrength(tt.count), 1e-4, "count=%d", tt.count)
	}
	prev := 0.0
	for n := 1; n < 100; n++ {
		s := HistoricalStrength(n)
		assert.GreaterOrEqual(t, s, prev)
		assert.LessOrEqual(t, s, 1.0)
		prev = s
	}
}

// --- anchor ---

func TestAnchorFeeder(t *testing.T) {
	src := &memSource{suppliers: []types.Supplier{
		supplier("s1", "شركة المراعي"),
		supplier("s2", "مؤسسة النخيل للتجارة"),
		supplier("s3", "النخيل الحديثة"),
		supplier("s4", "مصنع النخيل"),
	}}
	f := NewAnchor(src, types.AnchorConfig{MinLength: 4, UniqueMaxSuppliers: 2, MaxMatches: 20}, nil)

	got, err := f.Signals(context.Background(), normalize.Name("المراعي للتجارة"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].CandidateID)
	assert.Equal(t, types.SignalAnchorUnique, got[0].Type)
	assert.Equal(t, 1.0, got[0].RawStrength)

	got, err = f.Signals(context.Background(), normalize.Name("النخيل"))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Equal(t, types.SignalAnchorGeneric, s.Type)
		assert.Equal(t, 0.7, s.RawStrength)
	}
}

func TestAnchorFeederSkipsOverlyCommonAnchors(t *testing.T) {
	src := &memSource{suppliers: []types.Supplier{
		supplier("s1", "النخيل"), supplier("s2", "النخيل"), supplier("s3", "النخيل"),
	}}
	f := NewAnchor(src, types.AnchorConfig{MinLength: 4, UniqueMaxSuppliers: 1, MaxMatches: 2}, nil)
	got, err := f.Signals(context.Background(), normalize.Name("النخيل"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnchorFeederManyMatchesStayGeneric(t *testing.T) {
	src := &memSource{}
	for i := 1; i <= 21; i++ {
		src.suppliers = append(src.suppliers, supplier(fmt.Sprintf("s%02d", i), "مصنع النخيل"))
	}
	cfg := types.DefaultResolverConfig().Anchor
	got, err := NewAnchor(src, cfg, nil).Signals(context.Background(), normalize.Name("النخيل"))
	require.NoError(t, err)
	require.Len(t, got, 21)
	for _, s := range got {
		assert.Equal(t, types.SignalAnchorGeneric, s.Type)
		assert.Equal(t, 0.5, s.RawStrength)
		assert.Equal(t, 21, s.Metadata[types.MetaMatchCount])
	}
}

func TestAnchorFeederOneSignalPerSupplier(t *testing.T) {
	src := &memSource{suppliers: []types.Supplier{
		supplier("s1", "horizon falcon"),
		supplier("s2", "horizon"),
	}}
	f := NewAnchor(src, types.AnchorConfig{MinLength: 4, UniqueMaxSuppliers: 2}, nil)

	got, err := f.Signals(context.Background(), normalize.Name("horizon falcon"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "s1", got[0].CandidateID)
	assert.Equal(t, 1.0, got[0].RawStrength)
	assert.Equal(t, "horizon falcon", got[0].Metadata[types.MetaMatchedText])

	assert.Equal(t, "s2", got[1].CandidateID)
	assert.Equal(t, 0.9, got[1].RawStrength)
	assert.Equal(t, types.SignalAnchorUnique, got[1].Type)
}

func TestAnchorFeederGoldenRule(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	src := &memSource{suppliers: []types.Supplier{supplier("s1", "شركة التجارة الدولية")}}
	f := NewAnchor(src, types.AnchorConfig{MinLength: 4}, zap.New(core))

	input := normalize.Name("شركة التجارة الدولية السعودية")
	got, err := f.Signals(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, got)

	entries := logs.FilterField(zap.String("input", input)).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "no entity anchors")
}

func TestAnchorStrength(t *testing.T) {
	assert.Equal(t, 1.0, AnchorStrength(1))
	assert.Equal(t, 0.9, AnchorStrength(2))
	assert.Equal(t, 0.7, AnchorStrength(3))
	assert.Equal(t, 0.7, AnchorStrength(5))
	assert.Equal(t, 0.5, AnchorStrength(6))
	assert.Equal(t, 0.0, AnchorStrength(0))
}
