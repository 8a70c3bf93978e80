// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feeder produces raw Signals about candidate suppliers from
// independent, read-only evidence sources. Each evidence source is one
// Feeder implementation; the resolver fans out to all of them and merges
// their output.
//
// A Feeder returns an empty slice when it has no evidence and an error
// only for infrastructure failures. Feeders never write to their sources.
package feeder

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Feeder produces signals for a normalized supplier name.
type Feeder interface {
	Name() string
	Signals(ctx context.Context, normalized string) ([]types.Signal, error)
}

// AliasSource looks up suppliers whose alternate spelling equals a normalized key.
type AliasSource interface {
	AliasMatches(ctx context.Context, normalized string) ([]string, error)
}

// OverrideSource looks up the manual override for a normalized key.
// It returns nil when no override exists.
type OverrideSource interface {
	Override(ctx context.Context, normalized string) (*types.Override, error)
}

// FeedbackSource aggregates user confirm/reject actions per supplier.
type FeedbackSource interface {
	FeedbackCounts(ctx context.Context, normalized string) ([]types.FeedbackCount, error)
}

// CatalogSource enumerates the known supplier population.
type CatalogSource interface {
	AllSuppliers(ctx context.Context) ([]types.Supplier, error)
}

// AnchorSource finds suppliers whose normalized name contains an anchor
// as whole words.
type AnchorSource interface {
	AnchorMatches(ctx context.Context, anchor string) ([]string, error)
}

// DecisionSource counts prior decisions per supplier for a normalized key.
type DecisionSource interface {
	DecisionCounts(ctx context.Context, normalized string) ([]types.DecisionCount, error)
}

// Source bundles every lookup the standard feeders need.
type Source interface {
	AliasSource
	OverrideSource
	FeedbackSource
	CatalogSource
	AnchorSource
	DecisionSource
}

// Standard returns the six standard feeders in their fixed registration order.
func Standard(src Source, cfg types.ResolverConfig, logger *zap.Logger) []Feeder {
	return []Feeder{
		NewOverride(src),
		NewAlias(src),
		NewLearning(src),
		NewFuzzy(src, cfg.Fuzzy),
		NewAnchor(src, cfg.Anchor, logger),
		NewHistorical(src, cfg.Historical),
	}
}
