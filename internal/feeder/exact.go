// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feeder

import (
	"context"
	"fmt"

	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// Alias emits one alias_exact signal per supplier whose alias equals the input.
type Alias struct {
	src AliasSource
}

// NewAlias returns an Alias feeder.
func NewAlias(src AliasSource) *Alias { return &Alias{src: src} }

// Name returns "alias".
func (f *Alias) Name() string { return "alias" }

// Signals implements Feeder.
func (f *Alias) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	if normalized == "" {
		return nil, nil
	}
	ids, err := f.src.AliasMatches(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("alias lookup: %w", err)
	}

	signals := make([]types.Signal, 0, len(ids))
	for _, id := range ids {
		signals = append(signals, types.NewSignal(id, types.SignalAliasExact, 1.0, map[string]any{
			types.MetaSource:      "alias",
			types.MetaMatchedText: normalized,
		}))
	}
	return signals, nil
}

// Override emits a single override_exact signal when a manual override exists.
type Override struct {
	src OverrideSource
}

// NewOverride returns an Override feeder.
func NewOverride(src OverrideSource) *Override { return &Override{src: src} }

// Name returns "override".
func (f *Override) Name() string { return "override" }

// Signals implements Feeder.
func (f *Override) Signals(ctx context.Context, normalized string) ([]types.Signal, error) {
	if normalized == "" {
		return nil, nil
	}
	o, err := f.src.Override(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("override lookup: %w", err)
	}
	if o == nil || o.SupplierID == "" {
		return nil, nil
	}
	return []types.Signal{
		types.NewSignal(o.SupplierID, types.SignalOverrideExact, 1.0, map[string]any{
			types.MetaSource:      "override",
			types.MetaMatchedText: normalized,
			types.MetaReason:      o.Reason,
			types.MetaCreatedBy:   o.CreatedBy,
		}),
	}, nil
}
