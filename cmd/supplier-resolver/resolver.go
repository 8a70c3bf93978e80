// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/pdiddy/supplier-resolver/internal/authority"
	"github.com/pdiddy/supplier-resolver/internal/config"
	"github.com/pdiddy/supplier-resolver/internal/confidence"
	"github.com/pdiddy/supplier-resolver/internal/feeder"
	"github.com/pdiddy/supplier-resolver/internal/normalize"
	"github.com/pdiddy/supplier-resolver/internal/store"
	"github.com/pdiddy/supplier-resolver/pkg/types"
)

// resolver bundles an Authority with the store backing it.
type resolver struct {
	cfg   types.ResolverConfig
	store *store.Store
	auth  *authority.Authority
}

func (r *resolver) Close() error { return r.store.Close() }

// loadConfig reads the resolver configuration from the global viper.
func loadConfig() (types.ResolverConfig, error) {
	return config.Load(viper.GetViper())
}

// openStore opens the supplier database named by the configuration.
func openStore() (*store.Store, types.ResolverConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.Open(cfg.Store, normalize.Default)
	if err != nil {
		return nil, cfg, err
	}
	return s, cfg, nil
}

// newResolver wires the store, the standard feeders, the calculator and
// the Authority. reg may be nil.
func newResolver(reg prometheus.Registerer, limit int) (*resolver, error) {
	s, cfg, err := openStore()
	if err != nil {
		return nil, err
	}

	maxSuggestions := cfg.MaxSuggestions
	if limit > 0 {
		maxSuggestions = limit
	}

	auth := authority.New(
		normalize.Default,
		feeder.Standard(s, cfg, logger),
		confidence.New(cfg.Scoring),
		s,
		authority.Options{
			Logger:         logger,
			Registerer:     reg,
			MaxSuggestions: maxSuggestions,
		},
	)
	return &resolver{cfg: cfg, store: s, auth: auth}, nil
}
