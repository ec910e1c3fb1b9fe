// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries external geodata and directory services and
// returns raw candidate records for normalization. Each adapter covers
// one external data source and fails independently; the engine tolerates
// partial failures.
// Implements: prd002-sources (R1-R4);
//
//	docs/ARCHITECTURE.md § Source Adapters.
package source

import (
	"context"

	"github.com/pdiddy/sitefinder/pkg/types"
)

// Adapter queries a single external data source near a center point.
// Implementations follow the Strategy pattern: one adapter per source,
// all queried concurrently by the engine.
type Adapter interface {
	// Name identifies the adapter in logs and Site.Source tags.
	Name() string

	// Fetch returns raw candidate records within radiusMeters of center.
	// Zero records is a valid outcome, not an error; errors are reserved
	// for transport and parse failures.
	Fetch(ctx context.Context, center types.Coordinates, radiusMeters float64) ([]types.RawRecord, error)
}

// Enabled builds the adapter set selected by the configuration.
func Enabled(cfg types.SourcesConfig) []Adapter {
	var adapters []Adapter
	if cfg.EnableOverpass {
		adapters = append(adapters, NewOverpassAdapter(cfg))
	}
	if cfg.EnableDirectory {
		adapters = append(adapters, NewDirectoryAdapter(cfg))
	}
	return adapters
}
