// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sitefinder/pkg/types"
)

// DirectoryAdapter covers a social-services directory API. The contract
// is final; the integration is pending an API agreement, so Fetch
// returns an empty (successful) result until then. Swapping in a real
// client changes nothing upstream.
type DirectoryAdapter struct {
	Config types.SourcesConfig
}

// NewDirectoryAdapter builds the directory adapter. The configured API
// key is carried so the eventual integration is a drop-in.
func NewDirectoryAdapter(cfg types.SourcesConfig) *DirectoryAdapter {
	return &DirectoryAdapter{Config: cfg}
}

// Name returns the adapter identifier.
func (a *DirectoryAdapter) Name() string { return "directory" }

// Fetch returns no records. An empty list is a valid adapter outcome, so
// the engine treats this source as succeeded with zero results.
func (a *DirectoryAdapter) Fetch(ctx context.Context, center types.Coordinates, radiusMeters float64) ([]types.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.WithField("prefix", "directory").Debug("directory integration pending; returning no records")
	return []types.RawRecord{}, nil
}
