// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine orchestrates the search pipeline: resolve the input to
// coordinates, fan out to the source adapters concurrently, normalize,
// deduplicate, rank by distance, and cache the finished list.
// Implements: prd001-search (R1-R6);
//
//	docs/ARCHITECTURE.md § Search Orchestration.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sitefinder/internal/cache"
	"github.com/pdiddy/sitefinder/internal/dedupe"
	"github.com/pdiddy/sitefinder/internal/filter"
	"github.com/pdiddy/sitefinder/internal/geo"
	"github.com/pdiddy/sitefinder/internal/geocode"
	"github.com/pdiddy/sitefinder/internal/normalize"
	"github.com/pdiddy/sitefinder/internal/openhours"
	"github.com/pdiddy/sitefinder/internal/source"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// cacheNamespace prefixes every key this engine writes, so a cache clear
// leaves unrelated data in a shared store untouched.
const cacheNamespace = "sitefinder|results|"

// LocationProvider reports the device position for "search near me".
// Implementations return ErrPermissionDenied when the user has not
// granted access.
type LocationProvider interface {
	CurrentPosition(ctx context.Context) (types.Coordinates, error)
}

// Engine is an explicitly constructed search orchestrator holding
// injected dependencies. No process-wide state; build one per
// configuration and share it freely, all methods are safe for
// concurrent use.
type Engine struct {
	Resolver geocode.Resolver
	Adapters []source.Adapter

	// Store may be nil to disable caching. Store errors never fail a
	// search; the engine degrades to miss/skip with a warning.
	Store cache.Store

	// Location may be nil; SearchNearby then returns ErrNoLocationProvider.
	Location LocationProvider

	Config types.EngineConfig

	// Now is the clock, injectable for tests. Defaults to time.Now.
	Now func() time.Time

	// Warn receives user-facing warnings (failed sources, degraded
	// cache). Defaults to io.Discard.
	Warn io.Writer
}

// New builds an engine with default clock and warning writer.
func New(resolver geocode.Resolver, adapters []source.Adapter, store cache.Store, cfg types.EngineConfig) *Engine {
	return &Engine{
		Resolver: resolver,
		Adapters: adapters,
		Store:    store,
		Config:   cfg,
		Now:      time.Now,
		Warn:     io.Discard,
	}
}

// Search validates the input, consults the cache, and on a miss runs the
// full pipeline, caching the finished list. A zero-result search is a
// success; ErrAllSourcesFailed is returned only when every adapter
// failed.
func (e *Engine) Search(ctx context.Context, input string, mode geocode.Mode) ([]types.Site, error) {
	return e.search(ctx, input, mode, false)
}

// Refresh runs Search but bypasses the cache read, for explicit
// "try again" actions. The fresh result still overwrites the cache entry.
func (e *Engine) Refresh(ctx context.Context, input string, mode geocode.Mode) ([]types.Site, error) {
	return e.search(ctx, input, mode, true)
}

func (e *Engine) search(ctx context.Context, input string, mode geocode.Mode, skipCache bool) ([]types.Site, error) {
	if err := geocode.ValidateInput(input, mode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	key := cacheNamespace + string(mode) + "|" + input
	if !skipCache {
		if sites, ok := e.cachedResult(key); ok {
			return sites, nil
		}
	}

	center, err := e.Resolver.Resolve(ctx, input, mode)
	if err != nil {
		return nil, err
	}

	raws, err := e.fetchAll(ctx, center)
	if err != nil {
		return nil, err
	}

	sites := e.assemble(raws, center)

	// A cache entry is written only for a fully completed run; a
	// cancelled pipeline must not leave partial results behind.
	if ctx.Err() == nil {
		e.cachePut(key, sites)
	}
	return sites, nil
}

// SearchNearby composes the device position with a coordinate-mode
// search.
func (e *Engine) SearchNearby(ctx context.Context) ([]types.Site, error) {
	if e.Location == nil {
		return nil, ErrNoLocationProvider
	}

	pos, err := e.Location.CurrentPosition(ctx)
	if err != nil {
		return nil, err
	}

	input := fmt.Sprintf("%f,%f", pos.Lat, pos.Lng)
	return e.Search(ctx, input, geocode.ModeCoordinates)
}

// fetchResult pairs one adapter's outcome with its identity.
type fetchResult struct {
	records []types.RawRecord
	err     error
}

// sourcedRecord tags a raw record with the adapter that produced it, for
// the Site.Source diagnostic field.
type sourcedRecord struct {
	source string
	raw    types.RawRecord
}

// fetchAll fans the fetch out to every adapter concurrently and waits
// for all of them to settle. Results are aggregated in adapter
// registration order, not completion order, so the pipeline stays
// deterministic for a given set of adapter outputs. A failed or
// timed-out adapter is excluded; only all adapters failing is fatal.
func (e *Engine) fetchAll(ctx context.Context, center types.Coordinates) ([]sourcedRecord, error) {
	if len(e.Adapters) == 0 {
		return nil, fmt.Errorf("%w: no source adapters configured", ErrAllSourcesFailed)
	}

	radius := e.Config.Sources.FetchRadiusMeters
	if radius <= 0 {
		radius = types.DefaultFetchRadiusMeters
	}

	settled := make([]fetchResult, len(e.Adapters))
	var wg sync.WaitGroup
	for i, a := range e.Adapters {
		wg.Add(1)
		go func(i int, a source.Adapter) {
			defer wg.Done()

			actx := ctx
			if t := e.Config.Sources.AdapterTimeout; t > 0 {
				var cancel context.CancelFunc
				actx, cancel = context.WithTimeout(ctx, t)
				defer cancel()
			}

			records, err := a.Fetch(actx, center, radius)
			settled[i] = fetchResult{records: records, err: err}
		}(i, a)
	}
	wg.Wait()

	var raws []sourcedRecord
	succeeded := 0
	for i, r := range settled {
		name := e.Adapters[i].Name()
		if r.err != nil {
			log.WithField("prefix", "engine").WithField("source", name).
				WithError(r.err).Warn("source failed")
			fmt.Fprintf(e.Warn, "warning: source %s failed: %v\n", name, r.err)
			continue
		}
		succeeded++
		for _, rec := range r.records {
			raws = append(raws, sourcedRecord{source: name, raw: rec})
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("%w: %d source(s) errored", ErrAllSourcesFailed, len(e.Adapters))
	}
	return raws, nil
}

// assemble runs the CPU-only tail of the pipeline: normalize each raw
// record, dedupe, and rank by distance from the center. Synchronous on
// purpose; no I/O interleaves with it, which keeps dedup deterministic
// for a given input snapshot.
func (e *Engine) assemble(raws []sourcedRecord, center types.Coordinates) []types.Site {
	sites := make([]types.Site, 0, len(raws))
	rejected := 0
	for _, sr := range raws {
		s, err := normalize.Normalize(sr.raw, sr.source)
		if err != nil {
			rejected++
			continue
		}
		sites = append(sites, s)
	}
	if rejected > 0 {
		log.WithField("prefix", "engine").WithField("rejected", rejected).
			Debug("records rejected during normalization")
	}

	sites = dedupe.Dedupe(sites, e.Config.Dedup)
	return geo.Rank(sites, center, e.Config.Search.MaxDistanceMiles)
}

// cachedResult returns a live cache entry for key, or ok=false on miss,
// expiry, or any cache error.
func (e *Engine) cachedResult(key string) ([]types.Site, bool) {
	if e.Store == nil {
		return nil, false
	}

	payload, storedAt, ok, err := e.Store.Get(key)
	if err != nil {
		fmt.Fprintf(e.Warn, "warning: cache read failed: %v\n", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	ttl := e.Config.Cache.TTL
	if ttl <= 0 {
		ttl = types.DefaultCacheTTL
	}
	if e.Now().Sub(storedAt) > ttl {
		return nil, false
	}

	var sites []types.Site
	if err := json.Unmarshal(payload, &sites); err != nil {
		fmt.Fprintf(e.Warn, "warning: cache entry unreadable: %v\n", err)
		return nil, false
	}
	return sites, true
}

func (e *Engine) cachePut(key string, sites []types.Site) {
	if e.Store == nil {
		return
	}

	payload, err := json.Marshal(sites)
	if err != nil {
		fmt.Fprintf(e.Warn, "warning: cache encode failed: %v\n", err)
		return
	}
	if err := e.Store.Put(key, payload, e.Now()); err != nil {
		fmt.Fprintf(e.Warn, "warning: cache write failed: %v\n", err)
	}
}

// ClearCache removes every entry in this engine's key namespace.
func (e *Engine) ClearCache() error {
	if e.Store == nil {
		return nil
	}
	return e.Store.DeletePrefix(cacheNamespace)
}

// Filter applies the criteria to an already-fetched list. A zero Now in
// the criteria is filled from the engine clock.
func (e *Engine) Filter(sites []types.Site, c filter.Criteria) []types.Site {
	if c.Now.IsZero() {
		c.Now = e.Now()
	}
	return filter.Apply(sites, c)
}

// Sort orders an already-fetched list by key.
func (e *Engine) Sort(sites []types.Site, key filter.SortKey) []types.Site {
	return filter.Sort(sites, key, e.Now())
}

// IsOpenNow evaluates an hours string against the engine clock.
func (e *Engine) IsOpenNow(hours string) bool {
	return openhours.IsOpenNow(hours, e.Now())
}
