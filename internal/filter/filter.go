// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter applies user-selected predicates and orderings to an
// already-fetched result set. Pure, no I/O; open-now evaluation takes an
// explicit instant.
// Implements: prd005-filters (R1-R3);
//
//	docs/ARCHITECTURE.md § Filtering and Sorting.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/sitefinder/internal/openhours"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// Criteria holds the optional predicates. Zero values mean "no filter";
// active predicates combine with AND semantics.
type Criteria struct {
	// Types keeps sites whose Type is in the set.
	Types []types.SiteType

	// OpenNow keeps sites whose hours cover the Now instant.
	OpenNow bool

	// Now is the instant OpenNow evaluates against.
	Now time.Time

	// HasPhone and HasWebsite keep sites with the field populated.
	HasPhone   bool
	HasWebsite bool

	// AcceptsAnyOf keeps sites whose accepted items match any keyword,
	// case-insensitive substring.
	AcceptsAnyOf []string

	// MaxDistanceMiles keeps sites at or under this distance. Zero
	// disables the predicate.
	MaxDistanceMiles float64
}

// Apply returns the sites satisfying every active predicate, in their
// incoming order.
func Apply(sites []types.Site, c Criteria) []types.Site {
	out := make([]types.Site, 0, len(sites))
	for _, s := range sites {
		if matches(s, c) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s types.Site, c Criteria) bool {
	if len(c.Types) > 0 && !containsType(c.Types, s.Type) {
		return false
	}
	if c.OpenNow && !openhours.IsOpenNow(s.Hours, c.Now) {
		return false
	}
	if c.HasPhone && s.Phone == "" {
		return false
	}
	if c.HasWebsite && s.Website == "" {
		return false
	}
	if len(c.AcceptsAnyOf) > 0 && !acceptsAny(s.AcceptedItems, c.AcceptsAnyOf) {
		return false
	}
	if c.MaxDistanceMiles > 0 && s.Distance > c.MaxDistanceMiles {
		return false
	}
	return true
}

func containsType(set []types.SiteType, t types.SiteType) bool {
	for _, v := range set {
		if v == t {
			return true
		}
	}
	return false
}

func acceptsAny(items, keywords []string) bool {
	for _, item := range items {
		li := strings.ToLower(item)
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(li, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}

// SortKey selects the result ordering.
type SortKey string

const (
	SortDistance   SortKey = "distance"
	SortName       SortKey = "name"
	SortType       SortKey = "type"
	SortOpenStatus SortKey = "open_status"
)

// Sort returns a copy of sites ordered by key. Sorts are stable, so ties
// keep their incoming order; open_status additionally breaks ties by
// ascending distance. An unknown key falls back to distance.
func Sort(sites []types.Site, key SortKey, now time.Time) []types.Site {
	out := make([]types.Site, len(sites))
	copy(out, sites)

	switch key {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	case SortType:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	case SortOpenStatus:
		sort.SliceStable(out, func(i, j int) bool {
			oi := openhours.IsOpenNow(out[i].Hours, now)
			oj := openhours.IsOpenNow(out[j].Hours, now)
			if oi != oj {
				return oi
			}
			return out[i].Distance < out[j].Distance
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	}
	return out
}
