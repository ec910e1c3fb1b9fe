// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo computes great-circle distances and annotates result sets
// with distance from the search center.
// Implements: prd004-dedup-rank (ranking half);
//
//	docs/ARCHITECTURE.md § Distance Ranking.
package geo

import (
	"math"
	"sort"

	"github.com/pdiddy/sitefinder/pkg/types"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3959.0

func degreesToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Miles returns the haversine great-circle distance between two points,
// in miles. Symmetric in its arguments.
func Miles(a, b types.Coordinates) float64 {
	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// Rank sets Distance on every site relative to center, drops sites beyond
// maxMiles, and returns the survivors sorted ascending by distance. The
// sort is stable so equidistant sites keep their first-seen order.
func Rank(sites []types.Site, center types.Coordinates, maxMiles float64) []types.Site {
	if maxMiles <= 0 {
		maxMiles = types.DefaultMaxDistanceMiles
	}

	ranked := make([]types.Site, 0, len(sites))
	for _, s := range sites {
		s.Distance = Miles(center, s.Coordinates)
		if s.Distance > maxMiles {
			continue
		}
		ranked = append(ranked, s)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}
