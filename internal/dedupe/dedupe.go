// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedupe removes near-duplicate sites contributed by different
// sources, combining spatial proximity with name similarity.
// Implements: prd004-dedup-rank (dedup half);
//
//	docs/ARCHITECTURE.md § Deduplication.
package dedupe

import (
	"strings"

	"github.com/pdiddy/sitefinder/internal/geo"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// Dedupe scans candidates in order and drops any candidate that is a
// near-duplicate of an already-accepted site. Two records are duplicates
// only when they are both within cfg.MaxDistanceMiles of each other AND
// their lower-cased names score above cfg.MinNameSimilarity. Near sites
// with dissimilar names, and similarly named sites far apart, both
// survive. Output preserves first-seen order.
func Dedupe(sites []types.Site, cfg types.DedupConfig) []types.Site {
	maxDist := cfg.MaxDistanceMiles
	if maxDist <= 0 {
		maxDist = types.DefaultDedupDistanceMiles
	}
	minSim := cfg.MinNameSimilarity
	if minSim <= 0 {
		minSim = types.DefaultNameSimilarity
	}

	var accepted []types.Site
	for _, candidate := range sites {
		dup := false
		for _, kept := range accepted {
			if geo.Miles(candidate.Coordinates, kept.Coordinates) >= maxDist {
				continue
			}
			if NameSimilarity(candidate.Name, kept.Name) > minSim {
				dup = true
				break
			}
		}
		if !dup {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}

// NameSimilarity returns 1 - editDistance/maxLen over the lower-cased
// names, in [0, 1]. Lengths and edits are counted in runes, not bytes,
// so non-ASCII names score the same as their ASCII equivalents. Two
// empty names are identical.
func NameSimilarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	maxLen := max(len(ra), len(rb))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein computes the unit-cost edit distance between two rune
// sequences with the full DP matrix.
func levenshtein(a, b []rune) int {
	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			switch {
			case i == 0:
				dp[i][j] = j
			case j == 0:
				dp[i][j] = i
			case a[i-1] == b[j-1]:
				dp[i][j] = dp[i-1][j-1]
			default:
				dp[i][j] = 1 + min(dp[i-1][j], dp[i][j-1], dp[i-1][j-1])
			}
		}
	}
	return dp[m][n]
}
