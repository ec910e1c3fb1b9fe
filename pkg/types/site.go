// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sitefinder pipeline.
// Implements: prd001-search (Site, Coordinates, RawRecord);
//
//	docs/ARCHITECTURE.md § Data Structures.
package types

// SiteType classifies a food assistance site. Inferred from source
// category tags or name/description keywords during normalization.
type SiteType string

const (
	TypeFoodBank        SiteType = "food_bank"
	TypeFoodPantry      SiteType = "food_pantry"
	TypeSoupKitchen     SiteType = "soup_kitchen"
	TypeMobileFoodBank  SiteType = "mobile_food_bank"
	TypeCommunityFridge SiteType = "community_fridge"
	TypeOther           SiteType = "other"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Site is the canonical, normalized representation of a location record.
// Sites are built fresh on every search from adapter output and are never
// persisted individually; the cache stores finished result lists.
type Site struct {
	// ID is unique within one search result set, not globally stable.
	ID string `json:"id" yaml:"id"`

	// Name is required; normalization substitutes a generic label when
	// the source provides none.
	Name string `json:"name" yaml:"name"`

	// Address is assembled from structured fields when available, else a
	// free-text fallback, else "Address not available".
	Address string `json:"address" yaml:"address"`

	// Phone is reformatted to (AAA) BBB-CCCC when it matches a 10- or
	// 11-digit North American pattern.
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`

	// Website always carries a scheme after normalization.
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	// Email is dropped during normalization if it fails a basic
	// local@domain.tld check.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Hours is a free-text opening-hours string in whatever format the
	// source used. Not a structured schedule.
	Hours string `json:"hours,omitempty" yaml:"hours,omitempty"`

	// Type is always a member of the SiteType enumeration.
	Type SiteType `json:"type" yaml:"type"`

	AcceptedItems []string `json:"accepted_items,omitempty" yaml:"accepted_items,omitempty"`
	Requirements  []string `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Languages     []string `json:"languages,omitempty" yaml:"languages,omitempty"`
	Accessibility []string `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`

	// Coordinates are required; records without them are rejected before
	// deduplication.
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`

	// Distance in miles from the search center. Recomputed per search;
	// meaningful only relative to the search that produced it.
	Distance float64 `json:"distance" yaml:"distance"`

	// Source identifies the adapter that produced the record. Diagnostic
	// only; dedup never consults it.
	Source string `json:"source" yaml:"source"`
}

// RawRecord is the loose, source-shaped record an adapter hands to the
// normalizer. Unknown or missing fields stay empty or nil rather than
// being silently coerced.
type RawRecord struct {
	// SourceID is the source's native identifier, when it has one.
	SourceID string

	Name        string
	Description string
	Notes       string
	Phone       string
	Website     string
	Email       string
	Hours       string

	// Address is the source's free-text address, if any.
	Address string

	// Structured address parts, used in preference to Address.
	HouseNumber string
	Street      string
	City        string
	State       string
	Postcode    string

	// Category is the source's own classification tag (e.g. an OSM
	// social_facility value, or "charity" for thrift listings).
	Category string

	// Purpose is an explicit statement of what the facility is for,
	// where the source records one (OSM social_facility:for and similar).
	Purpose string

	// Lat/Lng are nil when the source did not resolve a position.
	Lat *float64
	Lng *float64
}
