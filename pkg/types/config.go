// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sitefinder/0.1"). Nominatim's usage policy requires one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GeocodeConfig holds settings for location resolution.
type GeocodeConfig struct {
	HTTPConfig `yaml:",inline"`

	// CountryCodes biases geocoding toward these countries (default "us").
	CountryCodes string `json:"country_codes" yaml:"country_codes"`
}

// SourcesConfig holds settings for the source adapters.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnableOverpass controls whether the OpenStreetMap Overpass adapter is used.
	EnableOverpass bool `json:"enable_overpass" yaml:"enable_overpass"`

	// EnableDirectory controls whether the social-services directory adapter is used.
	EnableDirectory bool `json:"enable_directory" yaml:"enable_directory"`

	// DirectoryAPIKey authenticates against the directory service.
	DirectoryAPIKey string `json:"directory_api_key,omitempty" yaml:"directory_api_key,omitempty"`

	// FetchRadiusMeters is the radius adapters query regardless of the
	// user-facing max-distance filter, so cached result sets stay
	// reusable across filter settings (default 48000, about 30 miles).
	FetchRadiusMeters float64 `json:"fetch_radius_meters" yaml:"fetch_radius_meters"`

	// AdapterTimeout bounds each adapter fetch independently. A timed-out
	// adapter counts as failed, which is fatal only when every adapter fails.
	AdapterTimeout time.Duration `json:"adapter_timeout" yaml:"adapter_timeout"`
}

// DedupConfig holds the near-duplicate thresholds. The defaults are
// empirically chosen; treat them as tunables, not architecture.
type DedupConfig struct {
	// MaxDistanceMiles: candidates farther apart than this are never
	// duplicates (default 0.1).
	MaxDistanceMiles float64 `json:"max_distance_miles" yaml:"max_distance_miles"`

	// MinNameSimilarity: normalized edit-distance similarity two names
	// must exceed to merge (default 0.7).
	MinNameSimilarity float64 `json:"min_name_similarity" yaml:"min_name_similarity"`
}

// SearchConfig holds settings for the search pipeline.
type SearchConfig struct {
	// MaxDistanceMiles drops results beyond this radius after ranking
	// (default 30).
	MaxDistanceMiles float64 `json:"max_distance_miles" yaml:"max_distance_miles"`
}

// CacheConfig holds settings for the result cache.
type CacheConfig struct {
	// Dir is the directory holding the cache database (default ".sitefinder").
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long a cached result set stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// EngineConfig groups all stage configurations for the engine.
type EngineConfig struct {
	Geocode GeocodeConfig `json:"geocode" yaml:"geocode"`
	Sources SourcesConfig `json:"sources" yaml:"sources"`
	Dedup   DedupConfig   `json:"dedup" yaml:"dedup"`
	Search  SearchConfig  `json:"search" yaml:"search"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
}

// Defaults applied when config fields are left zero.
const (
	DefaultFetchRadiusMeters  = 48000.0
	DefaultMaxDistanceMiles   = 30.0
	DefaultDedupDistanceMiles = 0.1
	DefaultNameSimilarity     = 0.7
	DefaultCacheTTL           = 24 * time.Hour
)
