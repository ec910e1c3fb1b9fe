// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/sitefinder/internal/cache"
	"github.com/pdiddy/sitefinder/internal/engine"
	"github.com/pdiddy/sitefinder/internal/filter"
	"github.com/pdiddy/sitefinder/internal/geocode"
	"github.com/pdiddy/sitefinder/internal/source"
	"github.com/pdiddy/sitefinder/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [location]",
	Short: "Search for food assistance sites near a location",
	Long: `Search queries all enabled data sources for food assistance sites near
the given location. The location is a 5-digit ZIP code by default; use
--city or --coords to search by city name or "lat,lng" pair instead.

Filters narrow the merged results and --sort reorders them. Results are
cached for the configured TTL; --refresh forces fresh source queries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("zip", "", "search near a 5-digit ZIP code")
	searchCmd.Flags().String("city", "", "search near a city name")
	searchCmd.Flags().String("coords", "", "search near a \"lat,lng\" coordinate pair")
	searchCmd.Flags().Bool("near-me", false, "search near the configured device position (location.lat / location.lng)")
	searchCmd.Flags().Bool("refresh", false, "skip the cache read and query sources fresh")

	searchCmd.Flags().StringSlice("type", nil, "only include sites of these types (food_bank, food_pantry, soup_kitchen, mobile_food_bank, community_fridge, other)")
	searchCmd.Flags().Bool("open-now", false, "only include sites open at the current time")
	searchCmd.Flags().Bool("has-phone", false, "only include sites with a phone number")
	searchCmd.Flags().Bool("has-website", false, "only include sites with a website")
	searchCmd.Flags().StringSlice("accepts", nil, "only include sites accepting any of these donation items")
	searchCmd.Flags().Float64("max-distance", 0, "only include sites within this many miles")

	searchCmd.Flags().String("sort", "distance", "sort key: distance, name, type, or open_status")

	searchCmd.Flags().Bool("json", false, "emit results as JSON")
	searchCmd.Flags().Bool("yaml", false, "emit results as YAML")
}

// searchInput resolves the location argument and mode from flags and args.
func searchInput(cmd *cobra.Command, args []string) (string, geocode.Mode, error) {
	zip, _ := cmd.Flags().GetString("zip")
	city, _ := cmd.Flags().GetString("city")
	coords, _ := cmd.Flags().GetString("coords")

	set := 0
	for _, v := range []string{zip, city, coords} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", "", fmt.Errorf("at most one of --zip, --city, --coords may be given")
	}

	switch {
	case zip != "":
		return zip, geocode.ModeZip, nil
	case city != "":
		return city, geocode.ModeCity, nil
	case coords != "":
		return coords, geocode.ModeCoordinates, nil
	case len(args) == 1:
		return args[0], geocode.ModeZip, nil
	}
	return "", "", fmt.Errorf("a location is required: pass a ZIP code or use --zip, --city, or --coords")
}

// engineConfig assembles the engine configuration from viper settings
// and loaded secrets. The shared http.* settings feed every stage that
// makes network requests.
func engineConfig() types.EngineConfig {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if httpCfg.Timeout == 0 {
		httpCfg.Timeout = 30 * time.Second
	}
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = "sitefinder/" + version
	}

	cfg := types.EngineConfig{
		Geocode: types.GeocodeConfig{
			HTTPConfig:   httpCfg,
			CountryCodes: viper.GetString("geocode.country_codes"),
		},
		Sources: types.SourcesConfig{
			HTTPConfig:        httpCfg,
			EnableOverpass:    true,
			EnableDirectory:   viper.GetBool("sources.enable_directory"),
			DirectoryAPIKey:   secretDefault("directory-api-key", viper.GetString("sources.directory_api_key")),
			FetchRadiusMeters: viper.GetFloat64("sources.fetch_radius_meters"),
			AdapterTimeout:    viper.GetDuration("sources.adapter_timeout"),
		},
		Dedup: types.DedupConfig{
			MaxDistanceMiles:  viper.GetFloat64("dedup.max_distance_miles"),
			MinNameSimilarity: viper.GetFloat64("dedup.min_name_similarity"),
		},
		Search: types.SearchConfig{
			MaxDistanceMiles: viper.GetFloat64("search.max_distance_miles"),
		},
		Cache: types.CacheConfig{
			Dir: viper.GetString("cache.dir"),
			TTL: viper.GetDuration("cache.ttl"),
		},
	}
	if viper.IsSet("sources.enable_overpass") {
		cfg.Sources.EnableOverpass = viper.GetBool("sources.enable_overpass")
	}
	return cfg
}

// buildEngine wires the resolver, source adapters, and cache store into
// an engine. The caller closes the returned store.
func buildEngine(cfg types.EngineConfig) (*engine.Engine, cache.Store, error) {
	store, err := cache.NewSQLiteStore(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}

	eng := engine.New(
		geocode.NewNominatimResolver(cfg.Geocode),
		source.Enabled(cfg.Sources),
		store,
		cfg,
	)
	eng.Warn = os.Stderr
	if viper.IsSet("location.lat") && viper.IsSet("location.lng") {
		eng.Location = staticLocation{
			pos: types.Coordinates{
				Lat: viper.GetFloat64("location.lat"),
				Lng: viper.GetFloat64("location.lng"),
			},
		}
	}
	return eng, store, nil
}

// staticLocation is the CLI's stand-in for a device position: a fixed
// coordinate pair from configuration.
type staticLocation struct {
	pos types.Coordinates
}

func (s staticLocation) CurrentPosition(ctx context.Context) (types.Coordinates, error) {
	return s.pos, ctx.Err()
}

// searchCriteria builds filter criteria from the filter flags.
func searchCriteria(cmd *cobra.Command) filter.Criteria {
	typeNames, _ := cmd.Flags().GetStringSlice("type")
	var siteTypes []types.SiteType
	for _, t := range typeNames {
		siteTypes = append(siteTypes, types.SiteType(strings.ToLower(strings.TrimSpace(t))))
	}

	openNow, _ := cmd.Flags().GetBool("open-now")
	hasPhone, _ := cmd.Flags().GetBool("has-phone")
	hasWebsite, _ := cmd.Flags().GetBool("has-website")
	accepts, _ := cmd.Flags().GetStringSlice("accepts")
	maxDist, _ := cmd.Flags().GetFloat64("max-distance")

	return filter.Criteria{
		Types:            siteTypes,
		OpenNow:          openNow,
		HasPhone:         hasPhone,
		HasWebsite:       hasWebsite,
		AcceptsAnyOf:     accepts,
		MaxDistanceMiles: maxDist,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	nearMe, _ := cmd.Flags().GetBool("near-me")

	var input string
	var mode geocode.Mode
	var err error
	if !nearMe {
		input, mode, err = searchInput(cmd, args)
		if err != nil {
			return err
		}
	}

	cfg := engineConfig()
	eng, store, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	refresh, _ := cmd.Flags().GetBool("refresh")

	var sites []types.Site
	switch {
	case nearMe:
		sites, err = eng.SearchNearby(cmd.Context())
		if errors.Is(err, engine.ErrNoLocationProvider) {
			return fmt.Errorf("no device position configured: set location.lat and location.lng in the config file")
		}
	case refresh:
		sites, err = eng.Refresh(cmd.Context(), input, mode)
	default:
		sites, err = eng.Search(cmd.Context(), input, mode)
	}
	if err != nil {
		return err
	}

	sites = eng.Filter(sites, searchCriteria(cmd))

	sortKey, _ := cmd.Flags().GetString("sort")
	sites = eng.Sort(sites, filter.SortKey(sortKey))

	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	switch {
	case asJSON:
		return engine.FormatJSON(sites, cmd.OutOrStdout())
	case asYAML:
		return engine.FormatYAML(sites, cmd.OutOrStdout())
	default:
		engine.FormatTable(sites, time.Now(), cmd.OutOrStdout())
		return nil
	}
}
