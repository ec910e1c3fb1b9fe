// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sitefinder/internal/httputil"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// nominatimAPIBase is the Nominatim search endpoint. Declared as a var so
// tests can substitute an httptest server.
var nominatimAPIBase = "https://nominatim.openstreetmap.org/search"

// NominatimResolver resolves zip and city inputs through the Nominatim
// geocoding API. Coordinates mode is parsed locally and never touches the
// network.
type NominatimResolver struct {
	Client *http.Client
	Config types.GeocodeConfig
}

// NewNominatimResolver builds a resolver with a client honouring the
// configured timeout.
func NewNominatimResolver(cfg types.GeocodeConfig) *NominatimResolver {
	return &NominatimResolver{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// nominatimResult is the subset of the Nominatim response the resolver uses.
type nominatimResult struct {
	Latitude    float64 `json:"lat,string"`
	Longitude   float64 `json:"lon,string"`
	DisplayName string  `json:"display_name"`
}

// Resolve turns input into coordinates. Only the first candidate is used;
// there is no disambiguation step.
func (r *NominatimResolver) Resolve(ctx context.Context, input string, mode Mode) (types.Coordinates, error) {
	if mode == ModeCoordinates {
		return ParseCoordinates(input)
	}

	results, err := r.query(ctx, input)
	if err != nil {
		return types.Coordinates{}, &Error{Mode: mode, Message: failureMessage(mode), Err: err}
	}
	if len(results) == 0 {
		return types.Coordinates{}, &Error{Mode: mode, Message: failureMessage(mode)}
	}

	log.WithField("prefix", "nominatim").
		WithField("match", results[0].DisplayName).
		Debug("resolved location")

	return types.Coordinates{Lat: results[0].Latitude, Lng: results[0].Longitude}, nil
}

func (r *NominatimResolver) query(ctx context.Context, q string) ([]nominatimResult, error) {
	params := url.Values{
		"q":      []string{q},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}
	if r.Config.CountryCodes != "" {
		params.Set("countrycodes", r.Config.CountryCodes)
	}

	reqURL := fmt.Sprintf("%s?%s", nominatimAPIBase, params.Encode())
	log.WithField("prefix", "nominatim").WithField("req", reqURL).Debug("geocode request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", r.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, r.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API returned HTTP %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("parsing geocoding response: %w", err)
	}
	return results, nil
}
