// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pdiddy/sitefinder/internal/httputil"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// overpassAPIBase is the Overpass interpreter endpoint. Declared as a var
// so tests can substitute an httptest server.
var overpassAPIBase = "https://overpass-api.de/api/interpreter"

// OverpassAdapter queries OpenStreetMap through the Overpass API for
// facilities tagged as food assistance services or charity shops, plus a
// name-keyword fallback for nodes tagged neither way.
type OverpassAdapter struct {
	Client *http.Client
	Config types.SourcesConfig
}

// NewOverpassAdapter builds an adapter with a client honouring the
// configured timeout.
func NewOverpassAdapter(cfg types.SourcesConfig) *OverpassAdapter {
	return &OverpassAdapter{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// Name returns the adapter identifier.
func (a *OverpassAdapter) Name() string { return "overpass" }

// buildQuery renders the Overpass QL union: tag queries for social
// facilities and charity shops, plus a case-insensitive name regex.
func buildQuery(center types.Coordinates, radiusMeters float64) string {
	around := fmt.Sprintf("around:%.0f,%f,%f", radiusMeters, center.Lat, center.Lng)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  nwr["social_facility"="food_bank"](%[1]s);
  nwr["social_facility"="soup_kitchen"](%[1]s);
  nwr["amenity"="social_facility"](%[1]s);
  nwr["shop"="charity"](%[1]s);
  nwr["name"~"food bank|food pantry|soup kitchen|community fridge",i](%[1]s);
);
out center tags;`, around)
}

// overpassResponse mirrors the Overpass JSON envelope. Ways and relations
// carry their position in a "center" object instead of lat/lon.
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *overpassCenter   `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Fetch queries Overpass and maps elements to raw records. Elements
// appearing in more than one branch of the union are collapsed by OSM
// element ID.
func (a *OverpassAdapter) Fetch(ctx context.Context, center types.Coordinates, radiusMeters float64) ([]types.RawRecord, error) {
	body := url.Values{"data": []string{buildQuery(center, radiusMeters)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, overpassAPIBase,
		strings.NewReader(body.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned HTTP %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing overpass response: %w", err)
	}

	seen := make(map[string]bool)
	var records []types.RawRecord
	for _, el := range parsed.Elements {
		key := fmt.Sprintf("%s/%d", el.Type, el.ID)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, elementToRecord(el, key))
	}

	log.WithField("prefix", "overpass").
		WithField("elements", len(parsed.Elements)).
		WithField("records", len(records)).
		Debug("fetched overpass records")

	return records, nil
}

// elementToRecord maps OSM tags onto the raw record shape. Missing tags
// stay empty; position resolves from lat/lon or the way/relation center.
func elementToRecord(el overpassElement, key string) types.RawRecord {
	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	rec := types.RawRecord{
		SourceID:    key,
		Name:        tags["name"],
		Description: tags["description"],
		Notes:       tags["note"],
		Phone:       firstNonEmpty(tags["phone"], tags["contact:phone"]),
		Website:     firstNonEmpty(tags["website"], tags["contact:website"]),
		Email:       firstNonEmpty(tags["email"], tags["contact:email"]),
		Hours:       tags["opening_hours"],
		HouseNumber: tags["addr:housenumber"],
		Street:      tags["addr:street"],
		City:        tags["addr:city"],
		State:       tags["addr:state"],
		Postcode:    tags["addr:postcode"],
		Purpose:     firstNonEmpty(tags["social_facility:for"], tags["social_facility"]),
		Category:    categoryFromTags(tags),
	}

	switch {
	case el.Lat != nil && el.Lon != nil:
		rec.Lat, rec.Lng = el.Lat, el.Lon
	case el.Center != nil:
		rec.Lat, rec.Lng = &el.Center.Lat, &el.Center.Lon
	}
	return rec
}

func categoryFromTags(tags map[string]string) string {
	if sf := tags["social_facility"]; sf != "" {
		return sf
	}
	if tags["shop"] == "charity" {
		return "charity"
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
