// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/sitefinder/pkg/types"
)

func testCfg() types.SourcesConfig {
	return types.SourcesConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "test/0.1",
		},
		EnableOverpass:    true,
		EnableDirectory:   true,
		FetchRadiusMeters: 48000,
	}
}

var center = types.Coordinates{Lat: 40.7128, Lng: -74.0060}

const overpassFixture = `{
  "elements": [
    {
      "type": "node", "id": 101, "lat": 40.71, "lon": -74.00,
      "tags": {
        "name": "Hope Food Pantry",
        "social_facility": "food_bank",
        "phone": "609-555-1234",
        "opening_hours": "Mo-Fr 09:00-17:00",
        "addr:housenumber": "12", "addr:street": "Main St", "addr:city": "Trenton"
      }
    },
    {
      "type": "way", "id": 202,
      "center": {"lat": 40.72, "lon": -74.01},
      "tags": {"name": "Charity Corner", "shop": "charity"}
    },
    {
      "type": "node", "id": 101, "lat": 40.71, "lon": -74.00,
      "tags": {"name": "Hope Food Pantry"}
    },
    {
      "type": "node", "id": 303, "lat": 40.73, "lon": -74.02
    }
  ]
}`

func TestOverpassFetch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		gotQuery = form.Get("data")
		fmt.Fprint(w, overpassFixture)
	}))
	defer ts.Close()

	old := overpassAPIBase
	overpassAPIBase = ts.URL
	defer func() { overpassAPIBase = old }()

	a := NewOverpassAdapter(testCfg())
	records, err := a.Fetch(context.Background(), center, 48000)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// The duplicate node/101 collapses; 3 distinct elements remain.
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	for _, want := range []string{"around:48000", "social_facility", "shop\"=\"charity", "food bank|food pantry"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query missing %q:\n%s", want, gotQuery)
		}
	}

	first := records[0]
	if first.SourceID != "node/101" {
		t.Errorf("SourceID = %q, want \"node/101\"", first.SourceID)
	}
	if first.Name != "Hope Food Pantry" || first.Phone != "609-555-1234" {
		t.Errorf("tag mapping wrong: %+v", first)
	}
	if first.Hours != "Mo-Fr 09:00-17:00" {
		t.Errorf("Hours = %q", first.Hours)
	}
	if first.Street != "Main St" || first.HouseNumber != "12" || first.City != "Trenton" {
		t.Errorf("address parts wrong: %+v", first)
	}
	if first.Category != "food_bank" {
		t.Errorf("Category = %q, want \"food_bank\"", first.Category)
	}
	if first.Lat == nil || *first.Lat != 40.71 {
		t.Errorf("Lat = %v, want 40.71", first.Lat)
	}

	// Way position resolves from the center object.
	way := records[1]
	if way.Category != "charity" {
		t.Errorf("way Category = %q, want \"charity\"", way.Category)
	}
	if way.Lat == nil || *way.Lat != 40.72 {
		t.Errorf("way Lat = %v, want 40.72 (from center)", way.Lat)
	}

	// Tagless node survives mapping with empty fields and no position loss.
	bare := records[2]
	if bare.Name != "" || bare.Lat == nil {
		t.Errorf("bare element mapping wrong: %+v", bare)
	}
}

func TestOverpassEmptyResultIsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"elements": []}`)
	}))
	defer ts.Close()

	old := overpassAPIBase
	overpassAPIBase = ts.URL
	defer func() { overpassAPIBase = old }()

	a := NewOverpassAdapter(testCfg())
	records, err := a.Fetch(context.Background(), center, 48000)
	if err != nil {
		t.Fatalf("Fetch() error = %v, want success with zero records", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestOverpassServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	old := overpassAPIBase
	overpassAPIBase = ts.URL
	defer func() { overpassAPIBase = old }()

	a := NewOverpassAdapter(testCfg())
	if _, err := a.Fetch(context.Background(), center, 48000); err == nil {
		t.Error("Fetch() should fail on HTTP 400")
	}
}

func TestDirectoryStub(t *testing.T) {
	a := NewDirectoryAdapter(testCfg())
	records, err := a.Fetch(context.Background(), center, 48000)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("stub must return an empty list, got %d", len(records))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Fetch(ctx, center, 48000); err == nil {
		t.Error("cancelled context should surface as an error")
	}
}

func TestEnabled(t *testing.T) {
	cfg := testCfg()
	adapters := Enabled(cfg)
	if len(adapters) != 2 {
		t.Fatalf("len(adapters) = %d, want 2", len(adapters))
	}
	if adapters[0].Name() != "overpass" || adapters[1].Name() != "directory" {
		t.Errorf("adapter names = %s, %s", adapters[0].Name(), adapters[1].Name())
	}

	cfg.EnableDirectory = false
	if got := Enabled(cfg); len(got) != 1 {
		t.Errorf("len = %d, want 1 with directory disabled", len(got))
	}
}
