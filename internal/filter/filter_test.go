// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"testing"
	"time"

	"github.com/pdiddy/sitefinder/pkg/types"
)

// 2026-01-07 10:00 is a Wednesday morning.
var wednesdayMorning = time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

func fixture() []types.Site {
	return []types.Site{
		{Name: "Near Pantry", Type: types.TypeFoodPantry, Distance: 2.0, Phone: "(609) 555-1111", Hours: "Mo-Fr 09:00-17:00", AcceptedItems: []string{"Non-perishable foods"}},
		{Name: "Far Pantry", Type: types.TypeFoodPantry, Distance: 12.0},
		{Name: "Near Bank", Type: types.TypeFoodBank, Distance: 3.0, Website: "https://bank.org"},
		{Name: "Soup", Type: types.TypeSoupKitchen, Distance: 1.0, Hours: "Sa 10:00-14:00"},
		{Name: "Fridge", Type: types.TypeCommunityFridge, Distance: 4.5, Hours: "24/7", AcceptedItems: []string{"Fresh produce", "Dairy products"}},
	}
}

func TestApplyAndSemantics(t *testing.T) {
	// Fixture has pantries within 5 mi, a pantry beyond it, and near
	// non-pantries: only the record satisfying both predicates survives.
	got := Apply(fixture(), Criteria{
		Types:            []types.SiteType{types.TypeFoodPantry},
		MaxDistanceMiles: 5,
	})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Name != "Near Pantry" {
		t.Errorf("survivor = %q, want \"Near Pantry\"", got[0].Name)
	}
}

func TestApplyNoCriteriaKeepsAll(t *testing.T) {
	if got := Apply(fixture(), Criteria{}); len(got) != len(fixture()) {
		t.Errorf("empty criteria filtered records: %d", len(got))
	}
}

func TestApplyOpenNow(t *testing.T) {
	got := Apply(fixture(), Criteria{OpenNow: true, Now: wednesdayMorning})
	// Near Pantry (weekday hours) and Fridge (24/7); Soup is Saturday only.
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "Near Pantry" || got[1].Name != "Fridge" {
		t.Errorf("open sites = %q, %q", got[0].Name, got[1].Name)
	}
}

func TestApplyHasPhoneHasWebsite(t *testing.T) {
	phones := Apply(fixture(), Criteria{HasPhone: true})
	if len(phones) != 1 || phones[0].Name != "Near Pantry" {
		t.Errorf("HasPhone = %v", phones)
	}
	webs := Apply(fixture(), Criteria{HasWebsite: true})
	if len(webs) != 1 || webs[0].Name != "Near Bank" {
		t.Errorf("HasWebsite = %v", webs)
	}
}

func TestApplyAcceptsAnyOf(t *testing.T) {
	got := Apply(fixture(), Criteria{AcceptsAnyOf: []string{"produce", "canned"}})
	if len(got) != 1 || got[0].Name != "Fridge" {
		t.Errorf("AcceptsAnyOf = %v, want only Fridge", got)
	}

	// Case-insensitive substring.
	got = Apply(fixture(), Criteria{AcceptsAnyOf: []string{"NON-PERISHABLE"}})
	if len(got) != 1 || got[0].Name != "Near Pantry" {
		t.Errorf("case-insensitive match failed: %v", got)
	}
}

func TestSortName(t *testing.T) {
	got := Sort(fixture(), SortName, wednesdayMorning)
	want := []string{"Far Pantry", "Fridge", "Near Bank", "Near Pantry", "Soup"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("pos %d = %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestSortDistanceDefault(t *testing.T) {
	got := Sort(fixture(), SortKey("bogus"), wednesdayMorning)
	for i := 1; i < len(got); i++ {
		if got[i-1].Distance > got[i].Distance {
			t.Fatalf("distances not ascending at %d", i)
		}
	}
}

func TestSortOpenStatusTiebreak(t *testing.T) {
	sites := []types.Site{
		{Name: "Closed Far", Distance: 2.0},
		{Name: "Closed Near", Distance: 1.0},
		{Name: "Open", Distance: 5.0, Hours: "24/7"},
	}

	got := Sort(sites, SortOpenStatus, wednesdayMorning)
	want := []string{"Open", "Closed Near", "Closed Far"}
	for i, w := range want {
		if got[i].Name != w {
			t.Errorf("pos %d = %q, want %q", i, got[i].Name, w)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := fixture()
	first := in[0].Name
	Sort(in, SortName, wednesdayMorning)
	if in[0].Name != first {
		t.Error("Sort must not reorder its input slice")
	}
}
