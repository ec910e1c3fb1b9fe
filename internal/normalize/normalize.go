// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw, source-shaped records into the canonical
// Site entity, applying field-level cleanup and keyword extraction.
// Implements: prd003-normalize (R1-R6);
//
//	docs/ARCHITECTURE.md § Normalization.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/sitefinder/pkg/types"
)

var (
	// ErrNoCoordinates rejects records without a resolvable position.
	ErrNoCoordinates = errors.New("record has no coordinates")

	// ErrNotFoodRelated rejects charity/thrift listings that show no food
	// connection; a broad geodata query surfaces plenty of unrelated
	// charitable shops.
	ErrNotFoodRelated = errors.New("charity listing is not food related")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var nonDigits = regexp.MustCompile(`\D`)

// foodKeywords qualify a generic charity listing as food assistance.
var foodKeywords = []string{"food", "meal", "pantry", "soup", "grocer", "hunger", "nutrition"}

// Normalize converts raw into a Site, or returns a rejection error.
// sourceTag names the adapter that produced the record and is carried
// through for diagnostics only.
func Normalize(raw types.RawRecord, sourceTag string) (types.Site, error) {
	if raw.Lat == nil || raw.Lng == nil {
		return types.Site{}, ErrNoCoordinates
	}

	if isCharityListing(raw.Category) && !mentionsFood(raw) {
		return types.Site{}, ErrNotFoodRelated
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = "Food Assistance Site"
	}

	text := strings.ToLower(raw.Description + " " + raw.Notes)

	site := types.Site{
		ID:            recordID(raw, sourceTag),
		Name:          name,
		Address:       buildAddress(raw),
		Phone:         FormatPhone(raw.Phone),
		Website:       NormalizeWebsite(raw.Website),
		Email:         ValidateEmail(raw.Email),
		Hours:         strings.TrimSpace(raw.Hours),
		Type:          InferType(raw),
		AcceptedItems: extractVocab(text, acceptedItemVocab),
		Requirements:  extractVocab(text, requirementVocab),
		Languages:     extractVocab(text, languageVocab),
		Accessibility: extractVocab(text, accessibilityVocab),
		Coordinates:   types.Coordinates{Lat: *raw.Lat, Lng: *raw.Lng},
		Source:        sourceTag,
	}
	return site, nil
}

// recordID prefers the source's native ID, namespaced by adapter so two
// sources can't collide; otherwise a fresh UUID, unique within the
// result set.
func recordID(raw types.RawRecord, sourceTag string) string {
	if raw.SourceID != "" {
		return fmt.Sprintf("%s-%s", sourceTag, raw.SourceID)
	}
	return uuid.NewString()
}

func isCharityListing(category string) bool {
	c := strings.ToLower(category)
	return strings.Contains(c, "charity") || strings.Contains(c, "thrift")
}

func mentionsFood(raw types.RawRecord) bool {
	text := strings.ToLower(raw.Name + " " + raw.Description + " " + raw.Purpose)
	for _, kw := range foodKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// InferType classifies the record. Keyword checks run in priority order
// and the first match wins.
func InferType(raw types.RawRecord) types.SiteType {
	text := strings.ToLower(raw.Name + " " + raw.Description)
	category := strings.ToLower(raw.Category)

	switch {
	case strings.Contains(text, "soup kitchen") || category == "soup_kitchen":
		return types.TypeSoupKitchen
	case strings.Contains(text, "mobile"):
		return types.TypeMobileFoodBank
	case strings.Contains(text, "community fridge") || strings.Contains(text, "little free pantry"):
		return types.TypeCommunityFridge
	case strings.Contains(text, "food pantry") || category == "food_pantry" || category == "pantry":
		return types.TypeFoodPantry
	case strings.Contains(text, "food bank") || category == "food_bank":
		return types.TypeFoodBank
	default:
		return types.TypeOther
	}
}

// buildAddress assembles structured parts when available, falls back to
// the source's free-text address, then to a fixed placeholder.
func buildAddress(raw types.RawRecord) string {
	var parts []string
	street := strings.TrimSpace(raw.HouseNumber + " " + raw.Street)
	if street != "" {
		parts = append(parts, street)
	}
	if raw.City != "" {
		parts = append(parts, raw.City)
	}
	if raw.State != "" {
		parts = append(parts, raw.State)
	}
	if raw.Postcode != "" {
		parts = append(parts, raw.Postcode)
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}

	if addr := strings.TrimSpace(raw.Address); addr != "" {
		return addr
	}
	return "Address not available"
}

// FormatPhone renders 10-digit North American numbers as (AAA) BBB-CCCC.
// An 11-digit number with a leading 1 drops the country code first.
// Anything else passes through unchanged.
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// NormalizeWebsite forces a scheme onto scheme-less URLs.
func NormalizeWebsite(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	if !strings.HasPrefix(site, "http://") && !strings.HasPrefix(site, "https://") {
		return "https://" + site
	}
	return site
}

// ValidateEmail keeps the address only when it passes a basic
// local@domain.tld shape check.
func ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	return email
}

// vocabEntry maps a trigger phrase found in free text to a canonical
// short string.
type vocabEntry struct {
	trigger   string
	canonical string
}

var acceptedItemVocab = []vocabEntry{
	{"non-perishable", "Non-perishable foods"},
	{"nonperishable", "Non-perishable foods"},
	{"canned", "Canned goods"},
	{"fresh produce", "Fresh produce"},
	{"produce", "Fresh produce"},
	{"dairy", "Dairy products"},
	{"frozen", "Frozen foods"},
	{"baby food", "Baby food"},
	{"formula", "Baby formula"},
	{"pet food", "Pet food"},
	{"hygiene", "Hygiene products"},
	{"diapers", "Diapers"},
}

var requirementVocab = []vocabEntry{
	{"id required", "Valid ID required"},
	{"photo id", "Valid ID required"},
	{"proof of residen", "Proof of residency required"},
	{"proof of address", "Proof of residency required"},
	{"proof of income", "Proof of income required"},
	{"referral", "Referral required"},
	{"appointment", "Appointment required"},
	{"registration", "Registration required"},
}

var languageVocab = []vocabEntry{
	{"span", "Spanish"},
	{"chin", "Chinese"},
	{"mandarin", "Chinese"},
	{"cantonese", "Chinese"},
	{"viet", "Vietnamese"},
	{"korean", "Korean"},
	{"russian", "Russian"},
	{"arabic", "Arabic"},
	{"french", "French"},
	{"creole", "Haitian Creole"},
	{"tagalog", "Tagalog"},
}

var accessibilityVocab = []vocabEntry{
	{"wheelchair", "Wheelchair accessible"},
	{"accessible entrance", "Wheelchair accessible"},
	{"parking", "Parking available"},
	{"public transit", "Near public transit"},
	{"bus route", "Near public transit"},
	{"delivery", "Home delivery available"},
	{"drive-thru", "Drive-thru service"},
	{"drive thru", "Drive-thru service"},
}

// extractVocab scans lower-cased text for trigger phrases and returns the
// canonical forms, first-trigger order, no duplicates.
func extractVocab(text string, vocab []vocabEntry) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	for _, v := range vocab {
		if !strings.Contains(text, v.trigger) {
			continue
		}
		if seen[v.canonical] {
			continue
		}
		seen[v.canonical] = true
		out = append(out, v.canonical)
	}
	return out
}
