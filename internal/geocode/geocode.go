// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geocode resolves a postal code, city name, or raw coordinate
// pair into a canonical latitude/longitude point.
// Implements: prd002-geocode (R1-R3);
//
//	docs/ARCHITECTURE.md § Location Resolution.
package geocode

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/sitefinder/pkg/types"
)

// Mode selects how the raw input string is interpreted.
type Mode string

const (
	ModeZip         Mode = "zip"
	ModeCity        Mode = "city"
	ModeCoordinates Mode = "coordinates"
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// ValidateInput checks the mode-specific input shape before any network
// activity. Coordinates mode is exempt; the parse itself is the check.
func ValidateInput(input string, mode Mode) error {
	switch mode {
	case ModeZip:
		if !zipPattern.MatchString(strings.TrimSpace(input)) {
			return fmt.Errorf("postal code must be 5 digits")
		}
	case ModeCity:
		if len(strings.TrimSpace(input)) < 2 {
			return fmt.Errorf("city name must be at least 2 characters")
		}
	case ModeCoordinates:
	default:
		return fmt.Errorf("unknown search mode %q", mode)
	}
	return nil
}

// Error describes a failed resolution with a mode-specific user-facing
// message.
type Error struct {
	Mode    Mode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// failureMessage returns the user-facing message for an unresolvable input.
func failureMessage(mode Mode) string {
	if mode == ModeZip {
		return "Unable to determine location from postal code"
	}
	return "Unable to find that city"
}

// Resolver turns a validated input string into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, input string, mode Mode) (types.Coordinates, error)
}

// ParseCoordinates parses a literal "lat,lng" pair. No network call.
func ParseCoordinates(input string) (types.Coordinates, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return types.Coordinates{}, fmt.Errorf("coordinates must be \"lat,lng\"")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return types.Coordinates{}, fmt.Errorf("parsing longitude: %w", err)
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return types.Coordinates{}, fmt.Errorf("coordinates out of range: %f,%f", lat, lng)
	}

	return types.Coordinates{Lat: lat, Lng: lng}, nil
}
