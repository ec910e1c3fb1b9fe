// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import "errors"

var (
	// ErrInvalidInput marks a mode-specific shape failure caught before
	// any network activity. Never retried automatically.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAllSourcesFailed is returned when every adapter failed. Distinct
	// from zero results, which is a successful empty list.
	ErrAllSourcesFailed = errors.New("all sources failed")

	// ErrPermissionDenied is returned by location providers when the
	// device position is unavailable, so callers can prompt for settings
	// instead of retrying blindly.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrNoLocationProvider is returned by SearchNearby when the engine
	// was built without a provider.
	ErrNoLocationProvider = errors.New("no location provider configured")
)
