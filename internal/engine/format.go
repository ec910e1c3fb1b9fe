// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sitefinder/internal/openhours"
	"github.com/pdiddy/sitefinder/pkg/types"
)

// FormatTable writes sites as a human-readable table to w.
func FormatTable(sites []types.Site, now time.Time, w io.Writer) {
	if len(sites) == 0 {
		fmt.Fprintln(w, "No sites found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %-18s  %-8s  %-6s  %s\n",
		"Rank", "Name", "Type", "Miles", "Open", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 92))

	for i, s := range sites {
		// OSM names are often non-ASCII; truncate on runes so a
		// multibyte character is never split mid-sequence.
		name := s.Name
		if r := []rune(name); len(r) > 40 {
			name = string(r[:37]) + "..."
		}
		open := "-"
		if s.Hours != "" {
			if openhours.IsOpenNow(s.Hours, now) {
				open = "yes"
			} else {
				open = "no"
			}
		}
		fmt.Fprintf(w, "%-4d  %-40s  %-18s  %-8.1f  %-6s  %s\n",
			i+1, name, s.Type, s.Distance, open, s.Source)
	}

	fmt.Fprintf(w, "\n%d site(s)\n", len(sites))
}

// FormatJSON writes sites as indented JSON to w.
func FormatJSON(sites []types.Site, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sites)
}

// FormatYAML writes sites as YAML to w.
func FormatYAML(sites []types.Site, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(sites)
}
