// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openhours evaluates free-text opening-hours strings against a
// point in time. This is a best-effort heuristic, not an opening-hours
// grammar: sources supply hours in whatever format they like, and callers
// must not assume exhaustive correctness. Unknown means closed.
// Implements: prd005-filters (open-now predicate);
//
//	docs/ARCHITECTURE.md § Open Status.
package openhours

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dayAbbrevs maps time.Weekday to the two-letter abbreviations commonly
// found in hours strings ("Mo-Fr 09:00-17:00", "Sa 10-2").
var dayAbbrevs = [...]string{"su", "mo", "tu", "we", "th", "fr", "sa"}

// timeRange matches H[:MM]-H[:MM] anywhere in the string.
var timeRange = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*-\s*(\d{1,2})(?::(\d{2}))?`)

// IsOpenNow reports whether an hours string covers the given instant.
// The current time is an explicit parameter so the evaluation stays pure
// and deterministic under test.
func IsOpenNow(hours string, now time.Time) bool {
	h := strings.ToLower(strings.TrimSpace(hours))
	if h == "" {
		return false
	}

	if strings.Contains(h, "24/7") || strings.Contains(h, "always open") {
		return true
	}
	if strings.Contains(h, "closed") || strings.Contains(h, "by appointment") {
		return false
	}

	if !mentionsDay(h, now.Weekday()) {
		return false
	}

	m := timeRange.FindStringSubmatch(h)
	if m == nil {
		return false
	}

	open := minuteOfDay(m[1], m[2])
	close := minuteOfDay(m[3], m[4])
	nowMin := now.Hour()*60 + now.Minute()

	// Inclusive on both ends.
	return nowMin >= open && nowMin <= close
}

// mentionsDay reports whether the string names the weekday, either
// directly ("we") or inside a day range ("mo-fr").
func mentionsDay(h string, day time.Weekday) bool {
	abbrev := dayAbbrevs[day]
	if strings.Contains(h, abbrev) {
		return true
	}

	// Day ranges: "mo-fr" covers tu, we, th without naming them.
	for from := 0; from < 7; from++ {
		for to := 0; to < 7; to++ {
			if !strings.Contains(h, dayAbbrevs[from]+"-"+dayAbbrevs[to]) {
				continue
			}
			if dayInRange(from, to, int(day)) {
				return true
			}
		}
	}
	return false
}

// dayInRange handles wrap-around ranges like fr-mo.
func dayInRange(from, to, day int) bool {
	if from <= to {
		return day >= from && day <= to
	}
	return day >= from || day <= to
}

func minuteOfDay(hourStr, minStr string) int {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}
	return hour*60 + minute
}
