// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openhours

import (
	"testing"
	"time"
)

// 2026-01-07 is a Wednesday.
func wednesday(hour, minute int) time.Time {
	return time.Date(2026, 1, 7, hour, minute, 0, 0, time.UTC)
}

func saturday(hour, minute int) time.Time {
	return time.Date(2026, 1, 10, hour, minute, 0, 0, time.UTC)
}

func TestIsOpenNow(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		now   time.Time
		want  bool
	}{
		{"weekday range open", "Mo-Fr 09:00-17:00", wednesday(10, 0), true},
		{"weekday range after close", "Mo-Fr 09:00-17:00", wednesday(18, 0), false},
		{"weekday range before open", "Mo-Fr 09:00-17:00", wednesday(8, 59), false},
		{"inclusive open bound", "Mo-Fr 09:00-17:00", wednesday(9, 0), true},
		{"inclusive close bound", "Mo-Fr 09:00-17:00", wednesday(17, 0), true},
		{"always open", "24/7", saturday(3, 0), true},
		{"always open phrase", "Always open", wednesday(23, 59), true},
		{"empty string", "", wednesday(12, 0), false},
		{"closed wins", "Mo-Fr 09:00-17:00, currently closed", wednesday(10, 0), false},
		{"by appointment", "By appointment only", wednesday(10, 0), false},
		{"day not mentioned", "Sa 10:00-14:00", wednesday(11, 0), false},
		{"day mentioned directly", "Sa 10:00-14:00", saturday(11, 0), true},
		{"range without times", "Mo-Fr", wednesday(10, 0), false},
		{"bare hours no day", "9-5", wednesday(10, 0), false},
		{"hours without minutes", "We 9-17", wednesday(10, 30), true},
		{"wraparound day range", "Fr-Mo 08:00-20:00", saturday(10, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOpenNow(tt.hours, tt.now); got != tt.want {
				t.Errorf("IsOpenNow(%q, %v) = %v, want %v", tt.hours, tt.now, got, tt.want)
			}
		})
	}
}
