package model

import (
	"fmt"
	"time"
)

// Interval is a half-open time window [Start, End). End is excluded so
// back-to-back reservations never conflict at the shared boundary.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open intervals intersect:
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1.
//
// This is the single conflict predicate for the whole system. Create,
// update and availability checks all go through it; the Mongo conflict
// query expresses the same bounds.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Validate rejects zero-length and inverted windows.
func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return fmt.Errorf("interval start and end are required")
	}
	if !i.Start.Before(i.End) {
		return fmt.Errorf("interval end (%s) must be after start (%s)",
			i.End.Format(time.RFC3339), i.Start.Format(time.RFC3339))
	}
	return nil
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
