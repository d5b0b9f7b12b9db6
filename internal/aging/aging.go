// Package aging classifies elapsed days into labelled buckets.
package aging

import (
	"fmt"
	"time"
)

// Bound is an inclusive upper limit in days and the label it assigns
type Bound struct {
	MaxDays int
	Label   string
}

// Ruleset is an ordered list of bounds plus the label for anything older.
// The first bound whose limit is satisfied wins.
type Ruleset struct {
	Name   string
	Bounds []Bound
	Final  string
}

// New validates that bounds are strictly increasing and labels unique
func New(name string, final string, bounds ...Bound) (Ruleset, error) {
	seen := map[string]bool{final: true}
	for i, b := range bounds {
		if i > 0 && b.MaxDays <= bounds[i-1].MaxDays {
			return Ruleset{}, fmt.Errorf("ruleset %s: bound %d (%d days) not above previous %d", name, i, b.MaxDays, bounds[i-1].MaxDays)
		}
		if seen[b.Label] {
			return Ruleset{}, fmt.Errorf("ruleset %s: duplicate label %q", name, b.Label)
		}
		seen[b.Label] = true
	}
	return Ruleset{Name: name, Bounds: bounds, Final: final}, nil
}

// MustNew is New for package level rulesets
func MustNew(name string, final string, bounds ...Bound) Ruleset {
	r, err := New(name, final, bounds...)
	if err != nil {
		panic(err)
	}
	return r
}

var (
	// Ledger ages direct business from the later of inception and effectivity.
	Ledger = MustNew("ledger", "Over 360 days",
		Bound{89, "Within the 90days CTE"},
		Bound{120, "Over 90 days"},
		Bound{180, "Over 120 days"},
		Bound{360, "Over 180 days"},
	)

	// CashCall ages claim cash calls from the FLA date.
	CashCall = MustNew("cash_call", "Over 360 days",
		Bound{30, "CURRENT"},
		Bound{60, "Over 30 days"},
		Bound{90, "Over 60 days"},
		Bound{120, "Over 90 days"},
		Bound{180, "Over 120 days"},
		Bound{360, "Over 180 days"},
	)
)

// Labels lists every bucket in display order, final bucket last
func (r Ruleset) Labels() []string {
	labels := make([]string, 0, len(r.Bounds)+1)
	for _, b := range r.Bounds {
		labels = append(labels, b.Label)
	}
	return append(labels, r.Final)
}

// Index returns the position of days in Labels
func (r Ruleset) Index(days *int) int {
	if days == nil {
		return 0
	}
	for i, b := range r.Bounds {
		if *days <= b.MaxDays {
			return i
		}
	}
	return len(r.Bounds)
}

// Classify maps elapsed days to a label. Unknown ages fall in the most
// lenient (first) bucket, and so do negative ages.
func Classify(days *int, r Ruleset) string {
	return r.Labels()[r.Index(days)]
}

// ElapsedDays counts calendar days from date to today, ignoring clock time
func ElapsedDays(date, today time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(d).Hours() / 24)
}

// Days is ElapsedDays for an optional date
func Days(date *time.Time, today time.Time) *int {
	if date == nil {
		return nil
	}
	d := ElapsedDays(*date, today)
	return &d
}
