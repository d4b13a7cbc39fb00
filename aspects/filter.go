package aspects

import (
	"fmt"
	"strings"
)

// FilterByType returns the aspects whose type is in the given set,
// keeping input order.
func FilterByType(aspects []Aspect, types ...AspectType) []Aspect {
	want := make(map[AspectType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []Aspect
	for _, a := range aspects {
		if want[a.Type] {
			out = append(out, a)
		}
	}
	return out
}

// FilterByBody returns the aspects involving the named body, keeping
// input order.
func FilterByBody(aspects []Aspect, name string) []Aspect {
	var out []Aspect
	for _, a := range aspects {
		if a.Involves(name) {
			out = append(out, a)
		}
	}
	return out
}

// SummaryByType tallies aspects per type. Every requested type gets an
// entry, zero-count ones included; with no types given the tally covers
// all known types.
func SummaryByType(aspects []Aspect, types ...AspectType) map[AspectType]int {
	if len(types) == 0 {
		types = AllAspectTypes()
	}
	summary := make(map[AspectType]int, len(types))
	for _, t := range types {
		summary[t] = 0
	}
	for _, a := range aspects {
		if _, ok := summary[a.Type]; ok {
			summary[a.Type]++
		}
	}
	return summary
}

// FormatAspect renders a one-line display form, e.g.
// "Sun □ Mars (57%)", with an out-of-sign marker when applicable.
func FormatAspect(a Aspect) string {
	s := fmt.Sprintf("%s %s %s (%.0f%%)", a.Body1, a.Symbol, a.Body2, a.Strength)
	if a.OutOfSign {
		s += " (out-of-sign)"
	}
	return s
}

// FormatPattern renders the pattern type and its participants, e.g.
// "Grand Trine: Sun, Jupiter, Moon".
func FormatPattern(p AspectPattern) string {
	return fmt.Sprintf("%s: %s", p.Type, strings.Join(p.Bodies, ", "))
}
