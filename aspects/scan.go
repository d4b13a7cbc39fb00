package aspects

import (
	"fmt"
	"sort"

	"github.com/signalsfoundry/astrochart/model"
)

// ScanResult is the output of one all-pairs scan. PairsChecked counts
// every unordered pair that was examined, matched or not.
type ScanResult struct {
	Aspects      []Aspect `json:"Aspects"`
	PairsChecked int      `json:"PairsChecked"`
}

// Scan classifies every unordered pair among the given bodies and
// returns the matches sorted by strength, strongest first. Equal
// strengths keep scan-encounter order, so identical inputs always
// produce identical output. Zero or one body yields an empty result.
//
// The only error condition is a non-finite longitude; it is reported up
// front before any pair is examined.
func Scan(bodies []model.Body, cfg Config) (*ScanResult, error) {
	for _, b := range bodies {
		if _, err := NormalizeLongitude(b.Longitude); err != nil {
			return nil, fmt.Errorf("scan body %q: %w", b.Name, err)
		}
	}

	n := len(bodies)
	result := &ScanResult{
		Aspects:      make([]Aspect, 0, n),
		PairsChecked: n * (n - 1) / 2,
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if asp, ok := Classify(bodies[i], bodies[j], cfg); ok {
				result.Aspects = append(result.Aspects, asp)
			}
		}
	}

	sort.SliceStable(result.Aspects, func(i, j int) bool {
		return result.Aspects[i].Strength > result.Aspects[j].Strength
	})

	return result, nil
}
