package transits

import (
	"math"
	"testing"
	"time"

	"github.com/signalsfoundry/astrochart/aspects"
	"github.com/signalsfoundry/astrochart/ephemeris"
	"github.com/signalsfoundry/astrochart/model"
)

var windowCenter = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// natalAt pins a natal position to where a body sits at the window
// center, so exactness lands there by construction.
func natalAt(t *testing.T, body string, at time.Time) model.Body {
	t.Helper()
	for _, b := range ephemeris.Snapshot(at) {
		if b.Name == body {
			return model.Body{Name: "Natal" + body, Longitude: b.Longitude}
		}
	}
	t.Fatalf("no ephemeris body named %q", body)
	return model.Body{}
}

func TestSearch_FindsExactConjunction(t *testing.T) {
	natal := []model.Body{natalAt(t, model.Sun, windowCenter)}
	cfg := aspects.Config{AllowedTypes: []aspects.AspectType{aspects.Conjunction}}

	hits, err := Search(natal, windowCenter.AddDate(0, 0, -5), windowCenter.AddDate(0, 0, 5), 24*time.Hour, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var sunHits []Hit
	for _, h := range hits {
		if h.Transiting == model.Sun {
			sunHits = append(sunHits, h)
		}
	}
	if len(sunHits) != 1 {
		t.Fatalf("Sun conjunction hits = %d, want 1 (%v)", len(sunHits), sunHits)
	}
	h := sunHits[0]
	if h.Natal != "NatalSun" || h.Type != aspects.Conjunction {
		t.Errorf("hit = %+v, want Sun conjunct NatalSun", h)
	}
	if d := h.Time.Sub(windowCenter); d < -time.Second || d > time.Second {
		t.Errorf("exactness at %v, want within 1s of %v", h.Time, windowCenter)
	}
}

func TestSearch_FindsSquareOnBothSides(t *testing.T) {
	// A natal point 90° ahead of the Moon at the window center: the Moon
	// perfects that square at the center, then reaches the opposite
	// square about 13.7 days later (180° at 13.18°/day).
	moon := natalAt(t, model.Moon, windowCenter)
	natal := []model.Body{{Name: "Probe", Longitude: math.Mod(moon.Longitude+90, 360)}}
	cfg := aspects.Config{AllowedTypes: []aspects.AspectType{aspects.Square}}

	hits, err := Search(natal, windowCenter.AddDate(0, 0, -1), windowCenter.AddDate(0, 0, 15), 6*time.Hour, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var moonHits []Hit
	for _, h := range hits {
		if h.Transiting == model.Moon {
			moonHits = append(moonHits, h)
		}
	}
	if len(moonHits) != 2 {
		t.Fatalf("Moon square hits = %d, want 2 (%v)", len(moonHits), moonHits)
	}
	if d := moonHits[0].Time.Sub(windowCenter); d < -time.Second || d > time.Second {
		t.Errorf("first square at %v, want within 1s of %v", moonHits[0].Time, windowCenter)
	}
	gap := moonHits[1].Time.Sub(moonHits[0].Time)
	wantGapHours := 180.0 / 13.17639648 * 24
	wantGap := time.Duration(wantGapHours * float64(time.Hour))
	if diff := gap - wantGap; diff < -time.Minute || diff > time.Minute {
		t.Errorf("gap between squares = %v, want about %v", gap, wantGap)
	}
}

func TestSearch_Chronological(t *testing.T) {
	natal := []model.Body{
		natalAt(t, model.Sun, windowCenter),
		natalAt(t, model.Venus, windowCenter),
	}
	hits, err := Search(natal, windowCenter.AddDate(0, 0, -10), windowCenter.AddDate(0, 0, 10), 12*time.Hour, aspects.Config{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Time.Before(hits[i-1].Time) {
			t.Fatalf("hits out of order at %d: %v after %v", i, hits[i-1].Time, hits[i].Time)
		}
	}
}

func TestSearch_DisabledOrbSkipsType(t *testing.T) {
	natal := []model.Body{natalAt(t, model.Sun, windowCenter)}
	cfg := aspects.Config{
		AllowedTypes: []aspects.AspectType{aspects.Conjunction},
		Orbs:         map[aspects.AspectType]float64{aspects.Conjunction: 0},
	}
	hits, err := Search(natal, windowCenter.AddDate(0, 0, -5), windowCenter.AddDate(0, 0, 5), 24*time.Hour, cfg)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range hits {
		if h.Type == aspects.Conjunction {
			t.Fatalf("zero orb should disable the type, got %+v", h)
		}
	}
}

func TestSearch_InputValidation(t *testing.T) {
	natal := []model.Body{{Name: "X", Longitude: 10}}

	if _, err := Search(natal, windowCenter, windowCenter, time.Hour, aspects.Config{}); err == nil {
		t.Errorf("empty window should be rejected")
	}
	if _, err := Search(natal, windowCenter, windowCenter.Add(-time.Hour), time.Hour, aspects.Config{}); err == nil {
		t.Errorf("inverted window should be rejected")
	}
	if _, err := Search(natal, windowCenter, windowCenter.Add(time.Hour), -time.Hour, aspects.Config{}); err == nil {
		t.Errorf("negative step should be rejected")
	}
	bad := []model.Body{{Name: "Bad", Longitude: math.Inf(1)}}
	if _, err := Search(bad, windowCenter, windowCenter.Add(time.Hour), time.Hour, aspects.Config{}); err == nil {
		t.Errorf("non-finite natal longitude should be rejected")
	}
	cfg := aspects.Config{AllowedTypes: []aspects.AspectType{aspects.AspectType("parallel")}}
	if _, err := Search(natal, windowCenter, windowCenter.Add(time.Hour), time.Hour, cfg); err == nil {
		t.Errorf("unknown aspect type should be rejected")
	}
}
