package aspects

import (
	"math"
	"reflect"
	"testing"

	"github.com/signalsfoundry/astrochart/model"
)

// scanFor is a test helper running a scan with the full aspect-type
// allow-list, which pattern scenarios need for quincunxes.
func scanFor(t *testing.T, bodies []model.Body) []Aspect {
	t.Helper()
	res, err := Scan(bodies, Config{AllowedTypes: AllAspectTypes()})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return res.Aspects
}

func patternsOfType(patterns []AspectPattern, pt PatternType) []AspectPattern {
	var out []AspectPattern
	for _, p := range patterns {
		if p.Type == pt {
			out = append(out, p)
		}
	}
	return out
}

// angleSum adds the nominal angles of a pattern's constituent aspects.
func angleSum(p AspectPattern) float64 {
	sum := 0.0
	for _, a := range p.Aspects {
		sum += a.Angle
	}
	return sum
}

func TestFindPatterns_TSquare(t *testing.T) {
	aspects := scanFor(t, []model.Body{body("A", 0), body("B", 180), body("C", 90)})
	found := patternsOfType(FindPatterns(aspects), PatternTSquare)
	if len(found) != 1 {
		t.Fatalf("expected exactly one T-Square, got %d", len(found))
	}
	p := found[0]
	if apex := p.Bodies[len(p.Bodies)-1]; apex != "C" {
		t.Errorf("apex = %s, want C", apex)
	}
	if got := angleSum(p); got != 360 {
		t.Errorf("T-Square angle sum = %v, want 360", got)
	}
	if len(p.Aspects) != 3 {
		t.Errorf("T-Square has %d aspects, want 3", len(p.Aspects))
	}
}

func TestFindPatterns_GrandTrine(t *testing.T) {
	aspects := scanFor(t, []model.Body{body("A", 0), body("B", 120), body("C", 240)})
	found := patternsOfType(FindPatterns(aspects), PatternGrandTrine)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Grand Trine, got %d", len(found))
	}
	p := found[0]
	for _, a := range p.Aspects {
		if a.Type != Trine {
			t.Errorf("constituent aspect %s-%s is %s, want trine", a.Body1, a.Body2, a.Type)
		}
	}
	if got := angleSum(p); got != 360 {
		t.Errorf("Grand Trine angle sum = %v, want 360", got)
	}
}

func TestFindPatterns_GrandCross(t *testing.T) {
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 90), body("C", 180), body("D", 270),
	})
	found := patternsOfType(FindPatterns(aspects), PatternGrandCross)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Grand Cross, got %d", len(found))
	}
	p := found[0]
	if len(p.Bodies) != 4 {
		t.Fatalf("Grand Cross has %d bodies, want 4", len(p.Bodies))
	}
	var squares, opps int
	squareSum, oppSum := 0.0, 0.0
	for _, a := range p.Aspects {
		switch a.Type {
		case Square:
			squares++
			squareSum += a.Angle
		case Opposition:
			opps++
			oppSum += a.Angle
		}
	}
	if squares != 4 || opps != 2 {
		t.Errorf("composition = %d squares + %d oppositions, want 4 + 2", squares, opps)
	}
	if squareSum != 360 {
		t.Errorf("square angle sum = %v, want 360", squareSum)
	}
	if oppSum != 360 {
		t.Errorf("opposition angle sum = %v, want 360", oppSum)
	}
}

func TestFindPatterns_Yod(t *testing.T) {
	// Base sextile at 0° and 60°, apex at 210°: quincunx to both ends.
	aspects := scanFor(t, []model.Body{body("A", 0), body("B", 60), body("C", 210)})
	found := patternsOfType(FindPatterns(aspects), PatternYod)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Yod, got %d", len(found))
	}
	p := found[0]
	if apex := p.Bodies[len(p.Bodies)-1]; apex != "C" {
		t.Errorf("apex = %s, want C", apex)
	}
	if got := angleSum(p); got != 360 {
		t.Errorf("Yod angle sum = %v, want 360", got)
	}
}

func TestFindPatterns_Kite(t *testing.T) {
	// Grand Trine 0/120/240 plus a focal body at 180 opposing the 0°
	// vertex and sextiling the other two.
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 120), body("C", 240), body("D", 180),
	})
	patterns := FindPatterns(aspects)

	kites := patternsOfType(patterns, PatternKite)
	if len(kites) != 1 {
		t.Fatalf("expected exactly one Kite, got %d", len(kites))
	}
	p := kites[0]
	if focal := p.Bodies[len(p.Bodies)-1]; focal != "D" {
		t.Errorf("focal body = %s, want D", focal)
	}
	var trines, opps, sextiles int
	for _, a := range p.Aspects {
		switch a.Type {
		case Trine:
			trines++
		case Opposition:
			opps++
		case Sextile:
			sextiles++
		}
	}
	if trines != 3 || opps != 1 || sextiles != 2 {
		t.Errorf("composition = %d trines + %d oppositions + %d sextiles, want 3 + 1 + 2",
			trines, opps, sextiles)
	}

	// The embedded Grand Trine is still reported separately: no
	// cross-pattern deduplication.
	if trinesFound := patternsOfType(patterns, PatternGrandTrine); len(trinesFound) != 1 {
		t.Errorf("expected the embedded Grand Trine alongside the Kite, got %d", len(trinesFound))
	}
}

func TestFindPatterns_MysticRectangle(t *testing.T) {
	// 0-180 and 60-240 oppositions; sides alternate sextile (0-60,
	// 180-240) and trine (0-240, 60-180).
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 60), body("C", 180), body("D", 240),
	})
	found := patternsOfType(FindPatterns(aspects), PatternMysticRectangle)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Mystic Rectangle, got %d", len(found))
	}
	p := found[0]
	var opps, trines, sextiles int
	for _, a := range p.Aspects {
		switch a.Type {
		case Opposition:
			opps++
		case Trine:
			trines++
		case Sextile:
			sextiles++
		}
	}
	if opps != 2 || trines != 2 || sextiles != 2 {
		t.Errorf("composition = %d oppositions + %d trines + %d sextiles, want 2 + 2 + 2",
			opps, trines, sextiles)
	}
	if got := angleSum(p); got != 720 {
		t.Errorf("Mystic Rectangle angle sum = %v, want 720", got)
	}
}

func TestFindPatterns_Stellium(t *testing.T) {
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 5), body("C", 8), body("D", 3),
	})
	found := patternsOfType(FindPatterns(aspects), PatternStellium)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Stellium, got %d", len(found))
	}
	p := found[0]
	if len(p.Bodies) != 4 {
		t.Fatalf("Stellium has %d bodies, want all 4", len(p.Bodies))
	}
	for _, name := range []string{"A", "B", "C", "D"} {
		present := false
		for _, b := range p.Bodies {
			if b == name {
				present = true
			}
		}
		if !present {
			t.Errorf("Stellium missing body %s", name)
		}
	}
}

func TestFindPatterns_StelliumIsMaximal(t *testing.T) {
	// A, B, C cluster tightly; D conjoins nothing. The only stellium is
	// the triple; no sub-pair or spurious superset is reported.
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 4), body("C", 7), body("D", 200),
	})
	found := patternsOfType(FindPatterns(aspects), PatternStellium)
	if len(found) != 1 {
		t.Fatalf("expected exactly one Stellium, got %d", len(found))
	}
	if got := len(found[0].Bodies); got != 3 {
		t.Errorf("Stellium size = %d, want 3", got)
	}
}

func TestFindPatterns_TooFewAspects(t *testing.T) {
	// A single aspect can never form a pattern.
	aspects := scanFor(t, []model.Body{body("A", 0), body("B", 90)})
	if len(aspects) != 1 {
		t.Fatalf("expected one aspect, got %d", len(aspects))
	}
	if patterns := FindPatterns(aspects); len(patterns) != 0 {
		t.Errorf("expected no patterns from one aspect, got %d", len(patterns))
	}

	if patterns := FindPatterns(nil); len(patterns) != 0 {
		t.Errorf("expected no patterns from an empty aspect list, got %d", len(patterns))
	}
}

func TestFindPatterns_Idempotent(t *testing.T) {
	aspects := scanFor(t, []model.Body{
		body("A", 0), body("B", 120), body("C", 240), body("D", 180),
	})
	first := FindPatterns(aspects)
	second := FindPatterns(aspects)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("FindPatterns is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestFindPatterns_DetectorOrder(t *testing.T) {
	// A chart carrying both a T-Square (E-F opposition squared by G) and
	// a Grand Trine cluster must report the T-Square first.
	bodies := []model.Body{
		body("A", 10), body("B", 130), body("C", 250), // grand trine
		body("E", 0), body("F", 180), body("G", 90), // t-square
	}
	res, err := Scan(bodies, Config{AllowedTypes: AllAspectTypes(), MinimumStrength: 30})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	patterns := FindPatterns(res.Aspects)

	firstTSquare, firstTrine := -1, -1
	for i, p := range patterns {
		if p.Type == PatternTSquare && firstTSquare == -1 {
			firstTSquare = i
		}
		if p.Type == PatternGrandTrine && firstTrine == -1 {
			firstTrine = i
		}
	}
	if firstTSquare == -1 || firstTrine == -1 {
		t.Fatalf("expected both a T-Square and a Grand Trine, got %+v", patterns)
	}
	if firstTSquare > firstTrine {
		t.Errorf("T-Square reported at %d after Grand Trine at %d", firstTSquare, firstTrine)
	}
}

func TestFindPatterns_DegenerateSeparationsStayExact(t *testing.T) {
	// Pattern scenarios built from exact angles must carry zero
	// deviations all the way through.
	aspects := scanFor(t, []model.Body{body("A", 0), body("B", 120), body("C", 240)})
	for _, a := range aspects {
		if math.Abs(a.Deviation) > 1e-9 {
			t.Errorf("aspect %s-%s deviation = %v, want 0", a.Body1, a.Body2, a.Deviation)
		}
		if a.Strength != 100 {
			t.Errorf("aspect %s-%s strength = %v, want 100", a.Body1, a.Body2, a.Strength)
		}
	}
}
