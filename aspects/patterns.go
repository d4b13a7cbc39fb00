package aspects

import (
	"fmt"
	"strings"
)

// PatternType names a recognized multi-body configuration.
type PatternType string

const (
	PatternTSquare         PatternType = "T-Square"
	PatternGrandTrine      PatternType = "Grand Trine"
	PatternGrandCross      PatternType = "Grand Cross"
	PatternYod             PatternType = "Yod"
	PatternKite            PatternType = "Kite"
	PatternMysticRectangle PatternType = "Mystic Rectangle"
	PatternStellium        PatternType = "Stellium"
)

// AspectPattern is one detected configuration. Bodies is ordered and
// role-significant: frame/base bodies come first and a distinguished
// role (apex, focal body) comes last. Aspects holds the constituent
// relationships; Description summarizes the roles for display.
type AspectPattern struct {
	Type        PatternType `json:"Type"`
	Bodies      []string    `json:"Bodies"`
	Aspects     []Aspect    `json:"Aspects"`
	Description string      `json:"Description"`
}

// FindPatterns runs every detector against the same aspect list and
// concatenates their results in a fixed order: T-Square, Grand Trine,
// Grand Cross, Yod, Kite, Mystic Rectangle, Stellium. No cross-pattern
// deduplication happens; a body set may legitimately show up in several
// pattern types at once (a Grand Trine inside a Kite, for example).
// Repeated calls with identical input return identical results.
func FindPatterns(aspects []Aspect) []AspectPattern {
	g := newAspectGraph(aspects)

	var patterns []AspectPattern
	patterns = append(patterns, detectTSquares(g)...)
	patterns = append(patterns, detectGrandTrines(g)...)
	patterns = append(patterns, detectGrandCrosses(g)...)
	patterns = append(patterns, detectYods(g)...)
	patterns = append(patterns, detectKites(g)...)
	patterns = append(patterns, detectMysticRectangles(g)...)
	patterns = append(patterns, detectStelliums(g)...)
	return patterns
}

// detectTSquares finds every opposition whose two ends are both squared
// by a third body. That third body is the apex; the three angles close
// the circle (180 + 90 + 90 = 360).
func detectTSquares(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 3 {
		return nil
	}
	var out []AspectPattern
	for _, opp := range g.edgesOfType(Opposition) {
		for _, apex := range g.nodes {
			if apex == opp.Body1 || apex == opp.Body2 {
				continue
			}
			sqA, okA := g.typed(opp.Body1, apex, Square)
			sqB, okB := g.typed(opp.Body2, apex, Square)
			if !okA || !okB {
				continue
			}
			out = append(out, AspectPattern{
				Type:    PatternTSquare,
				Bodies:  []string{opp.Body1, opp.Body2, apex},
				Aspects: []Aspect{*opp, *sqA, *sqB},
				Description: fmt.Sprintf("T-Square: %s at the apex of the %s-%s opposition",
					apex, opp.Body1, opp.Body2),
			})
		}
	}
	return out
}

// detectGrandTrines finds closed triangles of trines.
func detectGrandTrines(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 3 {
		return nil
	}
	var out []AspectPattern
	for _, tri := range grandTrineTriples(g) {
		a, b, c := tri[0], tri[1], tri[2]
		ab, _ := g.typed(a, b, Trine)
		bc, _ := g.typed(b, c, Trine)
		ca, _ := g.typed(c, a, Trine)
		out = append(out, AspectPattern{
			Type:        PatternGrandTrine,
			Bodies:      []string{a, b, c},
			Aspects:     []Aspect{*ab, *bc, *ca},
			Description: fmt.Sprintf("Grand Trine: %s, %s and %s in mutual trine", a, b, c),
		})
	}
	return out
}

// grandTrineTriples enumerates node triples mutually connected by trines,
// each triple once, in stable node order. Shared with the kite detector.
func grandTrineTriples(g *aspectGraph) [][3]string {
	var out [][3]string
	n := len(g.nodes)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if _, ok := g.typed(g.nodes[i], g.nodes[j], Trine); !ok {
				continue
			}
			for k := j + 1; k < n; k++ {
				_, okJK := g.typed(g.nodes[j], g.nodes[k], Trine)
				_, okIK := g.typed(g.nodes[i], g.nodes[k], Trine)
				if okJK && okIK {
					out = append(out, [3]string{g.nodes[i], g.nodes[j], g.nodes[k]})
				}
			}
		}
	}
	return out
}

// detectGrandCrosses finds two node-disjoint oppositions whose four
// bodies form a closed cycle of squares: a square inscribed in the
// circle. Bodies are listed in cycle order.
func detectGrandCrosses(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 6 {
		return nil
	}
	opps := g.edgesOfType(Opposition)
	var out []AspectPattern
	for i := 0; i < len(opps); i++ {
		for j := i + 1; j < len(opps); j++ {
			a, b := opps[i].Body1, opps[i].Body2
			c, d := opps[j].Body1, opps[j].Body2
			if c == a || c == b || d == a || d == b {
				continue
			}
			// Cycle order around the circle is a, c, b, d: each body
			// squares its neighbours and opposes the body across.
			sqAC, ok1 := g.typed(a, c, Square)
			sqCB, ok2 := g.typed(c, b, Square)
			sqBD, ok3 := g.typed(b, d, Square)
			sqDA, ok4 := g.typed(d, a, Square)
			if !ok1 || !ok2 || !ok3 || !ok4 {
				continue
			}
			out = append(out, AspectPattern{
				Type:    PatternGrandCross,
				Bodies:  []string{a, c, b, d},
				Aspects: []Aspect{*opps[i], *opps[j], *sqAC, *sqCB, *sqBD, *sqDA},
				Description: fmt.Sprintf("Grand Cross: %s-%s and %s-%s oppositions locked by four squares",
					a, b, c, d),
			})
		}
	}
	return out
}

// detectYods finds a sextile base whose two ends both quincunx a third
// body, the apex (60 + 150 + 150 = 360).
func detectYods(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 3 {
		return nil
	}
	var out []AspectPattern
	for _, sxt := range g.edgesOfType(Sextile) {
		for _, apex := range g.nodes {
			if apex == sxt.Body1 || apex == sxt.Body2 {
				continue
			}
			qA, okA := g.typed(sxt.Body1, apex, Quincunx)
			qB, okB := g.typed(sxt.Body2, apex, Quincunx)
			if !okA || !okB {
				continue
			}
			out = append(out, AspectPattern{
				Type:    PatternYod,
				Bodies:  []string{sxt.Body1, sxt.Body2, apex},
				Aspects: []Aspect{*sxt, *qA, *qB},
				Description: fmt.Sprintf("Yod: %s at the apex of the %s-%s sextile base",
					apex, sxt.Body1, sxt.Body2),
			})
		}
	}
	return out
}

// detectKites finds a Grand Trine plus a fourth body opposing one trine
// vertex while sextiling the other two. The fourth body is the focal
// point and comes last.
func detectKites(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 6 {
		return nil
	}
	var out []AspectPattern
	for _, tri := range grandTrineTriples(g) {
		for _, focal := range g.nodes {
			if focal == tri[0] || focal == tri[1] || focal == tri[2] {
				continue
			}
			for v := 0; v < 3; v++ {
				opposed := tri[v]
				wingA := tri[(v+1)%3]
				wingB := tri[(v+2)%3]
				opp, okO := g.typed(focal, opposed, Opposition)
				sxA, okA := g.typed(focal, wingA, Sextile)
				sxB, okB := g.typed(focal, wingB, Sextile)
				if !okO || !okA || !okB {
					continue
				}
				trAB, _ := g.typed(tri[0], tri[1], Trine)
				trBC, _ := g.typed(tri[1], tri[2], Trine)
				trCA, _ := g.typed(tri[2], tri[0], Trine)
				out = append(out, AspectPattern{
					Type:    PatternKite,
					Bodies:  []string{tri[0], tri[1], tri[2], focal},
					Aspects: []Aspect{*trAB, *trBC, *trCA, *opp, *sxA, *sxB},
					Description: fmt.Sprintf("Kite: %s opposes %s across the %s-%s-%s Grand Trine",
						focal, opposed, tri[0], tri[1], tri[2]),
				})
			}
		}
	}
	return out
}

// detectMysticRectangles finds two node-disjoint oppositions whose four
// bodies are joined along the rectangle's sides by alternating trines
// and sextiles, so every body carries exactly one opposition, one trine
// and one sextile.
func detectMysticRectangles(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 6 {
		return nil
	}
	opps := g.edgesOfType(Opposition)
	var out []AspectPattern
	for i := 0; i < len(opps); i++ {
		for j := i + 1; j < len(opps); j++ {
			a, b := opps[i].Body1, opps[i].Body2
			c, d := opps[j].Body1, opps[j].Body2
			if c == a || c == b || d == a || d == b {
				continue
			}
			// Two possible pairings of the diagonals' ends; with the
			// right one, sides alternate trine/sextile around a, c, b, d.
			for _, swap := range []bool{false, true} {
				p, q := c, d
				if swap {
					p, q = d, c
				}
				trAP, ok1 := g.typed(a, p, Trine)
				trBQ, ok2 := g.typed(b, q, Trine)
				sxAQ, ok3 := g.typed(a, q, Sextile)
				sxBP, ok4 := g.typed(b, p, Sextile)
				if !ok1 || !ok2 || !ok3 || !ok4 {
					continue
				}
				out = append(out, AspectPattern{
					Type:    PatternMysticRectangle,
					Bodies:  []string{a, p, b, q},
					Aspects: []Aspect{*opps[i], *opps[j], *trAP, *trBQ, *sxAQ, *sxBP},
					Description: fmt.Sprintf("Mystic Rectangle: %s-%s and %s-%s oppositions braced by trines and sextiles",
						a, b, p, q),
				})
				break
			}
		}
	}
	return out
}

// detectStelliums finds maximal cliques of three or more bodies pairwise
// in conjunction. Worst case is exponential in body count, but scans
// never see more than a couple dozen bodies.
func detectStelliums(g *aspectGraph) []AspectPattern {
	if len(g.aspects) < 3 {
		return nil
	}

	conj := make(map[string]map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		conj[n] = make(map[string]bool)
	}
	for _, asp := range g.edgesOfType(Conjunction) {
		conj[asp.Body1][asp.Body2] = true
		conj[asp.Body2][asp.Body1] = true
	}

	var cliques [][]string
	var grow func(clique, candidates []string)
	grow = func(clique, candidates []string) {
		extended := false
		for i, cand := range candidates {
			connected := true
			for _, member := range clique {
				if !conj[member][cand] {
					connected = false
					break
				}
			}
			if !connected {
				continue
			}
			extended = true
			grow(append(clique[:len(clique):len(clique)], cand), candidates[i+1:])
		}
		if !extended && len(clique) >= 3 && isMaximalClique(conj, g.nodes, clique) {
			cliques = append(cliques, clique)
		}
	}
	grow(nil, g.nodes)

	var out []AspectPattern
	for _, clique := range cliques {
		var members []Aspect
		for i := 0; i < len(clique); i++ {
			for j := i + 1; j < len(clique); j++ {
				if asp, ok := g.typed(clique[i], clique[j], Conjunction); ok {
					members = append(members, *asp)
				}
			}
		}
		out = append(out, AspectPattern{
			Type:    PatternStellium,
			Bodies:  clique,
			Aspects: members,
			Description: fmt.Sprintf("Stellium of %d bodies: %s",
				len(clique), strings.Join(clique, ", ")),
		})
	}
	return out
}

// isMaximalClique reports whether no node outside the clique is
// conjunct every member. Growth order alone can leave a non-maximal
// clique unextended (candidates earlier in node order are not retried),
// so maximality is checked against the full node set.
func isMaximalClique(conj map[string]map[string]bool, nodes, clique []string) bool {
	inClique := make(map[string]bool, len(clique))
	for _, m := range clique {
		inClique[m] = true
	}
	for _, n := range nodes {
		if inClique[n] {
			continue
		}
		all := true
		for _, m := range clique {
			if !conj[n][m] {
				all = false
				break
			}
		}
		if all {
			return false
		}
	}
	return true
}
