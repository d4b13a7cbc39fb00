package aspects

// aspectGraph is an adjacency view over a flat aspect list: nodes are
// body names, edges are the aspects between them, labeled by type. It is
// built once per FindPatterns call and shared by every detector, which
// only ever read it. Node order is first-appearance order in the aspect
// list, which keeps detector output deterministic for identical input.
type aspectGraph struct {
	aspects []Aspect
	nodes   []string
	edges   map[string]map[string]*Aspect
}

func newAspectGraph(aspects []Aspect) *aspectGraph {
	g := &aspectGraph{
		aspects: aspects,
		edges:   make(map[string]map[string]*Aspect, len(aspects)),
	}
	for i := range aspects {
		a := &aspects[i]
		g.addNode(a.Body1)
		g.addNode(a.Body2)
		g.edges[a.Body1][a.Body2] = a
		g.edges[a.Body2][a.Body1] = a
	}
	return g
}

func (g *aspectGraph) addNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.edges[name] = make(map[string]*Aspect)
	g.nodes = append(g.nodes, name)
}

// between returns the aspect connecting two bodies, if any.
func (g *aspectGraph) between(a, b string) (*Aspect, bool) {
	asp, ok := g.edges[a][b]
	return asp, ok
}

// typed returns the aspect connecting two bodies only when it has the
// given type.
func (g *aspectGraph) typed(a, b string, t AspectType) (*Aspect, bool) {
	asp, ok := g.edges[a][b]
	if !ok || asp.Type != t {
		return nil, false
	}
	return asp, true
}

// edgesOfType lists every aspect of the given type, in the order the
// aspects appeared in the input list.
func (g *aspectGraph) edgesOfType(t AspectType) []*Aspect {
	var out []*Aspect
	for i := range g.aspects {
		if g.aspects[i].Type == t {
			out = append(out, &g.aspects[i])
		}
	}
	return out
}

// nodeIndex returns the position of a body in the graph's stable node
// order, or -1 when the body has no aspects at all.
func (g *aspectGraph) nodeIndex(name string) int {
	for i, n := range g.nodes {
		if n == name {
			return i
		}
	}
	return -1
}
