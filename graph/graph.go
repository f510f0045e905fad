package graph

import "github.com/google/uuid"

// IDSet is a set of vertex ids, the currency of the set-algebra
// operations.
type IDSet map[int64]struct{}

// Has reports membership.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id int64) { s[id] = struct{}{} }

// Graph is an in-memory vertex/arc container. Vertex names are unique
// within one graph and act as the primary key; a secondary index by id
// backs arc resolution and filtering. Not safe for concurrent mutation.
type Graph struct {
	byName map[string]*Vertex
	byID   map[int64]*Vertex
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		byName: make(map[string]*Vertex),
		byID:   make(map[int64]*Vertex),
	}
}

// Add inserts the vertex. Returns false without mutating anything when a
// vertex with the same name is already present; callers routinely probe
// for existence this way.
func (g *Graph) Add(v *Vertex) bool {
	if _, ok := g.byName[v.Name]; ok {
		return false
	}
	g.byName[v.Name] = v
	g.byID[v.ID] = v
	return true
}

// Vertex looks a vertex up by name.
func (g *Graph) Vertex(name string) *Vertex {
	return g.byName[name]
}

// VertexByID looks a vertex up by id.
func (g *Graph) VertexByID(id int64) *Vertex {
	return g.byID[id]
}

// Join connects two vertices, resolved by name, with a new arc appended
// to start's arc list. Returns nil when either endpoint is absent; it is
// used in best-effort contexts where a missing endpoint is not an error.
func (g *Graph) Join(start, end string, weight float64, name string) *Arc {
	a := g.byName[start]
	if a == nil {
		return nil
	}
	b := g.byName[end]
	if b == nil {
		return nil
	}

	arc := &Arc{
		GUID:   uuid.NewString(),
		Name:   name,
		Weight: weight,
		Start:  a.ID,
		End:    b.ID,
	}
	a.Arcs = append(a.Arcs, arc)
	return arc
}

// JoinAnchored connects start to end like Join and attaches the named
// anchor vertex to the new arc, building a ternary fact in memory.
// Returns nil when any of the three vertices is absent.
func (g *Graph) JoinAnchored(start, end string, weight float64, name, anchor string) *Arc {
	av := g.byName[anchor]
	if av == nil {
		return nil
	}
	arc := g.Join(start, end, weight, name)
	if arc == nil {
		return nil
	}
	arc.Anchor = av.ID
	return arc
}

// Replay inserts a fully specified arc, resolving its endpoints by id.
// Used when reconstructing a subgraph from stored rows, preserving the
// arc's id, guid and weight. Returns nil when either endpoint is not
// present in the graph.
func (g *Graph) Replay(a Arc) *Arc {
	start := g.byID[a.Start]
	if start == nil || g.byID[a.End] == nil {
		return nil
	}
	arc := a.clone()
	start.Arcs = append(start.Arcs, arc)
	return arc
}

// Remove deletes the vertex and purges every arc anywhere in the graph
// whose start or end references it. Nothing dangles afterwards.
func (g *Graph) Remove(v *Vertex) {
	if g.byName[v.Name] != v {
		return
	}
	delete(g.byName, v.Name)
	delete(g.byID, v.ID)

	for _, other := range g.byName {
		kept := other.Arcs[:0]
		for _, a := range other.Arcs {
			if a.Start == v.ID || a.End == v.ID {
				continue
			}
			kept = append(kept, a)
		}
		other.Arcs = kept
	}
}

// Filter removes every vertex whose id is not in keep, with the same
// cascading arc cleanup as Remove. This is the primitive underneath the
// set-algebra operations.
func (g *Graph) Filter(keep IDSet) {
	for _, v := range g.byName {
		if !keep.Has(v.ID) {
			g.Remove(v)
		}
	}
}

// CopyTo deep-clones this graph's content into dst, preserving ids,
// names, weights and guids. Vertices and arcs already present in dst (by
// name and by arc id respectively) are left alone, which gives CopyTo
// union semantics.
func (g *Graph) CopyTo(dst *Graph) {
	for _, v := range g.byName {
		if dst.Vertex(v.Name) == nil {
			dst.Add(v.clone())
		}
	}
	for _, v := range g.byName {
		target := dst.byID[v.ID]
		if target == nil {
			continue
		}
		for _, a := range v.Arcs {
			if dst.byID[a.End] == nil {
				continue
			}
			if hasArcID(target.Arcs, a.ID, a.GUID) {
				continue
			}
			target.Arcs = append(target.Arcs, a.clone())
		}
	}
}

func hasArcID(arcs []*Arc, id int64, guid string) bool {
	for _, a := range arcs {
		if a.ID == id && a.GUID == guid {
			return true
		}
	}
	return false
}

// IDSet returns the set of vertex ids in the graph.
func (g *Graph) IDSet() IDSet {
	s := make(IDSet, len(g.byID))
	for id := range g.byID {
		s.Add(id)
	}
	return s
}

// Detach removes the first arc from start to end. Both resolved by name.
func (g *Graph) Detach(start string, end string) bool {
	v := g.byName[start]
	if v == nil {
		return false
	}
	e := g.byName[end]
	if e == nil {
		return false
	}
	return v.Detach(e.ID)
}

// Connected reports whether an arc runs from start to end, by name.
func (g *Graph) Connected(start, end string) bool {
	v := g.byName[start]
	if v == nil {
		return false
	}
	e := g.byName[end]
	if e == nil {
		return false
	}
	return v.Connected(e.ID)
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.byName) }

// NumArcs returns the total arc count across all vertices.
func (g *Graph) NumArcs() int {
	n := 0
	for _, v := range g.byName {
		n += len(v.Arcs)
	}
	return n
}

// EachVertex invokes fn for every vertex until it returns an Outcome
// other than Continue or Skip. The terminal outcome is returned.
func (g *Graph) EachVertex(fn func(v *Vertex) Outcome) Outcome {
	for _, v := range g.byName {
		out := fn(v)
		if out == Continue || out == Skip {
			continue
		}
		return out
	}
	return Continue
}

// EachArc invokes fn for every arc in the graph until it returns an
// Outcome other than Continue or Skip.
func (g *Graph) EachArc(fn func(a *Arc) Outcome) Outcome {
	for _, v := range g.byName {
		for _, a := range v.Arcs {
			out := fn(a)
			if out == Continue || out == Skip {
				continue
			}
			return out
		}
	}
	return Continue
}
