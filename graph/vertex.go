package graph

import "github.com/google/uuid"

// NoVertex is the id value used where an optional vertex reference
// (an arc anchor, a vertex anchor) is absent. A name whose DeriveID
// happens to be 0 could not be referenced as an anchor; at one in 2^32
// per name this collision is accepted rather than guarded against.
const NoVertex int64 = 0

// Vertex is a named node. Identity is content-addressed from the name for
// newly created vertices; the GUID is assigned once and survives moves
// between containers. Arcs holds the vertex's outgoing arcs, in insertion
// order. Anchor optionally points at an attribute vertex that is
// conceptually part of this one but stored first-class.
type Vertex struct {
	ID     int64
	GUID   string
	Name   string
	Weight float64
	Anchor int64
	Arcs   []*Arc
}

// Arc is a directed, weighted, labelled edge. Start, End and Anchor are
// vertex ids, never owning references, so cyclic graphs need no special
// handling. An arc lives in its start vertex's arc list.
type Arc struct {
	ID     int64
	GUID   string
	Name   string
	Weight float64
	Start  int64
	End    int64
	Anchor int64
}

// NewVertex creates a vertex with a content-addressed id, a fresh GUID and
// the default weight of 1.0.
func NewVertex(name string) *Vertex {
	return &Vertex{
		ID:     DeriveID(name),
		GUID:   uuid.NewString(),
		Name:   name,
		Weight: 1.0,
	}
}

// clone copies the vertex without its arc list.
func (v *Vertex) clone() *Vertex {
	return &Vertex{
		ID:     v.ID,
		GUID:   v.GUID,
		Name:   v.Name,
		Weight: v.Weight,
		Anchor: v.Anchor,
	}
}

// clone copies the arc verbatim.
func (a *Arc) clone() *Arc {
	c := *a
	return &c
}

// Connected reports whether the vertex has an outgoing arc ending at end.
func (v *Vertex) Connected(end int64) bool {
	for _, a := range v.Arcs {
		if a.End == end {
			return true
		}
	}
	return false
}

// Detach removes the first outgoing arc ending at end. Returns false if no
// such arc exists.
func (v *Vertex) Detach(end int64) bool {
	for i, a := range v.Arcs {
		if a.End == end {
			v.Arcs = append(v.Arcs[:i], v.Arcs[i+1:]...)
			return true
		}
	}
	return false
}
