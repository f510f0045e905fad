package graph

import (
	"fmt"
	"strings"
)

// Conception is a detached subgraph snapshot with a designated root,
// produced by slicing or by set algebra. It is never written back into
// its source automatically.
type Conception struct {
	Graph
	Root *Vertex
}

// NewConception returns an empty conception.
func NewConception() *Conception {
	return &Conception{Graph: *New()}
}

// Name returns the root vertex's name, or "" for a rootless conception.
func (c *Conception) Name() string {
	if c.Root == nil {
		return ""
	}
	return c.Root.Name
}

// Weight returns the root vertex's weight, or 0 for a rootless
// conception.
func (c *Conception) Weight() float64 {
	if c.Root == nil {
		return 0
	}
	return c.Root.Weight
}

// Clone deep-copies the conception, root included.
func (c *Conception) Clone() *Conception {
	d := NewConception()
	c.CopyTo(&d.Graph)
	if c.Root != nil {
		d.Root = d.Vertex(c.Root.Name)
	}
	return d
}

// Union returns a new conception holding every vertex and arc of c and
// rhs. Neither operand is modified.
func (c *Conception) Union(rhs *Conception) *Conception {
	return c.Clone().UnionUpdate(rhs)
}

// UnionUpdate copies into c every vertex and arc of rhs not already
// present, and returns c for chaining. Nothing is ever removed.
func (c *Conception) UnionUpdate(rhs *Conception) *Conception {
	rhs.CopyTo(&c.Graph)
	return c
}

// Intersection returns a new conception keeping only the vertices
// present in both operands. Neither operand is modified.
func (c *Conception) Intersection(rhs *Conception) *Conception {
	return c.Clone().IntersectionUpdate(rhs)
}

// IntersectionUpdate keeps only vertices whose id is in both c and rhs.
func (c *Conception) IntersectionUpdate(rhs *Conception) *Conception {
	other := rhs.IDSet()
	keep := make(IDSet)
	for id := range c.IDSet() {
		if other.Has(id) {
			keep.Add(id)
		}
	}
	c.Filter(keep)
	c.reanchorRoot()
	return c
}

// Difference returns a new conception keeping only the vertices of c
// that are not in rhs. Neither operand is modified.
func (c *Conception) Difference(rhs *Conception) *Conception {
	return c.Clone().DifferenceUpdate(rhs)
}

// DifferenceUpdate keeps only vertices whose id is in c but not rhs.
func (c *Conception) DifferenceUpdate(rhs *Conception) *Conception {
	other := rhs.IDSet()
	keep := make(IDSet)
	for id := range c.IDSet() {
		if !other.Has(id) {
			keep.Add(id)
		}
	}
	c.Filter(keep)
	c.reanchorRoot()
	return c
}

// SymmetricDifference returns a new conception keeping the vertices in
// exactly one of the operands. Neither operand is modified.
func (c *Conception) SymmetricDifference(rhs *Conception) *Conception {
	return c.Clone().SymmetricDifferenceUpdate(rhs)
}

// SymmetricDifferenceUpdate keeps the vertices in exactly one operand.
// The target id set is computed before any merging, so the merge pass
// and the filter pass are order-independent.
func (c *Conception) SymmetricDifferenceUpdate(rhs *Conception) *Conception {
	mine, theirs := c.IDSet(), rhs.IDSet()
	keep := make(IDSet)
	for id := range mine {
		if !theirs.Has(id) {
			keep.Add(id)
		}
	}
	for id := range theirs {
		if !mine.Has(id) {
			keep.Add(id)
		}
	}

	// Vertices unique to rhs must be present before filtering keeps them.
	rhs.CopyTo(&c.Graph)
	c.Filter(keep)
	c.reanchorRoot()
	return c
}

// reanchorRoot drops the root reference if filtering removed the root.
func (c *Conception) reanchorRoot() {
	if c.Root != nil && c.Vertex(c.Root.Name) == nil {
		c.Root = nil
	}
}

// String renders an indented depth-first dump from the root, mostly for
// debugging and logs.
func (c *Conception) String() string {
	if c.Root == nil {
		return fmt.Sprintf("(rootless conception: %d vertices)", c.NumVertices())
	}

	maxDepth := DefaultMaxDepth
	var b strings.Builder
	_, _ = c.DFS(c.Root, func(v *Vertex, depth int) (Outcome, error) {
		indent := maxDepth - depth
		fmt.Fprintf(&b, "%s- %s (id=%d)\n", strings.Repeat("  ", indent), v.Name, v.ID)
		return Continue, nil
	}, WalkOptions{VisitAnchors: true, MaxDepth: maxDepth})
	return b.String()
}
