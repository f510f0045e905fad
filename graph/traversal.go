package graph

// Outcome is the three-way result a visit callback uses to steer a
// traversal.
type Outcome int

const (
	// Continue proceeds normally.
	Continue Outcome = iota
	// Skip treats this node as handled but does not descend below it.
	// A skipped branch never aborts the surrounding walk.
	Skip
	// Stop aborts the whole traversal; it propagates to the caller as
	// the terminal outcome, an intentional early exit rather than an
	// error.
	Stop
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Stop:
		return "stop"
	}
	return "unknown"
}

// VisitFunc is invoked once per vertex. depth is the remaining traversal
// budget at that vertex.
type VisitFunc func(v *Vertex, depth int) (Outcome, error)

// DefaultMaxDepth is the traversal bound applied when WalkOptions leaves
// MaxDepth unset. The depth bound, not wall-clock time, is what keeps
// walks over cyclic data finite.
const DefaultMaxDepth = 1024

// WalkOptions configures a traversal.
type WalkOptions struct {
	// VisitAnchors makes the walk visit a vertex's anchor immediately
	// after the vertex itself, before descending into its arcs.
	VisitAnchors bool
	// MaxDepth bounds the walk in hops from the root. Zero means
	// DefaultMaxDepth.
	MaxDepth int
	// Pre and Post run before and after each vertex's visit. A Skip
	// from either prunes the vertex locally; a Stop aborts the walk.
	Pre  VisitFunc
	Post VisitFunc
}

// DFS walks the graph depth-first from root, honouring the visit
// protocol. Vertices already seen are skipped without invoking any
// callback, so cycles terminate.
func (g *Graph) DFS(root *Vertex, visit VisitFunc, opts WalkOptions) (Outcome, error) {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	visited := make(IDSet)
	out, err := g.visitVertex(root, visit, opts, visited, depth)
	if err != nil || out == Stop {
		return out, err
	}
	if out == Skip {
		return Continue, nil
	}
	return g.walkDFS(root, visit, opts, visited, depth)
}

// BFS walks breadth-first from root: all targets of one level are
// visited before any of the next level is entered.
func (g *Graph) BFS(root *Vertex, visit VisitFunc, opts WalkOptions) (Outcome, error) {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}

	visited := make(IDSet)
	out, err := g.visitVertex(root, visit, opts, visited, depth)
	if err != nil || out == Stop {
		return out, err
	}
	if out == Skip {
		return Continue, nil
	}

	frontier := []*Vertex{root}
	for level := depth - 1; level >= 0 && len(frontier) > 0; level-- {
		var next []*Vertex
		for _, v := range frontier {
			for _, a := range v.Arcs {
				end := g.byID[a.End]
				if end == nil || visited.Has(end.ID) {
					continue
				}
				out, err := g.visitVertex(end, visit, opts, visited, level)
				if err != nil || out == Stop {
					return out, err
				}
				if out == Skip {
					continue
				}
				next = append(next, end)
			}
		}
		frontier = next
	}
	return Continue, nil
}

// walkDFS descends through the arc targets of v. level is the remaining
// budget below v.
func (g *Graph) walkDFS(v *Vertex, visit VisitFunc, opts WalkOptions, visited IDSet, level int) (Outcome, error) {
	if level <= 0 {
		return Continue, nil
	}

	for _, a := range v.Arcs {
		end := g.byID[a.End]
		if end == nil || visited.Has(end.ID) {
			continue
		}

		out, err := g.visitVertex(end, visit, opts, visited, level-1)
		if err != nil || out == Stop {
			return out, err
		}
		if out == Skip {
			// Pruned: this branch is done, the walk is not.
			continue
		}

		out, err = g.walkDFS(end, visit, opts, visited, level-1)
		if err != nil || out == Stop {
			return out, err
		}
	}
	return Continue, nil
}

// visitVertex runs the pre hook, the visit, the post hook and, when
// enabled, the same sequence for the vertex's anchor. The returned
// outcome is Skip when the vertex asked not to be descended into.
func (g *Graph) visitVertex(v *Vertex, visit VisitFunc, opts WalkOptions, visited IDSet, level int) (Outcome, error) {
	visited.Add(v.ID)

	out, err := runHook(opts.Pre, v, level)
	if err != nil || out == Stop {
		return out, err
	}
	if out == Skip {
		return Skip, nil
	}

	out, err = visit(v, level)
	if err != nil || out == Stop {
		return out, err
	}
	pruned := out == Skip

	out, err = runHook(opts.Post, v, level)
	if err != nil || out == Stop {
		return out, err
	}
	if out == Skip {
		pruned = true
	}

	if opts.VisitAnchors && v.Anchor != NoVertex {
		if anchor := g.byID[v.Anchor]; anchor != nil && !visited.Has(anchor.ID) {
			out, err := g.visitVertex(anchor, visit, opts, visited, level)
			if err != nil || out == Stop {
				return out, err
			}
		}
	}

	if pruned {
		return Skip, nil
	}
	return Continue, nil
}

func runHook(hook VisitFunc, v *Vertex, level int) (Outcome, error) {
	if hook == nil {
		return Continue, nil
	}
	return hook(v, level)
}
