package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// diamond builds a -> b, a -> c, b -> d, c -> d.
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for _, n := range []string{"a", "b", "c", "d"} {
		require.True(t, g.Add(NewVertex(n)))
	}
	g.Join("a", "b", 1.0, "next")
	g.Join("a", "c", 1.0, "next")
	g.Join("b", "d", 1.0, "next")
	g.Join("c", "d", 1.0, "next")
	return g
}

func collectNames(g *Graph, root *Vertex, walk func(*Vertex, VisitFunc, WalkOptions) (Outcome, error), opts WalkOptions) ([]string, Outcome, error) {
	var names []string
	out, err := walk(root, func(v *Vertex, depth int) (Outcome, error) {
		names = append(names, v.Name)
		return Continue, nil
	}, opts)
	return names, out, err
}

func TestDFSVisitsEachVertexOnce(t *testing.T) {
	g := diamond(t)
	names, out, err := collectNames(g, g.Vertex("a"), g.DFS, WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, Continue, out)
	require.ElementsMatch(t, []string{"a", "b", "c", "d"}, names)
}

func TestBFSVisitsByLevel(t *testing.T) {
	g := diamond(t)
	names, out, err := collectNames(g, g.Vertex("a"), g.BFS, WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, Continue, out)
	require.Len(t, names, 4)
	require.Equal(t, "a", names[0])
	require.ElementsMatch(t, []string{"b", "c"}, names[1:3])
	require.Equal(t, "d", names[3])
}

func TestWalkTerminatesOnCycle(t *testing.T) {
	g := New()
	g.Add(NewVertex("a"))
	g.Add(NewVertex("b"))
	g.Join("a", "b", 1.0, "next")
	g.Join("b", "a", 1.0, "back")

	names, _, err := collectNames(g, g.Vertex("a"), g.DFS, WalkOptions{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, names)

	names, _, err = collectNames(g, g.Vertex("a"), g.BFS, WalkOptions{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestMaxDepthBoundsWalk(t *testing.T) {
	g := New()
	for _, n := range []string{"a", "b", "c", "d"} {
		g.Add(NewVertex(n))
	}
	g.Join("a", "b", 1.0, "next")
	g.Join("b", "c", 1.0, "next")
	g.Join("c", "d", 1.0, "next")

	names, _, err := collectNames(g, g.Vertex("a"), g.DFS, WalkOptions{MaxDepth: 2})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, names)

	names, _, err = collectNames(g, g.Vertex("a"), g.BFS, WalkOptions{MaxDepth: 2})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, names)
}

func TestSkipPrunesBranchOnly(t *testing.T) {
	g := diamond(t)

	var names []string
	out, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		names = append(names, v.Name)
		if v.Name == "b" {
			return Skip, nil
		}
		return Continue, nil
	}, WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, Continue, out, "a skipped branch never aborts the walk")
	// d is still reached through c.
	require.ElementsMatch(t, []string{"a", "b", "c", "d"}, names)
}

func TestSkipAtRoot(t *testing.T) {
	g := diamond(t)
	out, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		return Skip, nil
	}, WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, Continue, out)
}

func TestStopAbortsWalk(t *testing.T) {
	g := diamond(t)

	var names []string
	out, err := g.BFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		names = append(names, v.Name)
		if len(names) == 2 {
			return Stop, nil
		}
		return Continue, nil
	}, WalkOptions{})
	require.NoError(t, err)
	require.Equal(t, Stop, out)
	require.Len(t, names, 2)
}

func TestVisitErrorAborts(t *testing.T) {
	g := diamond(t)
	boom := errors.New("boom")

	_, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		if v.Name == "b" || v.Name == "c" {
			return Continue, boom
		}
		return Continue, nil
	}, WalkOptions{})
	require.ErrorIs(t, err, boom)
}

func TestPreHookSkipSuppressesVisit(t *testing.T) {
	g := diamond(t)

	var visited []string
	_, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		visited = append(visited, v.Name)
		return Continue, nil
	}, WalkOptions{
		Pre: func(v *Vertex, depth int) (Outcome, error) {
			if v.Name == "b" {
				return Skip, nil
			}
			return Continue, nil
		},
	})
	require.NoError(t, err)
	require.NotContains(t, visited, "b")
	require.Contains(t, visited, "d")
}

func TestPostHookSkipPrunesChildren(t *testing.T) {
	g := New()
	for _, n := range []string{"a", "b", "c"} {
		g.Add(NewVertex(n))
	}
	g.Join("a", "b", 1.0, "next")
	g.Join("b", "c", 1.0, "next")

	post := func(v *Vertex, depth int) (Outcome, error) {
		if v.Name == "b" {
			return Skip, nil
		}
		return Continue, nil
	}

	var visited []string
	out, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		visited = append(visited, v.Name)
		return Continue, nil
	}, WalkOptions{Post: post})
	require.NoError(t, err)
	require.Equal(t, Continue, out)
	require.Contains(t, visited, "b", "the vertex itself is still visited")
	require.NotContains(t, visited, "c")

	visited = nil
	_, err = g.BFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		visited = append(visited, v.Name)
		return Continue, nil
	}, WalkOptions{Post: post})
	require.NoError(t, err)
	require.NotContains(t, visited, "c")
}

func TestPostHookRunsAfterVisit(t *testing.T) {
	g := New()
	g.Add(NewVertex("a"))

	var order []string
	_, err := g.DFS(g.Vertex("a"), func(v *Vertex, depth int) (Outcome, error) {
		order = append(order, "visit")
		return Continue, nil
	}, WalkOptions{
		Pre: func(v *Vertex, depth int) (Outcome, error) {
			order = append(order, "pre")
			return Continue, nil
		},
		Post: func(v *Vertex, depth int) (Outcome, error) {
			order = append(order, "post")
			return Continue, nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"pre", "visit", "post"}, order)
}

func TestVisitAnchorsFollowsOwner(t *testing.T) {
	g := New()
	owner := NewVertex("car")
	colour := NewVertex("red")
	g.Add(owner)
	g.Add(colour)
	g.Add(NewVertex("wheel"))
	owner.Anchor = colour.ID
	g.Join("car", "wheel", 1.0, "HAS")

	names, _, err := collectNames(g, owner, g.DFS, WalkOptions{VisitAnchors: true})
	require.NoError(t, err)
	// Anchor comes immediately after its owner, before any arc target.
	require.Equal(t, []string{"car", "red", "wheel"}, names)

	names, _, err = collectNames(g, owner, g.DFS, WalkOptions{})
	require.NoError(t, err)
	require.NotContains(t, names, "red")
}

func TestOutcomeString(t *testing.T) {
	require.Equal(t, "continue", Continue.String())
	require.Equal(t, "skip", Skip.String())
	require.Equal(t, "stop", Stop.String())
	require.Equal(t, "unknown", Outcome(42).String())
}
