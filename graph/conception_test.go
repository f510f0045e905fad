package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// conceptionOf builds a rooted conception from a chain of names.
func conceptionOf(t *testing.T, names ...string) *Conception {
	t.Helper()
	c := NewConception()
	for _, n := range names {
		require.True(t, c.Add(NewVertex(n)))
	}
	for i := 0; i+1 < len(names); i++ {
		require.NotNil(t, c.Join(names[i], names[i+1], 1.0, "next"))
	}
	c.Root = c.Vertex(names[0])
	return c
}

func namesOf(c *Conception) []string {
	var names []string
	c.EachVertex(func(v *Vertex) Outcome {
		names = append(names, v.Name)
		return Continue
	})
	return names
}

func TestConceptionNameAndWeight(t *testing.T) {
	c := conceptionOf(t, "a", "b")
	require.Equal(t, "a", c.Name())
	require.Equal(t, 1.0, c.Weight())

	empty := NewConception()
	require.Equal(t, "", empty.Name())
	require.Equal(t, 0.0, empty.Weight())
}

func TestCloneIsIndependent(t *testing.T) {
	c := conceptionOf(t, "a", "b")
	d := c.Clone()

	require.Equal(t, "a", d.Name())
	require.NotSame(t, c.Root, d.Root)

	d.Remove(d.Vertex("b"))
	require.NotNil(t, c.Vertex("b"))
	require.Equal(t, 1, c.NumArcs())
}

func TestUnionDoesNotMutateOperands(t *testing.T) {
	lhs := conceptionOf(t, "a", "b")
	rhs := conceptionOf(t, "b", "c")

	u := lhs.Union(rhs)

	require.ElementsMatch(t, []string{"a", "b", "c"}, namesOf(u))
	require.Equal(t, 2, u.NumArcs())
	require.Equal(t, 2, lhs.NumVertices())
	require.Equal(t, 2, rhs.NumVertices())
	require.Equal(t, "a", u.Name(), "union keeps the receiver's root")
}

func TestUnionUpdateMutatesReceiver(t *testing.T) {
	lhs := conceptionOf(t, "a", "b")
	rhs := conceptionOf(t, "b", "c")

	got := lhs.UnionUpdate(rhs)
	require.Same(t, lhs, got)
	require.Equal(t, 3, lhs.NumVertices())
	require.Equal(t, 2, rhs.NumVertices())
}

func TestIntersectionKeepsCommonVertices(t *testing.T) {
	lhs := conceptionOf(t, "a", "b", "c")
	rhs := conceptionOf(t, "a", "b", "d")

	got := lhs.Intersection(rhs)

	require.ElementsMatch(t, []string{"a", "b"}, namesOf(got))
	require.True(t, got.Connected("a", "b"))
	require.False(t, got.Connected("b", "c"))
	require.Equal(t, 3, lhs.NumVertices(), "operand untouched")
}

func TestDifference(t *testing.T) {
	lhs := conceptionOf(t, "a", "b", "c")
	rhs := conceptionOf(t, "b", "d")

	got := lhs.Difference(rhs)

	require.ElementsMatch(t, []string{"a", "c"}, namesOf(got))
	require.Equal(t, 0, got.NumArcs(), "arcs through removed vertices are purged")
}

func TestSymmetricDifference(t *testing.T) {
	lhs := conceptionOf(t, "a", "b", "c")
	rhs := conceptionOf(t, "b", "c", "d")

	got := lhs.SymmetricDifference(rhs)

	require.ElementsMatch(t, []string{"a", "d"}, namesOf(got))
	require.Equal(t, 3, lhs.NumVertices())
	require.Equal(t, 3, rhs.NumVertices())
}

func TestSymmetricDifferenceOrderIndependent(t *testing.T) {
	build := func() (*Conception, *Conception) {
		return conceptionOf(t, "a", "b", "c"), conceptionOf(t, "b", "c", "d")
	}

	lhs, rhs := build()
	forward := namesOf(lhs.SymmetricDifference(rhs))
	lhs, rhs = build()
	reverse := namesOf(rhs.SymmetricDifference(lhs))

	require.ElementsMatch(t, forward, reverse)
}

func TestIntersectionOfOverlappingShapes(t *testing.T) {
	lhs := NewConception()
	for _, n := range []string{"a", "b", "c", "d"} {
		lhs.Add(NewVertex(n))
	}
	lhs.Join("a", "b", 1.0, "next")
	lhs.Join("a", "c", 1.0, "next")
	lhs.Join("b", "d", 1.0, "next")
	lhs.Join("c", "d", 1.0, "next")
	lhs.Root = lhs.Vertex("a")

	rhs := NewConception()
	for _, n := range []string{"a", "b", "e", "f"} {
		rhs.Add(NewVertex(n))
	}
	rhs.Join("a", "b", 1.0, "next")
	rhs.Join("b", "e", 1.0, "next")
	rhs.Join("b", "f", 1.0, "next")
	rhs.Join("e", "f", 1.0, "next")
	rhs.Join("f", "b", 1.0, "next")
	rhs.Root = rhs.Vertex("a")

	got := lhs.Intersection(rhs)
	require.ElementsMatch(t, []string{"a", "b"}, namesOf(got))
	require.True(t, got.Connected("a", "b"))
	require.Equal(t, "a", got.Name())
}

func TestFilteringDropsRootWhenRemoved(t *testing.T) {
	lhs := conceptionOf(t, "a", "b")
	rhs := conceptionOf(t, "b", "c")

	got := lhs.Intersection(rhs)
	require.Nil(t, got.Root, "root a is not in the intersection")
	require.Equal(t, "", got.Name())
}

func TestSetAlgebraLaws(t *testing.T) {
	lhs := conceptionOf(t, "a", "b", "c")
	rhs := conceptionOf(t, "b", "c", "d")

	union := namesOf(lhs.Union(rhs))
	inter := namesOf(lhs.Intersection(rhs))
	diff := namesOf(lhs.Difference(rhs))
	rdiff := namesOf(rhs.Difference(lhs))
	sym := namesOf(lhs.SymmetricDifference(rhs))

	// sym = (lhs - rhs) | (rhs - lhs)
	require.ElementsMatch(t, append(append([]string{}, diff...), rdiff...), sym)
	// union = inter | sym
	require.ElementsMatch(t, append(append([]string{}, inter...), sym...), union)
}

func TestStringRendersRootedDump(t *testing.T) {
	c := conceptionOf(t, "a", "b")
	s := c.String()
	require.True(t, strings.HasPrefix(s, "- a "), "root renders unindented: %q", s)
	require.Contains(t, s, "  - b ")

	require.Contains(t, NewConception().String(), "rootless")
}
