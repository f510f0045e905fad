package viz

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MelihAkdag/language-atomics-metagraph/graph"
	"github.com/MelihAkdag/language-atomics-metagraph/pipeline"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.s3db"), "concepts")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addVertex(t *testing.T, s *store.Store, name string) *store.Vertex {
	t.Helper()
	v, err := s.AddVertex(context.Background(), name, graph.DeriveID(name))
	require.NoError(t, err)
	return v
}

func TestBuildExportsNodesAndEdges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	car := addVertex(t, s, "car")
	wheel := addVertex(t, s, "wheel")
	_, err := s.Join(ctx, car.ID, wheel.ID, 2.0, "HAS")
	require.NoError(t, err)

	p, err := Build(ctx, s, Options{})
	require.NoError(t, err)
	require.Len(t, p.Nodes, 2)
	require.Len(t, p.Edges, 1)
	require.Equal(t, car.ID, p.Edges[0].From)
	require.Equal(t, wheel.ID, p.Edges[0].To)
	require.Equal(t, "HAS", p.Edges[0].Label)
}

func TestBuildAppliesImportanceScores(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	car := addVertex(t, s, "car")
	require.NoError(t, s.SetVertexProperty(ctx, car.ID, pipeline.ImportanceProperty, "100"))

	p, err := Build(ctx, s, Options{})
	require.NoError(t, err)
	require.Len(t, p.Nodes, 1)
	require.Equal(t, 100.0, p.Nodes[0].Value)
}

func TestBuildDropsEdgesOfFilteredVertices(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	car := addVertex(t, s, "car")
	wheel := addVertex(t, s, "wheel")
	_, err := s.Join(ctx, car.ID, wheel.ID, 1.0, "HAS")
	require.NoError(t, err)

	p, err := Build(ctx, s, Options{VertexFilter: "name = 'car'"})
	require.NoError(t, err)
	require.Len(t, p.Nodes, 1)
	require.Empty(t, p.Edges, "an edge to a filtered-out vertex must not render")
}

func TestBuildArcFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	car := addVertex(t, s, "car")
	wheel := addVertex(t, s, "wheel")
	_, err := s.Join(ctx, car.ID, wheel.ID, 2.0, "HAS")
	require.NoError(t, err)
	_, err = s.Join(ctx, wheel.ID, car.ID, 1.0, "OF")
	require.NoError(t, err)

	p, err := Build(ctx, s, Options{ArcFilter: "weight > 1.5"})
	require.NoError(t, err)
	require.Len(t, p.Edges, 1)
	require.Equal(t, "HAS", p.Edges[0].Label)
}

func TestRenderHTML(t *testing.T) {
	p := &Payload{
		Nodes: []Node{{ID: 1, Label: "car"}, {ID: 2, Label: "wheel"}},
		Edges: []Edge{{From: 1, To: 2, Label: "HAS"}},
	}

	var b strings.Builder
	require.NoError(t, RenderHTML(&b, "concepts", p))

	out := b.String()
	require.Contains(t, out, "<title>concepts</title>")
	require.Contains(t, out, "vis-network")
	require.Contains(t, out, `"label":"car"`)
	require.Contains(t, out, `"from":1`)
}

func TestRenderHTMLEmptyPayload(t *testing.T) {
	var b strings.Builder
	require.NoError(t, RenderHTML(&b, "empty", &Payload{}))
	require.Contains(t, b.String(), "vis.DataSet")
}
