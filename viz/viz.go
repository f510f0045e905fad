// Package viz exports a graph as flat vertex and arc lists for
// rendering, and produces a self-contained interactive HTML artifact.
package viz

import (
	"context"
	"errors"
	"strconv"

	"github.com/MelihAkdag/language-atomics-metagraph/pipeline"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

// Node is one renderable vertex: id, label and an optional numeric
// score that drives node sizing.
type Node struct {
	ID    int64   `json:"id"`
	Label string  `json:"label"`
	Value float64 `json:"value,omitempty"`
}

// Edge is one renderable arc.
type Edge struct {
	From  int64  `json:"from"`
	To    int64  `json:"to"`
	Label string `json:"label"`
}

// Payload is everything the renderer needs.
type Payload struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Options restricts the export. VertexFilter and ArcFilter are WHERE
// fragments executed against the backing schema; empty means all rows.
type Options struct {
	VertexFilter string
	ArcFilter    string
}

// Build pulls the vertex and arc lists for the store's graph, applying
// the optional filters. A vertex's importance property, when set,
// becomes the node score.
func Build(ctx context.Context, s *store.Store, opts Options) (*Payload, error) {
	vertexIDs, err := s.FilterVertexIDs(ctx, opts.VertexFilter)
	if err != nil {
		return nil, err
	}

	included := make(map[int64]struct{}, len(vertexIDs))
	payload := &Payload{Nodes: make([]Node, 0, len(vertexIDs))}

	for _, id := range vertexIDs {
		v, err := s.GetVertex(ctx, id)
		if err != nil {
			return nil, err
		}

		node := Node{ID: v.ID, Label: v.Name}
		if raw, err := s.VertexProperty(ctx, v.ID, pipeline.ImportanceProperty); err == nil {
			if score, perr := strconv.ParseFloat(raw, 64); perr == nil {
				node.Value = score
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		payload.Nodes = append(payload.Nodes, node)
		included[v.ID] = struct{}{}
	}

	arcIDs, err := s.FilterArcIDs(ctx, opts.ArcFilter)
	if err != nil {
		return nil, err
	}

	for _, id := range arcIDs {
		a, err := s.GetArc(ctx, id)
		if err != nil {
			return nil, err
		}
		// Drop arcs whose endpoints were filtered out.
		if _, ok := included[a.Start]; !ok {
			continue
		}
		if _, ok := included[a.End]; !ok {
			continue
		}
		payload.Edges = append(payload.Edges, Edge{From: a.Start, To: a.End, Label: a.Name})
	}

	return payload, nil
}
