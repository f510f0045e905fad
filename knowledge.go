// Package metagraph is an embedded graph knowledge store: a persisted
// property graph of named concepts connected by weighted, labelled,
// optionally anchored arcs, with a fixed vocabulary of semantic
// relations for asserting facts and bounded subgraph extraction for
// reading them back.
package metagraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/MelihAkdag/language-atomics-metagraph/graph"
	"github.com/MelihAkdag/language-atomics-metagraph/language"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
)

// Knowledge owns one persisted graph. It is the entry point for fact
// assertion (via Speak) and subgraph extraction (via Slice).
type Knowledge struct {
	store   *store.Store
	speaker *language.Speaker
}

// Open bootstraps a knowledge store from cfg. An existing database file
// is opened as is. A missing file is seeded by copying the configured
// schema template into place; with no template the bootstrap fails with
// ErrStoreUnavailable.
func Open(cfg Config) (*Knowledge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	path := cfg.resolveDBPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cfg.Template == "" {
			return nil, fmt.Errorf("%w: database file %s does not exist and no template was supplied", ErrStoreUnavailable, path)
		}
		if err := copyFile(cfg.Template, path); err != nil {
			return nil, fmt.Errorf("copying template %s: %w", cfg.Template, err)
		}
		slog.Info("bootstrapped store from template", "path", path, "template", cfg.Template)
	}

	s, err := store.Open(path, cfg.GraphName)
	if err != nil {
		return nil, err
	}
	return &Knowledge{store: s}, nil
}

// CreateTemplate writes a fresh, empty store with the full schema to
// path, suitable for use as a bootstrap template.
func CreateTemplate(path, graphName string) error {
	s, err := store.Open(path, graphName)
	if err != nil {
		return err
	}
	return s.Close()
}

// Close releases the backing store.
func (k *Knowledge) Close() error {
	return k.store.Close()
}

// Store exposes the persistence adapter for collaborators that need raw
// vertex/arc access, such as the visualization exporter.
func (k *Knowledge) Store() *store.Store {
	return k.store
}

// Speak returns the relation vocabulary bound to this store.
func (k *Knowledge) Speak() *language.Speaker {
	if k.speaker == nil {
		k.speaker = language.NewSpeaker(k.store)
	}
	return k.speaker
}

// Concept returns the vertex for name, creating it with its
// content-addressed id when absent.
func (k *Knowledge) Concept(ctx context.Context, name string) (*store.Vertex, error) {
	return k.store.GetVertexByName(ctx, name, true)
}

// Lookup returns the vertex for name without creating anything. An
// unknown name is store.ErrNotFound.
func (k *Knowledge) Lookup(ctx context.Context, name string) (*store.Vertex, error) {
	return k.store.GetVertexByName(ctx, name, false)
}

// Slice extracts the subgraph reachable from the named root within
// depth hops, as a detached conception. The walk clones each vertex the
// first time it is seen (which is what bounds work on cyclic data) and
// records arc ids per originating vertex; the arcs are replayed in a
// second pass once every reachable vertex is present, so forward
// references link correctly. An unknown root is store.ErrNotFound.
func (k *Knowledge) Slice(ctx context.Context, rootName string, depth int) (*graph.Conception, error) {
	root, err := k.store.GetVertexByName(ctx, rootName, false)
	if err != nil {
		return nil, err
	}

	c := graph.NewConception()
	pending := make(map[int64][]int64)
	if err := k.collect(ctx, root, depth, c, pending); err != nil {
		return nil, fmt.Errorf("slicing %q: %w", rootName, err)
	}

	if err := k.replay(ctx, c, pending); err != nil {
		return nil, fmt.Errorf("slicing %q: %w", rootName, err)
	}

	c.Root = c.Vertex(rootName)
	return c, nil
}

// collect is the discover-and-clone phase. A vertex already present in
// the conception is skipped outright; otherwise it is cloned, and if
// traversal budget remains its outgoing arcs are recorded and their
// ends and anchors pulled in, each costing one unit of depth.
func (k *Knowledge) collect(ctx context.Context, v *store.Vertex, depth int, c *graph.Conception, pending map[int64][]int64) error {
	if depth < 0 || c.VertexByID(v.ID) != nil {
		return nil
	}

	c.Add(&graph.Vertex{ID: v.ID, GUID: v.GUID, Name: v.Name, Weight: v.Value})
	if depth == 0 {
		return nil
	}

	arcIDs, err := k.store.ArcsForVertex(ctx, v.ID)
	if err != nil {
		return err
	}
	pending[v.ID] = arcIDs

	for _, arcID := range arcIDs {
		arc, err := k.store.GetArc(ctx, arcID)
		if err != nil {
			return err
		}

		end, err := k.store.GetVertex(ctx, arc.End)
		if err != nil {
			return err
		}
		if err := k.collect(ctx, end, depth-1, c, pending); err != nil {
			return err
		}

		if arc.Anchor != graph.NoVertex {
			anchor, err := k.store.GetVertex(ctx, arc.Anchor)
			if err != nil {
				return err
			}
			if err := k.collect(ctx, anchor, depth-1, c, pending); err != nil {
				return err
			}
		}
	}
	return nil
}

// replay is the linking phase: every recorded arc whose endpoints both
// made it into the conception is re-created there verbatim.
func (k *Knowledge) replay(ctx context.Context, c *graph.Conception, pending map[int64][]int64) error {
	for _, arcIDs := range pending {
		for _, arcID := range arcIDs {
			arc, err := k.store.GetArc(ctx, arcID)
			if err != nil {
				return err
			}
			c.Replay(graph.Arc{
				ID:     arc.ID,
				GUID:   arc.GUID,
				Name:   arc.Name,
				Weight: arc.Weight,
				Start:  arc.Start,
				End:    arc.End,
				Anchor: arc.Anchor,
			})
		}
	}
	return nil
}

// All loads the entire graph into a rootless conception.
func (k *Knowledge) All(ctx context.Context) (*graph.Conception, error) {
	c := graph.NewConception()

	vertexIDs, err := k.store.GetVertices(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range vertexIDs {
		v, err := k.store.GetVertex(ctx, id)
		if err != nil {
			return nil, err
		}
		c.Add(&graph.Vertex{ID: v.ID, GUID: v.GUID, Name: v.Name, Weight: v.Value})
	}

	arcIDs, err := k.store.GetArcs(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range arcIDs {
		a, err := k.store.GetArc(ctx, id)
		if err != nil {
			return nil, err
		}
		c.Replay(graph.Arc{
			ID:     a.ID,
			GUID:   a.GUID,
			Name:   a.Name,
			Weight: a.Weight,
			Start:  a.Start,
			End:    a.End,
			Anchor: a.Anchor,
		})
	}
	return c, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
