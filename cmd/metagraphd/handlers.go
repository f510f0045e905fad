package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	metagraph "github.com/MelihAkdag/language-atomics-metagraph"
	"github.com/MelihAkdag/language-atomics-metagraph/graph"
	"github.com/MelihAkdag/language-atomics-metagraph/pipeline"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
	"github.com/MelihAkdag/language-atomics-metagraph/viz"
)

type handler struct {
	kb        *metagraph.Knowledge
	cfg       metagraph.Config
	pipeline  *pipeline.Pipeline
	annotated bool
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// factRequest is one vocabulary assertion.
type factRequest struct {
	Verb    string `json:"verb"`
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Anchor  string `json:"anchor,omitempty"`
	Program string `json:"program,omitempty"`
}

// POST /facts
func (h *handler) handleFacts(w http.ResponseWriter, r *http.Request) {
	var req factRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	say := h.kb.Speak()

	var err error
	switch req.Verb {
	case "IS":
		err = say.IS(ctx, req.Subject, req.Object)
	case "HAS":
		err = say.HAS(ctx, req.Subject, req.Anchor, req.Object)
	case "IS_A":
		err = say.IsA(ctx, req.Subject, req.Object)
	case "IN":
		err = say.IN(ctx, req.Subject, req.Object)
	case "FROM":
		err = say.FROM(ctx, req.Subject, req.Object, req.Program)
	case "TO":
		err = say.TO(ctx, req.Subject, req.Object, req.Program)
	case "RELATES":
		err = say.RELATES(ctx, req.Subject, req.Object, req.Anchor, req.Program)
	case "CONTAINS":
		err = say.CONTAINS(ctx, req.Subject, req.Object)
	case "OF":
		err = say.OF(ctx, req.Anchor, req.Subject, req.Object)
	default:
		writeError(w, http.StatusBadRequest, "unknown verb "+req.Verb)
		return
	}
	if err != nil {
		slog.Error("fact assertion failed", "verb", req.Verb, "error", err)
		writeError(w, http.StatusInternalServerError, "assertion failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "asserted"})
}

// POST /ingest
func (h *handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	if !h.annotated {
		writeError(w, http.StatusServiceUnavailable, "no annotation service configured")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	stats, err := h.pipeline.ProcessText(r.Context(), req.Text)
	if err != nil {
		slog.Error("ingestion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /slice/{root}?depth=N
func (h *handler) handleSlice(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")

	depth := h.cfg.SliceDepth
	if v := r.URL.Query().Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "invalid depth")
			return
		}
		depth = d
	}

	c, err := h.kb.Slice(r.Context(), root, depth)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown root "+root)
			return
		}
		slog.Error("slice failed", "root", root, "error", err)
		writeError(w, http.StatusInternalServerError, "slice failed")
		return
	}

	type sliceVertex struct {
		ID     int64   `json:"id"`
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
	}
	type sliceArc struct {
		Name   string `json:"name"`
		Start  int64  `json:"start"`
		End    int64  `json:"end"`
		Anchor int64  `json:"anchor,omitempty"`
	}
	resp := struct {
		Root     string        `json:"root"`
		Depth    int           `json:"depth"`
		Vertices []sliceVertex `json:"vertices"`
		Arcs     []sliceArc    `json:"arcs"`
	}{Root: root, Depth: depth}

	c.EachVertex(func(v *graph.Vertex) graph.Outcome {
		resp.Vertices = append(resp.Vertices, sliceVertex{ID: v.ID, Name: v.Name, Weight: v.Weight})
		return graph.Continue
	})
	c.EachArc(func(a *graph.Arc) graph.Outcome {
		resp.Arcs = append(resp.Arcs, sliceArc{Name: a.Name, Start: a.Start, End: a.End, Anchor: a.Anchor})
		return graph.Continue
	})

	writeJSON(w, http.StatusOK, resp)
}

// GET /vertices
func (h *handler) handleVertices(w http.ResponseWriter, r *http.Request) {
	ids, err := h.kb.Store().GetVertices(r.Context())
	if err != nil {
		slog.Error("listing vertices", "error", err)
		writeError(w, http.StatusInternalServerError, "listing vertices failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"vertices": ids})
}

// GET /vertices/{id}
func (h *handler) handleVertex(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vertex id")
		return
	}

	v, err := h.kb.Store().GetVertex(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown vertex")
			return
		}
		slog.Error("getting vertex", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "getting vertex failed")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GET /arcs
func (h *handler) handleArcs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.kb.Store().GetArcs(r.Context())
	if err != nil {
		slog.Error("listing arcs", "error", err)
		writeError(w, http.StatusInternalServerError, "listing arcs failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int64{"arcs": ids})
}

// GET /arcs/{id}
func (h *handler) handleArc(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid arc id")
		return
	}

	a, err := h.kb.Store().GetArc(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown arc")
			return
		}
		slog.Error("getting arc", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "getting arc failed")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GET /render
func (h *handler) handleRender(w http.ResponseWriter, r *http.Request) {
	opts := viz.Options{
		VertexFilter: h.cfg.VertexFilter,
		ArcFilter:    h.cfg.ArcFilter,
	}

	payload, err := viz.Build(r.Context(), h.kb.Store(), opts)
	if err != nil {
		slog.Error("building render payload", "error", err)
		writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := viz.RenderHTML(w, h.cfg.GraphName, payload); err != nil {
		slog.Error("rendering graph", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
