// Command metagraphd serves one knowledge store over HTTP: fact
// assertion, text ingestion, subgraph slicing, raw vertex/arc access
// and the interactive graph rendering.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	metagraph "github.com/MelihAkdag/language-atomics-metagraph"
	"github.com/MelihAkdag/language-atomics-metagraph/annotate"
	"github.com/MelihAkdag/language-atomics-metagraph/pipeline"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := metagraph.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}

	// Override from environment variables.
	if v := os.Getenv("METAGRAPH_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("METAGRAPH_GRAPH_NAME"); v != "" {
		cfg.GraphName = v
	}
	if v := os.Getenv("METAGRAPH_TEMPLATE"); v != "" {
		cfg.Template = v
	}
	if v := os.Getenv("METAGRAPH_ANNOTATOR_URL"); v != "" {
		cfg.AnnotatorURL = v
	}

	kb, err := metagraph.Open(cfg)
	if err != nil {
		slog.Error("opening knowledge store", "error", err)
		os.Exit(1)
	}
	defer kb.Close()

	var annotator annotate.Annotator
	if cfg.AnnotatorURL != "" {
		annotator = annotate.NewClient(cfg.AnnotatorURL)
	}

	h := &handler{
		kb:        kb,
		cfg:       cfg,
		pipeline:  pipeline.New(annotator, kb.Speak(), kb.Store()),
		annotated: annotator != nil,
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      newRouter(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // ingest can be long
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr, "db", kb.Store().Path())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func newRouter(h *handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logMiddleware)

	r.Get("/health", h.handleHealth)
	r.Post("/facts", h.handleFacts)
	r.Post("/ingest", h.handleIngest)
	r.Get("/slice/{root}", h.handleSlice)
	r.Get("/vertices", h.handleVertices)
	r.Get("/vertices/{id}", h.handleVertex)
	r.Get("/arcs", h.handleArcs)
	r.Get("/arcs/{id}", h.handleArc)
	r.Get("/render", h.handleRender)
	return r
}

// logMiddleware logs each request with method, path, status, and duration.
func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"remote", r.RemoteAddr,
		)
	})
}
