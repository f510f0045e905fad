// Command metagraph is the maintenance and ingestion CLI for a
// knowledge store.
//
//	metagraph init   -db graph.s3db
//	metagraph ingest -db graph.s3db -annotator http://localhost:9090 file.txt
//	metagraph slice  -db graph.s3db -root melih -depth 2
//	metagraph render -db graph.s3db -out graph.html
//	metagraph clear  -db graph.s3db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	metagraph "github.com/MelihAkdag/language-atomics-metagraph"
	"github.com/MelihAkdag/language-atomics-metagraph/annotate"
	"github.com/MelihAkdag/language-atomics-metagraph/pipeline"
	"github.com/MelihAkdag/language-atomics-metagraph/store"
	"github.com/MelihAkdag/language-atomics-metagraph/viz"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "init":
		err = runInit(args)
	case "ingest":
		err = runIngest(args)
	case "slice":
		err = runSlice(args)
	case "render":
		err = runRender(args)
	case "clear":
		err = runClear(args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: metagraph <init|ingest|slice|render|clear> [flags]")
}

// storeFlags are the flags every subcommand shares.
func storeFlags(fs *flag.FlagSet) (db, graphName, template *string) {
	db = fs.String("db", "knowledge.s3db", "Database file path")
	graphName = fs.String("graph", "concepts", "Logical graph name")
	template = fs.String("template", "", "Schema template copied when the database is missing")
	return
}

func openKnowledge(db, graphName, template string) (*metagraph.Knowledge, error) {
	cfg := metagraph.DefaultConfig()
	cfg.DBPath = db
	cfg.GraphName = graphName
	cfg.Template = template
	return metagraph.Open(cfg)
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	db, graphName, _ := storeFlags(fs)
	fs.Parse(args)

	if err := metagraph.CreateTemplate(*db, *graphName); err != nil {
		return err
	}
	slog.Info("store initialised", "db", *db, "graph", *graphName)
	return nil
}

func runIngest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	db, graphName, template := storeFlags(fs)
	annotatorURL := fs.String("annotator", "", "Annotation service base URL (not needed for fact sheets)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("ingest needs exactly one input file")
	}
	path := fs.Arg(0)

	kb, err := openKnowledge(*db, *graphName, *template)
	if err != nil {
		return err
	}
	defer kb.Close()

	var annotator annotate.Annotator
	if *annotatorURL != "" {
		annotator = annotate.NewClient(*annotatorURL)
	}

	p := pipeline.New(annotator, kb.Speak(), kb.Store())
	stats, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		return err
	}

	slog.Info("ingestion complete", "file", path,
		"sentences", stats.Sentences, "relations", stats.Relations,
		"asserted", stats.Asserted, "dropped", stats.Dropped)
	return nil
}

func runSlice(args []string) error {
	fs := flag.NewFlagSet("slice", flag.ExitOnError)
	db, graphName, template := storeFlags(fs)
	root := fs.String("root", "", "Root concept name")
	depth := fs.Int("depth", 2, "Traversal depth in hops")
	fs.Parse(args)

	if *root == "" {
		return fmt.Errorf("slice needs -root")
	}

	kb, err := openKnowledge(*db, *graphName, *template)
	if err != nil {
		return err
	}
	defer kb.Close()

	c, err := kb.Slice(context.Background(), *root, *depth)
	if err != nil {
		return err
	}

	fmt.Printf("vertices = %d, arcs = %d\n", c.NumVertices(), c.NumArcs())
	fmt.Print(c.String())
	return nil
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	db, graphName, template := storeFlags(fs)
	out := fs.String("out", "graph.html", "Output HTML file")
	vertexFilter := fs.String("vfilter", "", "Vertex filter (SQL WHERE fragment)")
	arcFilter := fs.String("afilter", "", "Arc filter (SQL WHERE fragment)")
	fs.Parse(args)

	kb, err := openKnowledge(*db, *graphName, *template)
	if err != nil {
		return err
	}
	defer kb.Close()

	payload, err := viz.Build(context.Background(), kb.Store(), viz.Options{
		VertexFilter: *vertexFilter,
		ArcFilter:    *arcFilter,
	})
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := viz.RenderHTML(f, *graphName, payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("graph rendered", "out", *out,
		"nodes", len(payload.Nodes), "edges", len(payload.Edges))
	return nil
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	db, graphName, _ := storeFlags(fs)
	fs.Parse(args)

	s, err := store.Open(*db, *graphName)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Clear(ctx); err != nil {
		return err
	}
	if err := s.Vacuum(ctx); err != nil {
		return err
	}

	slog.Info("store cleared", "db", *db, "graph", *graphName)
	return nil
}
