package metagraph

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds all configuration for a knowledge store.
type Config struct {
	// DBPath is the full path to the SQLite database file. If empty,
	// it is derived from DBName as "<DBName>.s3db" in the working
	// directory.
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName names the database when DBPath is empty.
	DBName string `json:"db_name" yaml:"db_name"`

	// GraphName selects the logical graph within the store. Multiple
	// graphs may share one database file.
	GraphName string `json:"graph_name" yaml:"graph_name"`

	// Template is the path to a schema-template database copied into
	// place when the target file does not exist yet. Bootstrapping a
	// missing store without a template fails.
	Template string `json:"template" yaml:"template"`

	// SliceDepth is the default traversal depth for subgraph slices.
	SliceDepth int `json:"slice_depth" yaml:"slice_depth"`

	// AnnotatorURL is the base URL of the external linguistic
	// annotation service used by the ingestion pipeline. Optional;
	// direct fact assertion works without it.
	AnnotatorURL string `json:"annotator_url" yaml:"annotator_url"`

	// VertexFilter and ArcFilter are optional WHERE fragments applied
	// when exporting the graph for visualization.
	VertexFilter string `json:"vertex_filter" yaml:"vertex_filter"`
	ArcFilter    string `json:"arc_filter" yaml:"arc_filter"`
}

// DefaultConfig returns a Config with sensible defaults for a local
// single-graph store.
func DefaultConfig() Config {
	return Config{
		DBName:     "knowledge",
		GraphName:  "concepts",
		SliceDepth: 3,
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" && strings.TrimSpace(c.DBName) == "" {
		return fmt.Errorf("%w: one of db_path or db_name is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.GraphName) == "" {
		return fmt.Errorf("%w: graph_name is required", ErrInvalidConfig)
	}
	if c.SliceDepth < 0 {
		return fmt.Errorf("%w: slice_depth must not be negative", ErrInvalidConfig)
	}
	return nil
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Clean(c.DBName + ".s3db")
}
