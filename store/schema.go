package store

// schemaSQL is the DDL for the shared backing store. All data tables are
// scoped by graph_id so that multiple logical graphs can live in one
// database file. "end" is quoted throughout because it is an SQL keyword.
const schemaSQL = `
-- Registry of logical graphs sharing this store
CREATE TABLE IF NOT EXISTS graphs (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Vertices, keyed (graph_id, id); names are unique per graph
CREATE TABLE IF NOT EXISTS vertices (
    graph_id INTEGER NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    value REAL NOT NULL DEFAULT 1.0,
    guid TEXT NOT NULL,
    PRIMARY KEY (graph_id, id),
    UNIQUE (graph_id, name)
);

-- Arcs, keyed (graph_id, id); start/end/anchor are vertex ids
CREATE TABLE IF NOT EXISTS arcs (
    graph_id INTEGER NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
    id INTEGER NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    weight REAL NOT NULL DEFAULT 1.0,
    guid TEXT NOT NULL,
    start INTEGER NOT NULL,
    "end" INTEGER NOT NULL,
    anchor INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (graph_id, id)
);

-- Generic key/value properties beyond the fixed schema columns
CREATE TABLE IF NOT EXISTS vertex_properties (
    graph_id INTEGER NOT NULL,
    vertex_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT,
    PRIMARY KEY (graph_id, vertex_id, key)
);

CREATE TABLE IF NOT EXISTS arc_properties (
    graph_id INTEGER NOT NULL,
    arc_id INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT,
    PRIMARY KEY (graph_id, arc_id, key)
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_vertices_name ON vertices(graph_id, name);
CREATE INDEX IF NOT EXISTS idx_arcs_start ON arcs(graph_id, start);
CREATE INDEX IF NOT EXISTS idx_arcs_end ON arcs(graph_id, "end");
`
