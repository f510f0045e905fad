package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MelihAkdag/language-atomics-metagraph/graph"
)

var (
	// ErrNotFound is returned when a referenced vertex, arc or graph
	// does not resolve.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateName is returned when a write would duplicate a
	// vertex name within one graph.
	ErrDuplicateName = errors.New("store: duplicate vertex name")
)

// Vertex is a row in the vertices table. Value is the vertex weight; the
// column keeps its historical name for schema compatibility.
type Vertex struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	GUID  string  `json:"guid"`
}

// Arc is a row in the arcs table. Anchor is 0 when the arc carries no
// ternary qualifier.
type Arc struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	GUID   string  `json:"guid"`
	Start  int64   `json:"start"`
	End    int64   `json:"end"`
	Anchor int64   `json:"anchor"`
}

// querier is satisfied by both *sql.DB and *sql.Tx, so Store methods
// work unchanged inside Transact.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store maps graph operations onto rows in a SQLite database, scoped to
// one graph_id. Open the same file with different graph names to share a
// store between logical graphs. A Store is a single-writer handle;
// callers needing concurrency serialize per graph instance.
type Store struct {
	db      *sql.DB
	q       querier
	graphID int64
	path    string
}

// Open opens (or creates) the database at path, ensures the schema, and
// scopes the returned store to the named logical graph, registering it
// if needed.
func Open(path, graphName string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, q: db, path: path}

	ctx := context.Background()
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	id, err := s.ensureGraph(ctx, graphName)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registering graph %q: %w", graphName, err)
	}
	s.graphID = id

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// GraphID returns the id of the logical graph this store is scoped to.
func (s *Store) GraphID() int64 {
	return s.graphID
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureGraph(ctx context.Context, name string) (int64, error) {
	if _, err := s.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO graphs (name) VALUES (?)", name); err != nil {
		return 0, err
	}
	var id int64
	err := s.q.QueryRowContext(ctx,
		"SELECT id FROM graphs WHERE name = ?", name).Scan(&id)
	return id, err
}

// Transact runs fn against a store bound to one transaction. The whole
// unit of work is rolled back if fn returns an error, so a failure mid
// fact-assertion or mid-slice leaves no orphaned rows behind.
func (s *Store) Transact(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txs := &Store{db: s.db, q: tx, graphID: s.graphID, path: s.path}
	if err := fn(txs); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// --- Vertex operations ---

// AddVertex inserts a vertex with the given name and id. A duplicate
// name within this graph is rejected with ErrDuplicateName.
func (s *Store) AddVertex(ctx context.Context, name string, id int64) (*Vertex, error) {
	v := &Vertex{ID: id, Name: name, Value: 1.0, GUID: uuid.NewString()}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO vertices (graph_id, id, name, value, guid)
		VALUES (?, ?, ?, ?, ?)
	`, s.graphID, v.ID, v.Name, v.Value, v.GUID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("inserting vertex %q: %w", name, err)
	}
	return v, nil
}

// GetVertexByName returns the vertex with the given name. When autoAdd
// is set and the name is unknown, a vertex with the content-addressed id
// is created instead of failing; otherwise the miss is ErrNotFound.
func (s *Store) GetVertexByName(ctx context.Context, name string, autoAdd bool) (*Vertex, error) {
	v := &Vertex{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, value, guid FROM vertices
		WHERE graph_id = ? AND name = ?
	`, s.graphID, name).Scan(&v.ID, &v.Name, &v.Value, &v.GUID)
	if errors.Is(err, sql.ErrNoRows) {
		if autoAdd {
			return s.AddVertex(ctx, name, graph.DeriveID(name))
		}
		return nil, fmt.Errorf("%w: vertex %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying vertex %q: %w", name, err)
	}
	return v, nil
}

// GetVertex returns the vertex with the given id.
func (s *Store) GetVertex(ctx context.Context, id int64) (*Vertex, error) {
	v := &Vertex{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, value, guid FROM vertices
		WHERE graph_id = ? AND id = ?
	`, s.graphID, id).Scan(&v.ID, &v.Name, &v.Value, &v.GUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: vertex %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying vertex %d: %w", id, err)
	}
	return v, nil
}

// GetVertices returns all vertex ids in this graph.
func (s *Store) GetVertices(ctx context.Context) ([]int64, error) {
	return s.queryIDs(ctx, "SELECT id FROM vertices WHERE graph_id = ?", s.graphID)
}

// SetVertexValue updates a vertex's weight.
func (s *Store) SetVertexValue(ctx context.Context, id int64, value float64) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE vertices SET value = ? WHERE graph_id = ? AND id = ?
	`, value, s.graphID, id)
	if err != nil {
		return fmt.Errorf("updating vertex %d: %w", id, err)
	}
	return requireRow(res, id)
}

// RemoveVertex deletes a vertex together with every arc that starts or
// ends at it, and its properties.
func (s *Store) RemoveVertex(ctx context.Context, id int64) error {
	run := func(tx *Store) error {
		res, err := tx.q.ExecContext(ctx,
			"DELETE FROM vertices WHERE graph_id = ? AND id = ?", tx.graphID, id)
		if err != nil {
			return fmt.Errorf("deleting vertex %d: %w", id, err)
		}
		if err := requireRow(res, id); err != nil {
			return err
		}
		if _, err := tx.q.ExecContext(ctx,
			`DELETE FROM arcs WHERE graph_id = ? AND (start = ? OR "end" = ?)`,
			tx.graphID, id, id); err != nil {
			return fmt.Errorf("purging arcs of vertex %d: %w", id, err)
		}
		_, err = tx.q.ExecContext(ctx,
			"DELETE FROM vertex_properties WHERE graph_id = ? AND vertex_id = ?",
			tx.graphID, id)
		return err
	}

	// Already inside a transaction: reuse it.
	if _, ok := s.q.(*sql.Tx); ok {
		return run(s)
	}
	return s.Transact(ctx, run)
}

// --- Arc operations ---

// Join creates an arc from start to end, both vertex ids, after checking
// that both endpoints exist. A missing endpoint is ErrNotFound.
func (s *Store) Join(ctx context.Context, start, end int64, weight float64, name string) (*Arc, error) {
	for _, id := range []int64{start, end} {
		if _, err := s.GetVertex(ctx, id); err != nil {
			return nil, err
		}
	}

	a := &Arc{Name: name, Weight: weight, GUID: uuid.NewString(), Start: start, End: end}
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO arcs (graph_id, id, name, weight, guid, start, "end", anchor)
		VALUES (?, (SELECT COALESCE(MAX(id), 0) + 1 FROM arcs WHERE graph_id = ?), ?, ?, ?, ?, ?, 0)
		RETURNING id
	`, s.graphID, s.graphID, a.Name, a.Weight, a.GUID, a.Start, a.End).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting arc %q: %w", name, err)
	}
	return a, nil
}

// GetArc returns the arc with the given id.
func (s *Store) GetArc(ctx context.Context, id int64) (*Arc, error) {
	a := &Arc{}
	err := s.q.QueryRowContext(ctx, `
		SELECT id, name, weight, guid, start, "end", anchor FROM arcs
		WHERE graph_id = ? AND id = ?
	`, s.graphID, id).Scan(&a.ID, &a.Name, &a.Weight, &a.GUID, &a.Start, &a.End, &a.Anchor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: arc %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying arc %d: %w", id, err)
	}
	return a, nil
}

// GetArcs returns all arc ids in this graph.
func (s *Store) GetArcs(ctx context.Context) ([]int64, error) {
	return s.queryIDs(ctx, "SELECT id FROM arcs WHERE graph_id = ?", s.graphID)
}

// ArcsForVertex returns the ids of the vertex's outgoing arcs.
func (s *Store) ArcsForVertex(ctx context.Context, vertexID int64) ([]int64, error) {
	return s.queryIDs(ctx,
		"SELECT id FROM arcs WHERE graph_id = ? AND start = ? ORDER BY id",
		s.graphID, vertexID)
}

// SetArcAnchor attaches the anchor vertex to an arc, completing a
// ternary relation.
func (s *Store) SetArcAnchor(ctx context.Context, arcID, anchorID int64) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE arcs SET anchor = ? WHERE graph_id = ? AND id = ?
	`, anchorID, s.graphID, arcID)
	if err != nil {
		return fmt.Errorf("updating arc %d anchor: %w", arcID, err)
	}
	return requireRow(res, arcID)
}

// --- Generic properties ---

// SetVertexProperty stores a key/value property on a vertex, outside the
// fixed schema columns.
func (s *Store) SetVertexProperty(ctx context.Context, id int64, key, value string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO vertex_properties (graph_id, vertex_id, key, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(graph_id, vertex_id, key) DO UPDATE SET value = excluded.value
	`, s.graphID, id, key, value)
	if err != nil {
		return fmt.Errorf("setting vertex property %q: %w", key, err)
	}
	return nil
}

// VertexProperty reads a vertex property; an unset key is ErrNotFound.
func (s *Store) VertexProperty(ctx context.Context, id int64, key string) (string, error) {
	var value string
	err := s.q.QueryRowContext(ctx, `
		SELECT value FROM vertex_properties
		WHERE graph_id = ? AND vertex_id = ? AND key = ?
	`, s.graphID, id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: property %q on vertex %d", ErrNotFound, key, id)
	}
	if err != nil {
		return "", fmt.Errorf("querying vertex property %q: %w", key, err)
	}
	return value, nil
}

// SetArcProperty stores a key/value property on an arc.
func (s *Store) SetArcProperty(ctx context.Context, id int64, key, value string) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO arc_properties (graph_id, arc_id, key, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(graph_id, arc_id, key) DO UPDATE SET value = excluded.value
	`, s.graphID, id, key, value)
	if err != nil {
		return fmt.Errorf("setting arc property %q: %w", key, err)
	}
	return nil
}

// ArcProperty reads an arc property; an unset key is ErrNotFound.
func (s *Store) ArcProperty(ctx context.Context, id int64, key string) (string, error) {
	var value string
	err := s.q.QueryRowContext(ctx, `
		SELECT value FROM arc_properties
		WHERE graph_id = ? AND arc_id = ? AND key = ?
	`, s.graphID, id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: property %q on arc %d", ErrNotFound, key, id)
	}
	if err != nil {
		return "", fmt.Errorf("querying arc property %q: %w", key, err)
	}
	return value, nil
}

// --- Filtered id lists (visualization collaborator) ---

// FilterVertexIDs executes a raw WHERE fragment against the vertices
// table, already scoped to this graph, and returns matching ids.
func (s *Store) FilterVertexIDs(ctx context.Context, where string, args ...any) ([]int64, error) {
	query := "SELECT id FROM vertices WHERE graph_id = ?"
	queryArgs := []any{s.graphID}
	if strings.TrimSpace(where) != "" {
		query += " AND (" + where + ")"
		queryArgs = append(queryArgs, args...)
	}
	return s.queryIDs(ctx, query, queryArgs...)
}

// FilterArcIDs executes a raw WHERE fragment against the arcs table,
// already scoped to this graph, and returns matching ids.
func (s *Store) FilterArcIDs(ctx context.Context, where string, args ...any) ([]int64, error) {
	query := "SELECT id FROM arcs WHERE graph_id = ?"
	queryArgs := []any{s.graphID}
	if strings.TrimSpace(where) != "" {
		query += " AND (" + where + ")"
		queryArgs = append(queryArgs, args...)
	}
	return s.queryIDs(ctx, query, queryArgs...)
}

// --- Maintenance ---

// Clear deletes every row belonging to this graph. The graph row itself
// survives, so the store stays usable as an empty template.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range []string{"vertex_properties", "arc_properties", "arcs", "vertices"} {
		if _, err := s.q.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE graph_id = ?", table), s.graphID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// Vacuum compacts the database file.
func (s *Store) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// --- Helpers ---

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]int64, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
