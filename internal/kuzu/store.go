//go:build cgo

// Package kuzu loads exported node and edge tables into KuzuDB and answers
// simple structural queries over them.
package kuzu

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/dusk-indust/astgraph/internal/graph"
)

// Store wraps a KuzuDB database holding one AST graph.
// It requires CGO because the go-kuzu driver wraps KuzuDB's C library.
type Store struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// NewStore opens an in-memory database.
func NewStore() (*Store, error) {
	return open(":memory:")
}

// NewFileStore opens, or creates, the database at dbPath. KuzuDB creates
// the leaf directory itself.
func NewFileStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return open(dbPath)
}

func open(path string) (*Store, error) {
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &Store{db: db, conn: conn}, nil
}

// Close releases the connection and the database.
func (s *Store) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema ----------

// nodeProps are the AstNode properties after the id, in node table column
// order.
var nodeProps = []string{
	"kind", "loc", "loc_range", "type", "value_kind", "value", "cast_kind",
	"decl_name", "sem_context", "lex_context", "decl_qual", "bare_decl_ref",
}

// RelTable returns the relationship table that stores edges of r.
func RelTable(r graph.Relation) string {
	return strings.ToUpper(r.String())
}

func ddl() []string {
	var b strings.Builder
	b.WriteString("CREATE NODE TABLE IF NOT EXISTS AstNode(id INT64")
	for _, p := range nodeProps {
		b.WriteString(", ")
		b.WriteString(p)
		b.WriteString(" STRING")
	}
	b.WriteString(", PRIMARY KEY(id))")

	stmts := []string{b.String()}
	for _, r := range graph.Relations() {
		stmts = append(stmts, fmt.Sprintf("CREATE REL TABLE IF NOT EXISTS %s(FROM AstNode TO AstNode)", RelTable(r)))
	}
	return stmts
}

// InitSchema creates the node table and one relationship table per
// relation. It is idempotent.
func (s *Store) InitSchema(_ context.Context) error {
	for _, stmt := range ddl() {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Import ----------

// ImportStats counts what Import wrote.
type ImportStats struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// Import merges every row of t into the graph. Rows already present, for
// instance from importing an earlier state of appended tables, are
// updated in place rather than duplicated.
func (s *Store) Import(ctx context.Context, t *graph.Tables) (ImportStats, error) {
	var st ImportStats

	sets := make([]string, len(nodeProps))
	for i, p := range nodeProps {
		sets[i] = fmt.Sprintf("n.%s = $%s", p, p)
	}
	nodeStmt, err := s.conn.Prepare("MERGE (n:AstNode {id: $id}) SET " + strings.Join(sets, ", "))
	if err != nil {
		return st, fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range t.Nodes {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		if err := s.execPrepared(nodeStmt, nodeParams(n)); err != nil {
			return st, fmt.Errorf("kuzu: import node %d: %w", n.ID, err)
		}
		st.Nodes++
	}

	edgeStmts := make(map[graph.Relation]*kuzu.PreparedStatement)
	defer func() {
		for _, stmt := range edgeStmts {
			stmt.Close()
		}
	}()
	for _, e := range t.Edges {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		stmt, ok := edgeStmts[e.Relation]
		if !ok {
			stmt, err = s.conn.Prepare(fmt.Sprintf(
				`MATCH (a:AstNode {id: $src}), (b:AstNode {id: $dst})
				 MERGE (a)-[:%s]->(b)`, RelTable(e.Relation)))
			if err != nil {
				return st, fmt.Errorf("kuzu: prepare: %w", err)
			}
			edgeStmts[e.Relation] = stmt
		}
		params := map[string]any{"src": int64(e.Source), "dst": int64(e.Target)}
		if err := s.execPrepared(stmt, params); err != nil {
			return st, fmt.Errorf("kuzu: import edge %d->%d: %w", e.Source, e.Target, err)
		}
		st.Edges++
	}
	return st, nil
}

func nodeParams(n graph.NodeRecord) map[string]any {
	return map[string]any{
		"id":            int64(n.ID),
		"kind":          n.Kind,
		"loc":           n.Loc,
		"loc_range":     n.Range,
		"type":          n.Type,
		"value_kind":    n.ValueKind,
		"value":         n.Value,
		"cast_kind":     n.CastKind,
		"decl_name":     n.DeclName,
		"sem_context":   n.SemContext,
		"lex_context":   n.LexContext,
		"decl_qual":     n.DeclQual,
		"bare_decl_ref": n.BareDeclRef,
	}
}

// ---------- Queries ----------

// Node returns the row with the given identity, or nil if there is none.
func (s *Store) Node(_ context.Context, id uint64) (*graph.NodeRecord, error) {
	rows, err := s.query(
		"MATCH (n:AstNode {id: $id}) RETURN n.id, n."+strings.Join(nodeProps, ", n."),
		map[string]any{"id": int64(id)},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &graph.NodeRecord{
		ID:          toUint(r[0]),
		Kind:        toString(r[1]),
		Loc:         toString(r[2]),
		Range:       toString(r[3]),
		Type:        toString(r[4]),
		ValueKind:   toString(r[5]),
		Value:       toString(r[6]),
		CastKind:    toString(r[7]),
		DeclName:    toString(r[8]),
		SemContext:  toString(r[9]),
		LexContext:  toString(r[10]),
		DeclQual:    toString(r[11]),
		BareDeclRef: toString(r[12]),
	}, nil
}

// Children returns the nodes whose lexical parent is id, in identity order.
func (s *Store) Children(_ context.Context, id uint64) ([]uint64, error) {
	return s.ids(
		`MATCH (c:AstNode)-[:IS_PARENT_OF]->(p:AstNode {id: $id})
		 RETURN c.id ORDER BY c.id`, id)
}

// References returns the declarations id refers to.
func (s *Store) References(_ context.Context, id uint64) ([]uint64, error) {
	return s.ids(
		`MATCH (a:AstNode {id: $id})-[:REFERENCES_DECL]->(d:AstNode)
		 RETURN d.id ORDER BY d.id`, id)
}

// Referrers returns the nodes that refer to the declaration id.
func (s *Store) Referrers(_ context.Context, id uint64) ([]uint64, error) {
	return s.ids(
		`MATCH (a:AstNode)-[:REFERENCES_DECL]->(d:AstNode {id: $id})
		 RETURN a.id ORDER BY a.id`, id)
}

// FindDecls returns the nodes declaring name, in identity order.
func (s *Store) FindDecls(_ context.Context, name string, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(
		`MATCH (n:AstNode) WHERE n.decl_name = $name
		 RETURN n.id ORDER BY n.id LIMIT $lim`,
		map[string]any{"name": name, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	return column(rows), nil
}

// GraphStats counts the rows of every table.
type GraphStats struct {
	Nodes int            `json:"nodes"`
	Edges map[string]int `json:"edges"`
}

// Stats counts nodes and the edges of each relation.
func (s *Store) Stats(_ context.Context) (*GraphStats, error) {
	st := &GraphStats{Edges: make(map[string]int)}
	n, err := s.count("MATCH (n:AstNode) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	st.Nodes = n
	for _, r := range graph.Relations() {
		// Table names are fixed constants, not user input.
		c, err := s.count(fmt.Sprintf("MATCH ()-[e:%s]->() RETURN count(e)", RelTable(r)))
		if err != nil {
			return nil, err
		}
		st.Edges[r.String()] = c
	}
	return st, nil
}

// ---------- Internal helpers ----------

func (s *Store) execPrepared(stmt *kuzu.PreparedStatement, params map[string]any) error {
	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return err
	}
	res.Close()
	return nil
}

// query runs a Cypher statement and collects all result rows, each in
// column order.
func (s *Store) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *Store) ids(cypher string, id uint64) ([]uint64, error) {
	rows, err := s.query(cypher, map[string]any{"id": int64(id)})
	if err != nil {
		return nil, err
	}
	return column(rows), nil
}

func (s *Store) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return int(toUint(rows[0][0])), nil
}

func column(rows [][]any) []uint64 {
	out := make([]uint64, 0, len(rows))
	for _, r := range rows {
		out = append(out, toUint(r[0]))
	}
	return out
}

// KuzuDB returns typed Go values; these coerce them.

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toUint(v any) uint64 {
	switch n := v.(type) {
	case int64:
		return uint64(n)
	case int:
		return uint64(n)
	case int32:
		return uint64(n)
	case uint64:
		return n
	default:
		return 0
	}
}
