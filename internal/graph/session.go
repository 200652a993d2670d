package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// ErrIncompleteTables reports an output directory holding only one of the
// two tables.
var ErrIncompleteTables = errors.New("only one of the node and edge tables exists")

// Session is one exporter run against an output directory. It owns the two
// table sinks, the identity registry and the location cursor, and hands the
// identity counter on to the next run when closed.
//
// At most one session (in any process) may use a directory at a time.
type Session struct {
	dir    string
	logger *slog.Logger

	reg     *Registry
	loc     LocationEncoder
	nodes   *Sink
	edges   *Sink
	emitter *EdgeEmitter

	appended bool
	start    uint64
	units    int
	rows     int
	closed   bool
}

// UnitStats summarizes the export of one unit.
type UnitStats struct {
	Path     string `json:"path"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	BareRefs int    `json:"bareRefs"`
	FirstID  uint64 `json:"firstId"`
	LastID   uint64 `json:"lastId"`
}

// Stats summarizes a session so far.
type Stats struct {
	Units    int    `json:"units"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
	BareRefs int    `json:"bareRefs"`
	FirstID  uint64 `json:"firstId"`
	LastID   uint64 `json:"lastId"`
	Appended bool   `json:"appended"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open starts a session in dir, creating the directory if needed.
//
// When both tables exist, new rows are appended and the side-car counter
// supplies the next identity; the side-car is consumed so that a crash
// cannot seed two runs from it. When neither exists, both are created with
// headers and identities start at 1. A failure to read or delete the
// side-car is returned before any table is touched.
func Open(dir string, opts ...Option) (*Session, error) {
	s := &Session{dir: dir, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	nodesPath := filepath.Join(dir, NodesFile)
	edgesPath := filepath.Join(dir, EdgesFile)
	haveNodes, haveEdges := fileExists(nodesPath), fileExists(edgesPath)
	if haveNodes != haveEdges {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteTables, dir)
	}
	appending := haveNodes

	start, found, err := consumeCounter(dir)
	if err != nil {
		return nil, err
	}
	switch {
	case appending && !found:
		return nil, fmt.Errorf("%w: %s", ErrCounterMissing, dir)
	case !appending && found:
		s.logger.Warn("discarding identity counter without tables", "dir", dir, "counter", start)
		start, found = 0, false
	}

	// Put the consumed counter back if the tables cannot be opened, so the
	// next attempt still continues the identity space.
	restore := func(openErr error) error {
		if !found {
			return openErr
		}
		return errors.Join(openErr, persistCounter(dir, start))
	}

	nodes, err := OpenSink(nodesPath, NodeHeader, !appending)
	if err != nil {
		return nil, restore(err)
	}
	edges, err := OpenSink(edgesPath, EdgeHeader, !appending)
	if err != nil {
		nodes.Close()
		return nil, restore(err)
	}

	s.reg = NewRegistry(start)
	s.nodes = nodes
	s.edges = edges
	s.emitter = NewEdgeEmitter(s.reg, edges)
	s.appended = appending
	s.start = start

	s.logger.Debug("session opened", "dir", dir, "append", appending, "counter", start)
	return s, nil
}

// Dir returns the output directory.
func (s *Session) Dir() string {
	return s.dir
}

// Export walks u and writes its nodes and edges. Units exported by the same
// session share one identity space and one location cursor.
func (s *Session) Export(ctx context.Context, u frontend.Unit) (UnitStats, error) {
	if s.closed {
		return UnitStats{}, fmt.Errorf("export %s: session closed", u.Path())
	}

	edgesBefore, bareBefore := s.emitter.Edges(), s.emitter.BareRefs()
	first := s.reg.Last() + 1

	b := NewBridge(u, s.reg, &s.loc, s.nodes, s.emitter)
	walkErr := frontend.Walk(ctx, u, b)
	// Commit the pending record even after a failed walk: edges already
	// written may point at it.
	err := errors.Join(walkErr, b.Finish())

	// Handles are only meaningful within their unit.
	s.reg.Forget()
	s.units++
	s.rows += b.Rows()

	stats := UnitStats{
		Path:     u.Path(),
		Nodes:    b.Rows(),
		Edges:    s.emitter.Edges() - edgesBefore,
		BareRefs: s.emitter.BareRefs() - bareBefore,
		LastID:   s.reg.Last(),
	}
	if b.Rows() > 0 {
		stats.FirstID = first
	}
	if err != nil {
		return stats, fmt.Errorf("export %s: %w", u.Path(), err)
	}

	s.logger.Debug("unit exported",
		"unit", stats.Path,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"bareRefs", stats.BareRefs,
	)
	return stats, nil
}

// Stats returns totals for the session so far.
func (s *Session) Stats() Stats {
	st := Stats{
		Units:    s.units,
		Nodes:    s.rows,
		Edges:    s.emitter.Edges(),
		BareRefs: s.emitter.BareRefs(),
		LastID:   s.reg.Last(),
		Appended: s.appended,
	}
	if s.reg.Last() > s.start {
		st.FirstID = s.start + 1
	}
	return st
}

// Close flushes and closes both tables and writes the identity counter for
// the next run. The counter is written even when closing a table fails.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := errors.Join(
		s.nodes.Close(),
		s.edges.Close(),
		persistCounter(s.dir, s.reg.Last()),
	)
	s.logger.Debug("session closed", "dir", s.dir, "counter", s.reg.Last())
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
