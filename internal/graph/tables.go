package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// NodeRecord is one parsed row of the node table.
type NodeRecord struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"kind"`
	Loc         string `json:"loc,omitempty"`
	Range       string `json:"range,omitempty"`
	Type        string `json:"type,omitempty"`
	ValueKind   string `json:"valueKind,omitempty"`
	Value       string `json:"value,omitempty"`
	CastKind    string `json:"castKind,omitempty"`
	DeclName    string `json:"declName,omitempty"`
	SemContext  string `json:"semContext,omitempty"`
	LexContext  string `json:"lexContext,omitempty"`
	DeclQual    string `json:"declQual,omitempty"`
	BareDeclRef string `json:"bareDeclRef,omitempty"`
}

// Fields returns the record as table fields, in column order.
func (n NodeRecord) Fields() []string {
	return []string{
		strconv.FormatUint(n.ID, 10), n.Kind, n.Loc, n.Range,
		n.Type, n.ValueKind, n.Value, n.CastKind,
		n.DeclName, n.SemContext, n.LexContext,
		n.DeclQual, n.BareDeclRef,
	}
}

// EdgeRecord is one parsed row of the edge table.
type EdgeRecord struct {
	Source   uint64   `json:"source"`
	Target   uint64   `json:"target"`
	Relation Relation `json:"-"`
}

// Tables is an in-memory view of an exported node/edge table pair.
type Tables struct {
	Nodes []NodeRecord
	Edges []EdgeRecord

	index    map[uint64]int
	children map[uint64][]uint64
}

// ReadTables reads nodes.csv and edges.csv from dir.
func ReadTables(dir string) (*Tables, error) {
	nf, err := os.Open(filepath.Join(dir, NodesFile))
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	defer nf.Close()

	ef, err := os.Open(filepath.Join(dir, EdgesFile))
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	defer ef.Close()

	nodes, err := ReadNodes(nf)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", NodesFile, err)
	}
	edges, err := ReadEdges(ef)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", EdgesFile, err)
	}
	return NewTables(nodes, edges), nil
}

// NewTables indexes the given rows.
func NewTables(nodes []NodeRecord, edges []EdgeRecord) *Tables {
	t := &Tables{
		Nodes:    nodes,
		Edges:    edges,
		index:    make(map[uint64]int, len(nodes)),
		children: make(map[uint64][]uint64),
	}
	for i, n := range nodes {
		if _, dup := t.index[n.ID]; !dup {
			t.index[n.ID] = i
		}
	}
	for _, e := range edges {
		if e.Relation == RelIsParentOf {
			t.children[e.Target] = append(t.children[e.Target], e.Source)
		}
	}
	return t
}

func newTableReader(r io.Reader, header []string) (*csv.Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = len(header)
	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("missing header")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("header column %d is %q, want %q", i+1, got[i], header[i])
		}
	}
	return cr, nil
}

// ReadNodes parses a node table, header included.
func ReadNodes(r io.Reader) ([]NodeRecord, error) {
	cr, err := newTableReader(r, NodeHeader)
	if err != nil {
		return nil, err
	}
	var out []NodeRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		id, err := strconv.ParseUint(rec[ColNodeID], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad node identity %q", line, rec[ColNodeID])
		}
		out = append(out, NodeRecord{
			ID:          id,
			Kind:        rec[ColKind],
			Loc:         rec[ColLoc],
			Range:       rec[ColRange],
			Type:        rec[ColType],
			ValueKind:   rec[ColValueKind],
			Value:       rec[ColValue],
			CastKind:    rec[ColCastKind],
			DeclName:    rec[ColDeclName],
			SemContext:  rec[ColSemContext],
			LexContext:  rec[ColLexContext],
			DeclQual:    rec[ColDeclQual],
			BareDeclRef: rec[ColBareDeclRef],
		})
	}
}

// ReadEdges parses an edge table, header included.
func ReadEdges(r io.Reader) ([]EdgeRecord, error) {
	cr, err := newTableReader(r, EdgeHeader)
	if err != nil {
		return nil, err
	}
	var out []EdgeRecord
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		src, err := strconv.ParseUint(rec[ColSource], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad source identity %q", line, rec[ColSource])
		}
		dst, err := strconv.ParseUint(rec[ColTarget], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad target identity %q", line, rec[ColTarget])
		}
		rel, err := ParseRelation(rec[ColRelation])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, EdgeRecord{Source: src, Target: dst, Relation: rel})
	}
}

// Node returns the row with the given identity.
func (t *Tables) Node(id uint64) (NodeRecord, bool) {
	i, ok := t.index[id]
	if !ok {
		return NodeRecord{}, false
	}
	return t.Nodes[i], true
}

// Children returns the nodes whose parent is id, in identity order.
func (t *Tables) Children(id uint64) []uint64 {
	kids := append([]uint64(nil), t.children[id]...)
	sort.Slice(kids, func(i, j int) bool { return kids[i] < kids[j] })
	return kids
}

// Parents returns the lexical parents of id.
func (t *Tables) Parents(id uint64) []uint64 {
	var out []uint64
	for _, e := range t.Edges {
		if e.Relation == RelIsParentOf && e.Source == id {
			out = append(out, e.Target)
		}
	}
	return out
}

// EdgesFrom returns every edge leaving id.
func (t *Tables) EdgesFrom(id uint64) []EdgeRecord {
	var out []EdgeRecord
	for _, e := range t.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Roots returns the nodes with no parent edge, in identity order.
func (t *Tables) Roots() []uint64 {
	hasParent := make(map[uint64]bool, len(t.Edges))
	for _, e := range t.Edges {
		if e.Relation == RelIsParentOf {
			hasParent[e.Source] = true
		}
	}
	var out []uint64
	for _, n := range t.Nodes {
		if !hasParent[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Summary counts the rows of a table pair.
type Summary struct {
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	BareRefs   int            `json:"bareRefs"`
	FirstID    uint64         `json:"firstId"`
	LastID     uint64         `json:"lastId"`
	ByRelation map[string]int `json:"byRelation"`
	ByKind     map[string]int `json:"byKind"`
}

// Summary counts nodes by kind and edges by relation.
func (t *Tables) Summary() Summary {
	s := Summary{
		Nodes:      len(t.Nodes),
		Edges:      len(t.Edges),
		ByRelation: make(map[string]int),
		ByKind:     make(map[string]int),
	}
	for i, n := range t.Nodes {
		if i == 0 || n.ID < s.FirstID {
			s.FirstID = n.ID
		}
		if n.ID > s.LastID {
			s.LastID = n.ID
		}
		if n.BareDeclRef != "" {
			s.BareRefs++
		}
		s.ByKind[n.Kind]++
	}
	for _, e := range t.Edges {
		s.ByRelation[e.Relation.String()]++
	}
	return s
}

// Violation is a well-formedness problem found by Verify.
type Violation struct {
	NodeID uint64 `json:"nodeId,omitempty"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.NodeID == 0 {
		return v.Reason
	}
	return fmt.Sprintf("node %d: %s", v.NodeID, v.Reason)
}

// Verify checks that identities strictly increase down the node table and
// that every edge connects two rows of it.
func (t *Tables) Verify() []Violation {
	var out []Violation

	var prev uint64
	for i, n := range t.Nodes {
		if n.ID == 0 {
			out = append(out, Violation{Reason: fmt.Sprintf("row %d has identity 0", i+1)})
			continue
		}
		if i > 0 && n.ID <= prev {
			out = append(out, Violation{NodeID: n.ID, Reason: fmt.Sprintf("identity does not increase (previous %d)", prev)})
		}
		prev = n.ID
	}

	for i, e := range t.Edges {
		if _, ok := t.index[e.Source]; !ok {
			out = append(out, Violation{Reason: fmt.Sprintf("edge %d: source %d has no node row", i+1, e.Source)})
		}
		if _, ok := t.index[e.Target]; !ok {
			out = append(out, Violation{Reason: fmt.Sprintf("edge %d: target %d has no node row", i+1, e.Target)})
		}
		if e.Source == e.Target {
			out = append(out, Violation{NodeID: e.Source, Reason: fmt.Sprintf("edge %d is a self loop", i+1)})
		}
	}
	return out
}
