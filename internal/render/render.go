// Package render draws exported AST tables as Mermaid diagrams or nested
// JSON trees.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dusk-indust/astgraph/internal/graph"
)

// Tree is one node of a rendered subtree.
type Tree struct {
	graph.NodeRecord
	SemanticParent uint64   `json:"semanticParent,omitempty"`
	References     []uint64 `json:"references,omitempty"`
	Children       []*Tree  `json:"children,omitempty"`
}

// Subtrees returns the trees below root, cut off depth levels down. A zero
// root selects every root of the tables; depth <= 0 means unlimited.
func Subtrees(t *graph.Tables, root uint64, depth int) ([]*Tree, error) {
	roots := t.Roots()
	if root != 0 {
		if _, ok := t.Node(root); !ok {
			return nil, fmt.Errorf("render: node %d not found", root)
		}
		roots = []uint64{root}
	}
	out := make([]*Tree, 0, len(roots))
	for _, id := range roots {
		out = append(out, build(t, id, depth))
	}
	return out, nil
}

func build(t *graph.Tables, id uint64, depth int) *Tree {
	n, _ := t.Node(id)
	tr := &Tree{NodeRecord: n}
	for _, e := range t.EdgesFrom(id) {
		switch e.Relation {
		case graph.RelSemanticParent:
			tr.SemanticParent = e.Target
		case graph.RelReferencesDecl:
			tr.References = append(tr.References, e.Target)
		}
	}
	if depth == 1 {
		return tr
	}
	for _, kid := range t.Children(id) {
		tr.Children = append(tr.Children, build(t, kid, depth-1))
	}
	return tr
}

// JSON writes the subtrees below root as indented JSON.
func JSON(w io.Writer, t *graph.Tables, root uint64, depth int) error {
	trees, err := Subtrees(t, root, depth)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trees); err != nil {
		return fmt.Errorf("render: encode: %w", err)
	}
	return nil
}

// Mermaid returns a top-down flowchart of the subtrees below root. Parent
// edges are solid arrows from container to child, semantic parents dotted
// and declaration references thick. Edges leaving the drawn nodes are
// omitted.
func Mermaid(t *graph.Tables, root uint64, depth int) (string, error) {
	trees, err := Subtrees(t, root, depth)
	if err != nil {
		return "", err
	}

	var all []*Tree
	var collect func(*Tree)
	collect = func(tr *Tree) {
		all = append(all, tr)
		for _, k := range tr.Children {
			collect(k)
		}
	}
	for _, tr := range trees {
		collect(tr)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	drawn := make(map[uint64]bool, len(all))
	for _, tr := range all {
		drawn[tr.ID] = true
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for _, tr := range all {
		fmt.Fprintf(&sb, "  N%d[\"%s\"]\n", tr.ID, label(tr.NodeRecord))
	}
	for _, tr := range all {
		for _, k := range tr.Children {
			fmt.Fprintf(&sb, "  N%d --> N%d\n", tr.ID, k.ID)
		}
	}
	for _, tr := range all {
		if tr.SemanticParent != 0 && drawn[tr.SemanticParent] {
			fmt.Fprintf(&sb, "  N%d -.-> N%d\n", tr.SemanticParent, tr.ID)
		}
		for _, ref := range tr.References {
			if drawn[ref] {
				fmt.Fprintf(&sb, "  N%d ==> N%d\n", tr.ID, ref)
			}
		}
	}
	return sb.String(), nil
}

// label is "id Kind", followed by the declared name or literal value.
func label(n graph.NodeRecord) string {
	s := fmt.Sprintf("%d %s", n.ID, n.Kind)
	switch {
	case n.DeclName != "":
		s += " " + n.DeclName
	case n.Value != "":
		s += " " + n.Value
	}
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return strings.ReplaceAll(s, `"`, "#quot;")
}
