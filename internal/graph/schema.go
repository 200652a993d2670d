package graph

import "fmt"

// --- Files ---

const (
	// NodesFile holds one row per visited syntax node.
	NodesFile = "nodes.csv"
	// EdgesFile holds one row per discovered relation.
	EdgesFile = "edges.csv"
	// CounterFile hands the identity counter from one run to the next.
	CounterFile = ".nodeID"
)

// --- Columns ---

// NodeColumn indexes the node table.
type NodeColumn int

const (
	ColNodeID NodeColumn = iota
	ColKind
	ColLoc
	ColRange
	ColType
	ColValueKind
	ColValue
	ColCastKind
	ColDeclName
	ColSemContext
	ColLexContext
	ColDeclQual
	ColBareDeclRef

	NodeFirst = ColNodeID
	NodeLast  = ColBareDeclRef
)

// NodeHeader is the header row of the node table, in column order.
var NodeHeader = []string{
	"nodeID:ID", "nodeKind", "loc", "locRange",
	"type", "valueKind", "value", "castKind",
	"declName", "semcontext", "lexcontext",
	"declqual", "baredeclref",
}

// EdgeColumn indexes the edge table.
type EdgeColumn int

const (
	ColSource EdgeColumn = iota
	ColTarget
	ColRelation

	EdgeFirst = ColSource
	EdgeLast  = ColRelation
)

// EdgeHeader is the header row of the edge table, in column order.
var EdgeHeader = []string{"nodeID:ID", "nodeID:ID", "type"}

// --- Relations ---

// Relation classifies an edge.
type Relation int

const (
	// RelIsParentOf links a node to its lexical container.
	RelIsParentOf Relation = iota
	// RelSemanticParent links a declaration to its semantic container when
	// that differs from the lexical one.
	RelSemanticParent
	// RelReferencesDecl links an expression to the declaration it names.
	RelReferencesDecl

	numRelations
)

var relationKeys = [numRelations]string{
	"is_parent_of",
	"semantic_parent",
	"references_decl",
}

func (r Relation) String() string {
	if r < 0 || r >= numRelations {
		return fmt.Sprintf("Relation(%d)", int(r))
	}
	return relationKeys[r]
}

// ParseRelation returns the relation with the given table key.
func ParseRelation(s string) (Relation, error) {
	for i, k := range relationKeys {
		if k == s {
			return Relation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown relation %q", s)
}

// Relations lists every relation in enumeration order.
func Relations() []Relation {
	out := make([]Relation, numRelations)
	for i := range out {
		out[i] = Relation(i)
	}
	return out
}

// invalidLoc is printed for positions that do not resolve to a file.
const invalidLoc = "<invalid sloc>"
