// Package frontend defines the contract between a syntax-tree front-end and
// the graph exporter.
//
// A front-end owns the parsed tree. It exposes every traversable node as an
// Element and advertises the node's facets (declaration, statement,
// expression, cast, ...) by implementing the matching interfaces below. Walk
// turns those capabilities into the ordered callback sequence a Visitor
// receives.
package frontend

import "fmt"

// Node is an opaque, comparable handle for a syntax node. Handles are owned
// by the front-end; consumers may use them as map keys but never dereference
// them.
type Node any

// Position is a resolved source location.
type Position struct {
	Filename string
	Line     int
	Column   int
}

// IsValid reports whether the position points into a file.
func (p Position) IsValid() bool {
	return p.Filename != "" && p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Range is a closed source range.
type Range struct {
	Begin Position
	End   Position
}

// Type describes the type of a typed node. Desugared is empty when it is the
// same as Spelling.
type Type struct {
	Spelling  string
	Desugared string
}

// IsZero reports whether no type information is present.
func (t Type) IsZero() bool {
	return t.Spelling == ""
}

// ValueKind is the value category of an expression.
type ValueKind int

const (
	ValueKindNone   ValueKind = iota // plain value
	ValueKindLValue                  // designates a storage location
	ValueKindXValue                  // assignable but not addressable
)

func (k ValueKind) String() string {
	switch k {
	case ValueKindLValue:
		return "lvalue"
	case ValueKindXValue:
		return "xvalue"
	default:
		return ""
	}
}

// Qualifiers are the boolean annotations of a declaration. Module names the
// owning module or package; it is empty when the declaration is not owned by
// one.
type Qualifiers struct {
	Module     string
	Hidden     bool
	Implicit   bool
	Used       bool
	Referenced bool
	Invalid    bool
	Constexpr  bool
}

// Element is any node the walk traverses.
type Element interface {
	Handle() Node
	// Kind is the generic classifier, used when no facet is more specific.
	Kind() string
	Range() Range
}

// Decl is a declaration.
type Decl interface {
	Element
	DeclKind() string
	Location() Position
	// SemanticContext and LexicalContext return the handles of the
	// declaration's semantic and lexical containers, or nil at the root.
	SemanticContext() Node
	LexicalContext() Node
	Qualifiers() Qualifiers
}

// NamedDecl is a declaration that introduces a name. Name may be empty for
// anonymous entities.
type NamedDecl interface {
	Decl
	Name() string
}

// ValueDecl is a named declaration of a typed entity.
type ValueDecl interface {
	NamedDecl
	Type() Type
}

// TranslationUnit is the root declaration of a unit.
type TranslationUnit interface {
	Decl
	Filename() string
}

// Stmt is a statement. Expressions are statements too.
type Stmt interface {
	Element
	StmtKind() string
}

// Expr is an expression.
type Expr interface {
	Stmt
	Type() Type
	ValueKind() ValueKind
}

// CastExpr is an explicit or checked conversion.
type CastExpr interface {
	Expr
	CastKind() string
}

// DeclRefExpr is an expression naming a declaration. The referenced
// declaration may never be traversed (it can live in another unit).
type DeclRefExpr interface {
	Expr
	Decl() Decl
}

// Literal is a literal expression.
type Literal interface {
	Expr
	Value() string
}

// Unit is one translation unit: a root element and the relations between its
// elements.
type Unit interface {
	// Path names the unit; it is used as the location of the root.
	Path() string
	Root() Element
	// Children returns the direct child elements in document order.
	Children(e Element) []Element
	// Parents returns the handles of the elements that contain n.
	Parents(n Node) []Node
}
