package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/astgraph/internal/graph"
)

func TestGrammar_C(t *testing.T) {
	src := `#include <stdio.h>

static int counter = 0;

int main(void) {
  counter = (int)helper();
  return counter;
}

int helper(void) { return 1; }
`
	tables := export(t, parse(t, "main.c", src, LangC))

	assert.Equal(t, "main.c", tables.Nodes[0].Loc)
	assert.Equal(t, "TranslationUnit", tables.Nodes[0].Kind)

	counter := find(t, tables, "VarDecl", "counter")
	assert.Equal(t, "<int>", counter.Type)
	assert.Equal(t, "<hidden, used>", counter.DeclQual)
	assert.Equal(t, "1", counter.LexContext)
	assert.True(t, refersTo(tables, counter.ID))

	main := find(t, tables, "FunctionDecl", "main")
	assert.Equal(t, "<int (void)>", main.Type)
	assert.Empty(t, main.DeclQual)

	helper := find(t, tables, "FunctionDecl", "helper")
	assert.Equal(t, "<used>", helper.DeclQual)
	assert.Contains(t, bareRefs(tables), "<FunctionDecl, helper, <int (void)>>",
		"helper is called before its definition")

	var casts, literals []string
	for _, n := range tables.Nodes {
		if n.CastKind != "" {
			casts = append(casts, n.CastKind)
		}
		if n.Value != "" {
			literals = append(literals, n.Value)
		}
	}
	assert.Equal(t, []string{"CStyleCast"}, casts)
	assert.Equal(t, []string{"<stdio.h>", "0", "1"}, literals)

	include := tables.Nodes[1]
	assert.Equal(t, "InclusionDirective", include.Kind)
}

func TestGrammar_CPP(t *testing.T) {
	src := `class Shape {
public:
  int area();
};

int Shape::area() { return static_cast<int>(2.5); }
`
	tables := export(t, parse(t, "shape.cpp", src, LangCPP))

	shape := find(t, tables, "CXXRecordDecl", "Shape")
	methods := findAll(tables, "CXXMethodDecl", "area")
	require.Len(t, methods, 2)

	inClass, outOfLine := methods[0], methods[1]
	assert.Equal(t, id(shape), inClass.LexContext)
	assert.Equal(t, id(shape), inClass.SemContext)

	assert.Equal(t, "1", outOfLine.LexContext)
	assert.Equal(t, id(shape), outOfLine.SemContext, "Shape::area belongs to Shape")
	assert.True(t, hasEdge(tables, outOfLine.ID, shape.ID, graph.RelSemanticParent))
	assert.Equal(t, "<int ()>", outOfLine.Type)

	var casts []string
	for _, n := range tables.Nodes {
		if n.CastKind != "" {
			casts = append(casts, n.CastKind)
		}
	}
	assert.Equal(t, []string{"StaticCast"}, casts)
}

func TestGrammar_CPPConstexpr(t *testing.T) {
	tables := export(t, parse(t, "k.cpp", "constexpr int limit = 8;\nint use() { return limit; }\n", LangCPP))
	assert.Equal(t, "<used, constexpr>", find(t, tables, "VarDecl", "limit").DeclQual)
}

func TestGrammar_Go(t *testing.T) {
	src := `package shapes

type Point struct {
	X int
}

func (p *Point) Move(dx int) {
	p.X += dx
}

func helper() int { return 1 }
`
	tables := export(t, parse(t, "shapes.go", src, LangGo))

	point := find(t, tables, "TypeSpec", "Point")
	assert.Equal(t, "<in shapes, used>", point.DeclQual)

	move := find(t, tables, "MethodDecl", "Move")
	assert.Equal(t, "<func(dx int)>", move.Type)
	assert.Equal(t, "<in shapes>", move.DeclQual)
	assert.Equal(t, "1", move.LexContext)
	assert.Equal(t, id(point), move.SemContext, "methods belong to their receiver type")
	assert.True(t, hasEdge(tables, move.ID, point.ID, graph.RelSemanticParent))

	helper := find(t, tables, "FuncDecl", "helper")
	assert.Equal(t, "<func() int>", helper.Type)
	assert.Equal(t, "<in shapes, hidden>", helper.DeclQual)

	x := find(t, tables, "FieldDecl", "X")
	assert.Equal(t, "<int>", x.Type)
	assert.Equal(t, "<used>", x.DeclQual)
	assert.Equal(t, id(point), x.LexContext)

	p := find(t, tables, "ParamDecl", "p")
	assert.Equal(t, "<*Point>", p.Type)
	assert.Equal(t, "<used>", p.DeclQual)
	assert.True(t, refersTo(tables, find(t, tables, "ParamDecl", "dx").ID))

	pkg := find(t, tables, "PackageClause", "shapes")
	assert.Equal(t, "<in shapes>", pkg.DeclQual)
}

func TestGrammar_Python(t *testing.T) {
	src := `def _helper(x):
    return x + 1


class Greeter:
    def greet(self):
        return _helper(2)
`
	tables := export(t, parse(t, "greet.py", src, LangPython))

	helper := find(t, tables, "FunctionDef", "_helper")
	assert.Equal(t, "<hidden, used>", helper.DeclQual)

	x := find(t, tables, "Parameter", "x")
	assert.Equal(t, id(helper), x.LexContext)
	assert.Equal(t, "<used>", x.DeclQual)

	greeter := find(t, tables, "ClassDef", "Greeter")
	greet := find(t, tables, "FunctionDef", "greet")
	assert.Equal(t, id(greeter), greet.LexContext)
	assert.Equal(t, id(greeter), greet.SemContext)
	assert.Empty(t, greet.DeclQual)

	find(t, tables, "Parameter", "self")
	assert.True(t, refersTo(tables, helper.ID))
	assert.Empty(t, bareRefs(tables))
}

func TestGrammar_Rust(t *testing.T) {
	src := `pub struct Counter {
    n: u32,
}

impl Counter {
    pub fn bump(&mut self) -> u32 {
        self.n += 1;
        self.n as u32
    }
}

fn helper() {}
`
	tables := export(t, parse(t, "counter.rs", src, LangRust))

	counter := find(t, tables, "StructItem", "Counter")
	assert.Equal(t, "<used>", counter.DeclQual)

	n := find(t, tables, "FieldDecl", "n")
	assert.Equal(t, "<u32>", n.Type)
	assert.Equal(t, "<hidden, used>", n.DeclQual)

	bump := find(t, tables, "FnItem", "bump")
	assert.Equal(t, "<fn(&mut self) -> u32>", bump.Type)
	assert.Empty(t, bump.DeclQual)
	assert.Equal(t, id(counter), bump.SemContext, "impl functions belong to the implementing type")
	assert.NotEqual(t, id(counter), bump.LexContext)
	assert.True(t, hasEdge(tables, bump.ID, counter.ID, graph.RelSemanticParent))

	assert.Equal(t, "<hidden>", find(t, tables, "FnItem", "helper").DeclQual)

	var casts []string
	for _, row := range tables.Nodes {
		if row.CastKind != "" {
			casts = append(casts, row.CastKind)
		}
	}
	assert.Equal(t, []string{"As"}, casts)
}

func TestGrammar_TypeScript(t *testing.T) {
	src := `export function add(a: number, b: number): number {
  return a + b;
}

function local(): void {}

const total = add(1, 2) as number;
`
	tables := export(t, parse(t, "add.ts", src, LangTypeScript))

	add := find(t, tables, "FunctionDeclaration", "add")
	assert.Equal(t, "<(a: number, b: number) => number>", add.Type)
	assert.Equal(t, "<used>", add.DeclQual)

	local := find(t, tables, "FunctionDeclaration", "local")
	assert.Equal(t, "<hidden>", local.DeclQual)

	total := find(t, tables, "VariableDeclaration", "total")
	assert.Equal(t, "<hidden>", total.DeclQual)

	a := find(t, tables, "Parameter", "a")
	assert.Equal(t, "<number>", a.Type)
	assert.Equal(t, "<used>", a.DeclQual)
	assert.Equal(t, id(add), a.LexContext)

	var casts []string
	for _, row := range tables.Nodes {
		if row.CastKind != "" {
			casts = append(casts, row.CastKind)
		}
	}
	assert.Equal(t, []string{"As"}, casts)
}
