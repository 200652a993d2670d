package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

type builder struct {
	u      *Unit
	g      *grammar
	src    []byte
	module string
	// owned holds the ids of identifier nodes that name a declaration.
	owned map[uintptr]bool
}

type frame struct {
	n      *tree_sitter.Node
	parent *elem
}

func build(path string, lang Language, g *grammar, root *tree_sitter.Node, src []byte) *Unit {
	u := &Unit{
		path:   path,
		lang:   lang,
		byName: make(map[string][]declared),
	}
	b := &builder{u: u, g: g, src: src, owned: make(map[uintptr]bool)}
	if g.module != nil {
		b.module = g.module(root, src)
	}

	tu := &tuDecl{path: path}
	tu.kind = "TranslationUnit"
	tu.rng = b.span(root)
	tu.ctx = true
	tu.u = u
	tu.loc = frontend.Position{Filename: path, Line: 1, Column: 1}
	tu.invalid = root.HasError()
	u.root = tu
	u.elements = 1

	// Explicit stack; nesting depth follows the source.
	var stack []frame
	stack = b.push(stack, root, &tu.elem)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		e := b.element(f.n, f.parent)
		next := f.parent
		if e != nil {
			b.attach(f.parent, e)
			u.elements++
			next = e.base()
			if _, ok := e.(*literal); ok {
				continue
			}
		}
		stack = b.push(stack, f.n, next)
	}

	for _, r := range u.refs {
		if d := u.resolve(r.name, r.start); d != nil {
			r.target = d
			d.declBase().uses++
		}
	}
	return u
}

// push queues the named children of n so that they pop in document order.
func (b *builder) push(stack []frame, n *tree_sitter.Node, parent *elem) []frame {
	for i := n.NamedChildCount(); i > 0; i-- {
		stack = append(stack, frame{n: n.NamedChild(i - 1), parent: parent})
	}
	return stack
}

func (b *builder) attach(parent *elem, e element) {
	el := e.base()
	el.parent = parent
	parent.kids = append(parent.kids, e)
}

// element classifies n. A nil result means n is transparent: its children
// attach to the enclosing element.
func (b *builder) element(n *tree_sitter.Node, parent *elem) element {
	kind := n.Kind()
	switch {
	case n.IsError():
		b.u.errors++
		return nil
	case n.IsMissing():
		return nil
	}

	if spec, ok := b.g.decls[kind]; ok && (spec.match == nil || spec.match(n)) {
		return b.decl(n, parent, spec)
	}

	if b.g.refs[kind] {
		if b.owned[n.Id()] {
			return nil
		}
		if b.g.identDecl != nil {
			if dk := b.g.identDecl(n); dk != "" {
				return b.decl(n, parent, declSpec{kind: dk, name: self})
			}
		}
		r := &ref{name: text(n, b.src)}
		b.fill(&r.elem, n)
		b.u.refs = append(b.u.refs, r)
		return r
	}

	if ck := b.g.castKind(n, b.src); ck != "" {
		c := &cast{castKind: ck}
		b.fill(&c.elem, n)
		return c
	}

	switch {
	case b.g.literals[kind]:
		l := &literal{value: text(n, b.src)}
		b.fill(&l.elem, n)
		return l
	case b.g.isStmt(kind):
		s := &stmt{}
		b.fill(&s.elem, n)
		return s
	case b.g.isExpr(kind):
		e := &expr{}
		b.fill(&e.elem, n)
		return e
	}
	return nil
}

func self(n *tree_sitter.Node) *tree_sitter.Node { return n }

func (b *builder) decl(n *tree_sitter.Node, parent *elem, spec declSpec) element {
	kind := spec.kind
	if spec.kindOf != nil {
		if k := spec.kindOf(n); k != "" {
			kind = k
		}
	}

	var nameNode *tree_sitter.Node
	if spec.name != nil {
		nameNode = spec.name(n)
	}

	base := decl{
		u:       b.u,
		lex:     lexical(parent),
		invalid: n.HasError(),
	}
	top := base.lex == &b.u.root.elem
	if top {
		base.module = b.module
	}
	base.kind = kind
	base.rng = b.span(n)
	base.start = n.StartByte()
	base.ctx = spec.ctx
	base.loc = base.rng.Begin
	if nameNode != nil {
		base.loc = b.pos(nameNode.StartPosition())
	}
	if b.g.constexpr != nil {
		base.constexpr = b.g.constexpr(n, b.src)
	}
	if b.g.owner != nil {
		base.owner = b.g.owner(n, b.src)
	}

	var name string
	if nameNode != nil {
		b.owned[nameNode.Id()] = true
		name = text(nameNode, b.src)
	}
	if b.g.hidden != nil {
		base.hidden = b.g.hidden(n, b.src, name, top)
	}
	if nameNode == nil {
		return &base
	}

	var d declared
	if spec.typ != nil {
		if t := spec.typ(n, b.src); t != "" {
			d = &valueDecl{namedDecl: namedDecl{decl: base, name: name}, typ: t}
		}
	}
	if d == nil {
		d = &namedDecl{decl: base, name: name}
	}
	b.u.byName[name] = append(b.u.byName[name], d)
	return d.(element)
}

func (b *builder) fill(e *elem, n *tree_sitter.Node) {
	e.kind = n.Kind()
	e.rng = b.span(n)
	e.start = n.StartByte()
}

func (b *builder) pos(p tree_sitter.Point) frontend.Position {
	return frontend.Position{Filename: b.u.path, Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

// span converts the half-open node extent to a closed range.
func (b *builder) span(n *tree_sitter.Node) frontend.Range {
	end := n.EndPosition()
	col := int(end.Column)
	if col == 0 {
		col = 1
	}
	return frontend.Range{
		Begin: b.pos(n.StartPosition()),
		End:   frontend.Position{Filename: b.u.path, Line: int(end.Row) + 1, Column: col},
	}
}
