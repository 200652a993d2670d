package treesitter

import (
	"context"
	"fmt"
	"os"
	"sort"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Parser turns source files into units. A new tree-sitter parser is created
// per Parse call and the tree is released before Parse returns, so Parse may
// be called from several goroutines at once.
type Parser struct {
	languages map[Language]*tree_sitter.Language
	grammars  map[Language]*grammar
}

// NewParser creates a Parser with every supported grammar registered.
func NewParser() *Parser {
	langs := map[Language]*tree_sitter.Language{
		LangC:          tree_sitter.NewLanguage(tree_sitter_c.Language()),
		LangCPP:        tree_sitter.NewLanguage(tree_sitter_cpp.Language()),
		LangGo:         tree_sitter.NewLanguage(tree_sitter_go.Language()),
		LangPython:     tree_sitter.NewLanguage(tree_sitter_python.Language()),
		LangRust:       tree_sitter.NewLanguage(tree_sitter_rust.Language()),
		LangTypeScript: tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		LangTSX:        tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}

	grammars := map[Language]*grammar{
		LangC:          cGrammar,
		LangCPP:        cppGrammar,
		LangGo:         goGrammar,
		LangPython:     pyGrammar,
		LangRust:       rsGrammar,
		LangTypeScript: tsGrammar,
		LangTSX:        tsGrammar,
	}

	return &Parser{
		languages: langs,
		grammars:  grammars,
	}
}

// Parse builds a unit from source. path names the unit and is used in every
// location it reports.
func (p *Parser) Parse(ctx context.Context, path string, source []byte, lang Language) (*Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tsLang, ok := p.languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	g := p.grammars[lang]

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(tsLang); err != nil {
		return nil, fmt.Errorf("set language %s: %w", lang, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	return build(path, lang, g, tree.RootNode(), source), nil
}

// ParseFile reads path and parses it with the grammar its extension selects.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Unit, error) {
	lang, ok := DetectLanguage(path)
	if !ok {
		return nil, fmt.Errorf("no grammar for %s", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, path, source, lang)
}

// SupportedLanguages returns the languages this parser can handle, sorted.
func (p *Parser) SupportedLanguages() []Language {
	langs := make([]Language, 0, len(p.languages))
	for l := range p.languages {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Close is a no-op because parsers are created per Parse call.
func (p *Parser) Close() error {
	return nil
}
