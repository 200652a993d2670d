// Package treesitter is a syntax-only front-end. It parses single source
// files with tree-sitter grammars and exposes the result as a
// frontend.Unit. Without a type checker, references are resolved by name
// within the file and expression types are not reported.
package treesitter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a grammar.
type Language string

const (
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangGo         Language = "go"
	LangPython     Language = "python"
	LangRust       Language = "rust"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

var extensions = map[string]Language{
	".c":   LangC,
	".h":   LangC,
	".cc":  LangCPP,
	".cpp": LangCPP,
	".cxx": LangCPP,
	".c++": LangCPP,
	".hh":  LangCPP,
	".hpp": LangCPP,
	".hxx": LangCPP,
	".go":  LangGo,
	".py":  LangPython,
	".pyi": LangPython,
	".rs":  LangRust,
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

// DetectLanguage picks a grammar from the file extension.
func DetectLanguage(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// ParseLanguage accepts a language name or one of its common aliases.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return LangC, nil
	case "cpp", "c++", "cxx":
		return LangCPP, nil
	case "go", "golang":
		return LangGo, nil
	case "python", "py":
		return LangPython, nil
	case "rust", "rs":
		return LangRust, nil
	case "typescript", "ts":
		return LangTypeScript, nil
	case "tsx":
		return LangTSX, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Extensions returns the file extensions mapped to lang, sorted.
func Extensions(lang Language) []string {
	var out []string
	for ext, l := range extensions {
		if l == lang {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}
