package graph

import (
	"strconv"
	"strings"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// LocationEncoder prints source positions the way a diagnostic printer does:
// the filename and line are dropped when they repeat the previous position.
// The output therefore depends on what was encoded before.
type LocationEncoder struct {
	lastFile string
	lastLine int
}

// Encode prints p relative to the previously encoded position.
func (le *LocationEncoder) Encode(p frontend.Position) string {
	if !p.IsValid() {
		return invalidLoc
	}

	var sb strings.Builder
	switch {
	case p.Filename != le.lastFile:
		sb.WriteString(p.Filename)
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Line))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Column))
		le.lastFile = p.Filename
		le.lastLine = p.Line
	case p.Line != le.lastLine:
		sb.WriteString("line:")
		sb.WriteString(strconv.Itoa(p.Line))
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(p.Column))
		le.lastLine = p.Line
	default:
		sb.WriteString("col:")
		sb.WriteString(strconv.Itoa(p.Column))
	}
	return sb.String()
}

// EncodeRange prints <begin, end>, or <begin> when both ends coincide.
func (le *LocationEncoder) EncodeRange(r frontend.Range) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(le.Encode(r.Begin))
	if r.Begin != r.End {
		sb.WriteString(", ")
		sb.WriteString(le.Encode(r.End))
	}
	sb.WriteByte('>')
	return sb.String()
}

// Reset forgets the remembered position.
func (le *LocationEncoder) Reset() {
	le.lastFile = ""
	le.lastLine = 0
}
