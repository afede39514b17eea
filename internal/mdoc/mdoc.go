// Package mdoc holds the per-document record types shared by the parser,
// the numbering engines, and the rewriter. Records are created once per
// detected node, mutated once when a number is assigned, and discarded
// after the document is rewritten.
package mdoc

import "fmt"

// FigureKind distinguishes images from captioned tables.
type FigureKind int

const (
	KindFigure FigureKind = iota
	KindTable
)

func (k FigureKind) String() string {
	switch k {
	case KindFigure:
		return "figure"
	case KindTable:
		return "table"
	}
	return fmt.Sprintf("FigureKind(%d)", int(k))
}

// Heading is one heading in document order.
type Heading struct {
	Level    int    // 1-6
	Text     string // display text (inline content, markup stripped)
	Line     int    // 1-based source line number, 0 if unknown
	Excluded bool   // excluded headings are never numbered
	Number   string // dotted chapter number, empty until assigned
}

// NewHeading builds a heading record. Levels outside the standard Markdown
// depth range 1-6 are rejected here rather than surfacing later as a
// malformed number.
func NewHeading(level int, text string, line int, excluded bool) (*Heading, error) {
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("heading level %d out of range 1-6", level)
	}
	return &Heading{Level: level, Text: text, Line: line, Excluded: excluded}, nil
}

// Figure is one image reference or table caption marker in document order.
type Figure struct {
	Kind    FigureKind
	Caption string
	Source  string // image target; empty for tables
	Line    int    // 1-based source line number
	Scope   string // governing section number, empty until assigned
	Seq     int    // 1-based sequence within (Scope, Kind), 0 until assigned
}

// Numbered reports whether the figure has been assigned a scope and
// sequence. Scope and Seq are always set together.
func (f *Figure) Numbered() bool { return f.Seq > 0 }
