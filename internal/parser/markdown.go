// Package parser extracts the heading and figure records that numbering
// operates on. Headings come from the goldmark AST; figures and table
// caption markers come from a line-oriented scan of the raw source.
package parser

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dgallion1/marknum/internal/mdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown extracts records from Markdown source.
type Markdown struct {
	// Excluded lists heading substrings that exempt a heading from
	// numbering. Matching is plain substring containment.
	Excluded []string
}

// SupportedExtensions lists file extensions this tool processes.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// IsSupportedExtension checks if a filename is a Markdown file.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// ExtractHeadings parses src and returns heading records in document order.
func (p *Markdown) ExtractHeadings(src []byte) ([]*mdoc.Heading, error) {
	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	starts := lineStarts(src)

	var headings []*mdoc.Heading
	walkErr := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := string(h.Text(src))

		line := 0
		if h.Lines().Len() > 0 {
			line = lineAt(starts, h.Lines().At(0).Start)
		}

		rec, err := mdoc.NewHeading(h.Level, title, line, p.isExcluded(title))
		if err != nil {
			return ast.WalkStop, err
		}
		headings = append(headings, rec)

		// Heading inlines were already flattened into title.
		return ast.WalkSkipChildren, nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return headings, nil
}

func (p *Markdown) isExcluded(title string) bool {
	for _, sub := range p.Excluded {
		if sub != "" && strings.Contains(title, sub) {
			return true
		}
	}
	return false
}

// lineStarts returns the byte offset of the start of each line.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineAt converts a byte offset into a 1-based line number.
func lineAt(starts []int, offset int) int {
	// First index whose line starts after offset; the line itself is the
	// one before it.
	i := sort.SearchInts(starts, offset+1)
	return i
}
