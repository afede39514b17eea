package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/marknum/internal/mdoc"
	"golang.org/x/net/html"
)

// imagePattern matches a standalone image reference: ![caption](src).
// The caption may be empty.
var imagePattern = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)`)

// ExtractFigures scans src line by line for image references and table
// caption comments (<!-- TABLE: caption -->), in document order.
func (p *Markdown) ExtractFigures(src []byte) []*mdoc.Figure {
	var figures []*mdoc.Figure
	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)

		if m := imagePattern.FindStringSubmatch(trimmed); m != nil {
			figures = append(figures, &mdoc.Figure{
				Kind:    mdoc.KindFigure,
				Caption: m[1],
				Source:  m[2],
				Line:    i + 1,
			})
			continue
		}

		if caption, ok := tableCaption(trimmed); ok {
			figures = append(figures, &mdoc.Figure{
				Kind:    mdoc.KindTable,
				Caption: caption,
				Line:    i + 1,
			})
		}
	}
	return figures
}

// tableCaption decodes a `<!-- TABLE: caption -->` marker. The comment body
// is recovered with the html tokenizer so whitespace variations inside the
// marker do not matter.
func tableCaption(line string) (string, bool) {
	if !strings.HasPrefix(line, "<!--") {
		return "", false
	}
	z := html.NewTokenizer(strings.NewReader(line))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.CommentToken:
			body := strings.TrimSpace(z.Token().Data)
			rest, ok := strings.CutPrefix(body, "TABLE")
			if !ok {
				continue
			}
			rest, ok = strings.CutPrefix(strings.TrimSpace(rest), ":")
			if !ok {
				continue
			}
			caption := strings.TrimSpace(rest)
			if caption == "" {
				continue
			}
			return caption, true
		}
	}
}
