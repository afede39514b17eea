// Package rewrite embeds assigned numbers back into the original document
// text. The output is built in a single forward pass over the source lines,
// each line emitted unchanged or replaced according to the records keyed to
// it; the text is never re-scanned after a replacement.
package rewrite

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/dgallion1/marknum/internal/mdoc"
)

// Format controls the visible labels embedded in rewritten captions.
type Format struct {
	FigureLabel string // e.g. "Figure"
	TableLabel  string // e.g. "Table"
}

// DefaultFormat returns the standard English labels.
func DefaultFormat() Format {
	return Format{FigureLabel: "Figure", TableLabel: "Table"}
}

func (f Format) label(kind mdoc.FigureKind) string {
	if kind == mdoc.KindTable {
		return f.TableLabel
	}
	return f.FigureLabel
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})(\s+)(.*)$`)
	imageLine      = regexp.MustCompile(`^(\s*)!\[([^\]]*)\]\(([^)]+)\)(.*)$`)
)

// Document applies the assigned numbers to src. Non-excluded headings get
// their number prefixed to the title; image alt text is rewritten to a
// labeled caption with a visible bold caption line added below the image;
// table caption comments become visible bold caption lines. A record whose
// source line no longer matches the expected pattern is skipped with a
// warning, never an error; the skipped count is returned alongside the
// rewritten text.
func Document(src string, headings []*mdoc.Heading, figures []*mdoc.Figure, format Format, log *slog.Logger) (string, int) {
	headingAt := make(map[int]*mdoc.Heading, len(headings))
	for _, h := range headings {
		if !h.Excluded && h.Number != "" && h.Line > 0 {
			headingAt[h.Line] = h
		}
	}
	figureAt := make(map[int]*mdoc.Figure, len(figures))
	for _, f := range figures {
		if f.Numbered() && f.Line > 0 {
			figureAt[f.Line] = f
		}
	}

	lines := strings.Split(src, "\n")
	var b strings.Builder
	b.Grow(len(src) + 16*len(headingAt) + 64*len(figureAt))

	skipped := 0
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		n := i + 1
		var ok bool
		switch {
		case headingAt[n] != nil:
			line, ok = numberHeadingLine(line, headingAt[n])
			if !ok {
				skipped++
				log.Warn("heading line no longer matches, left unnumbered",
					"line", n, "heading", headingAt[n].Text)
			}
		case figureAt[n] != nil:
			line, ok = numberFigureLine(line, figureAt[n], format)
			if !ok {
				skipped++
				log.Warn("figure line no longer matches, left unnumbered",
					"line", n, "caption", figureAt[n].Caption)
			}
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String(), skipped
}

// numberHeadingLine inserts "{number}. " after the heading marker. The
// marker depth on the line must agree with the extracted level.
func numberHeadingLine(line string, h *mdoc.Heading) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil || len(m[1]) != h.Level {
		return line, false
	}
	return m[1] + m[2] + h.Number + ". " + m[3], true
}

func numberFigureLine(line string, f *mdoc.Figure, format Format) (string, bool) {
	caption := fmt.Sprintf("%s %s.%d: %s", format.label(f.Kind), f.Scope, f.Seq, f.Caption)

	switch f.Kind {
	case mdoc.KindFigure:
		m := imageLine.FindStringSubmatch(line)
		if m == nil {
			return line, false
		}
		img := fmt.Sprintf("%s![%s](%s)%s", m[1], caption, m[3], m[4])
		return img + "\n\n" + m[1] + "**" + caption + "**", true
	case mdoc.KindTable:
		return "**" + caption + "**", true
	}
	return line, false
}
