package numbering

import (
	"sort"

	"github.com/dgallion1/marknum/internal/mdoc"
)

// DefaultAnchorLevel is the heading depth figures are scoped to when the
// configuration does not say otherwise: level 2, one below chapter.
const DefaultAnchorLevel = 2

// defaultScope is used when a document has no anchor-level heading at all.
const defaultScope = "1.1"

// ScopeCounters tracks the per-(scope, kind) sequence counters for one
// document.
type ScopeCounters struct {
	counts map[scopeKey]int
}

type scopeKey struct {
	scope string
	kind  mdoc.FigureKind
}

// NewScopeCounters returns empty counters for a new document.
func NewScopeCounters() *ScopeCounters {
	return &ScopeCounters{counts: make(map[scopeKey]int)}
}

func (c *ScopeCounters) next(scope string, kind mdoc.FigureKind) int {
	k := scopeKey{scope: scope, kind: kind}
	c.counts[k]++
	return c.counts[k]
}

// AssignFigureNumbers gives each figure the dotted number of its governing
// section and a 1-based sequence within that section, counted independently
// per kind. The governing section is the last non-excluded heading at
// anchorLevel at or before the figure's line; a figure before any such
// heading falls back to the document's first anchor-level heading, and a
// document without one uses a fixed default scope. Headings must already
// be numbered.
func AssignFigureNumbers(figures []*mdoc.Figure, headings []*mdoc.Heading, anchorLevel int, sc *ScopeCounters) {
	if anchorLevel <= 0 {
		anchorLevel = DefaultAnchorLevel
	}

	var anchors []*mdoc.Heading
	for _, h := range headings {
		if !h.Excluded && h.Number != "" && h.Level == anchorLevel {
			anchors = append(anchors, h)
		}
	}
	// Heading extraction yields document order, but the index below depends
	// on it.
	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Line < anchors[j].Line })

	fallback := defaultScope
	if len(anchors) > 0 {
		fallback = anchors[0].Number
	}

	// Sequence numbers within a scope must be monotonic in document order
	// regardless of how kinds interleave.
	ordered := make([]*mdoc.Figure, len(figures))
	copy(ordered, figures)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Line < ordered[j].Line })

	for _, f := range ordered {
		f.Scope = governingSection(anchors, f.Line, fallback)
		f.Seq = sc.next(f.Scope, f.Kind)
	}
}

// governingSection returns the number of the last anchor heading at or
// before line, or fallback if none precedes it.
func governingSection(anchors []*mdoc.Heading, line int, fallback string) string {
	// First anchor strictly after line; the governing one is just before it.
	i := sort.Search(len(anchors), func(i int) bool { return anchors[i].Line > line })
	if i == 0 {
		return fallback
	}
	return anchors[i-1].Number
}
