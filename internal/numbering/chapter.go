// Package numbering implements the chapter numbering engine and the
// figure/section scoping engine. All state is per-document and passed in
// explicitly; a batch run must create fresh state for every file.
package numbering

import (
	"strconv"
	"strings"

	"github.com/dgallion1/marknum/internal/mdoc"
)

// State holds the hierarchical counters for one document, one entry per
// open depth.
type State struct {
	counters []int
}

// NewState returns empty counters for a new document.
func NewState() *State { return &State{} }

// NumberHeadings assigns dotted chapter numbers to every non-excluded
// heading, in document order. Excluded headings neither advance a counter
// nor receive a number.
func NumberHeadings(headings []*mdoc.Heading, st *State) {
	for _, h := range headings {
		if h.Excluded {
			continue
		}
		st.advance(h.Level)
		h.Number = st.render(h.Level)
	}
}

// advance moves the counters to the next number at the given depth:
// extend with zeros when the heading is deeper than anything seen, truncate
// when it is shallower (a shallower heading invalidates all deeper
// history), then increment the counter at its own depth.
func (s *State) advance(level int) {
	for len(s.counters) < level {
		s.counters = append(s.counters, 0)
	}
	if len(s.counters) > level {
		s.counters = s.counters[:level]
	}
	s.counters[level-1]++
}

// render joins the counters with dots. Zero entries are skipped; they only
// occur when a heading level was jumped over (e.g. a level-3 heading before
// any level-2 heading in the current chapter).
func (s *State) render(level int) string {
	parts := make([]string, 0, level)
	for _, n := range s.counters[:level] {
		if n > 0 {
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, ".")
}
