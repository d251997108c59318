// Package render turns classified section items into Markdown bodies.
package render

import (
	"regexp"
	"strings"

	"github.com/alnah/go-incidentmd/internal/sections"
)

// Placeholders for sections without items.
const (
	PlaceholderDefault    = "(No data captured in incident notes.)"
	PlaceholderPrevention = "(No prevention measures captured in incident notes.)"
	PlaceholderFix        = "(No fix steps captured in incident notes.)"
)

var (
	// Bullet ("- ", "* ", "+ ") or ordered ("1. ", "1) ") list prefix
	listPrefix = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
)

// Section renders the items of section k. Fix uses the step renderer; every
// other section uses the bullet renderer.
func Section(k sections.Key, items []sections.Item) string {
	switch {
	case k == sections.Fix:
		return FixSteps(items)
	case len(items) == 0 && k == sections.Prevention:
		return PlaceholderPrevention
	case len(items) == 0:
		return PlaceholderDefault
	}
	return Bullets(items)
}

// Bullets renders items as a bullet list. Lines that already carry a list
// prefix are kept as they are, tables and code blocks are emitted verbatim,
// and a hierarchy marker ("Symptoms:" followed by plain lines) becomes a
// parent bullet with the following lines nested beneath it.
func Bullets(items []sections.Item) string {
	var w writer
	inGroup := false

	for i, it := range items {
		if it.Kind != sections.ItemLine {
			inGroup = false
			w.block(blockText(it))
			continue
		}

		text := it.Text
		switch {
		case isMarker(items, i):
			inGroup = true
			w.bullet("- " + text)
		case inGroup && !markerShaped(text):
			w.bullet(nested(text))
		default:
			inGroup = false
			w.bullet(bulletize(text))
		}
	}

	return w.String()
}

// isMarker reports whether items[i] opens a nested group: a plain line ending
// in a colon, directly followed by a plain line that is not itself marker
// shaped.
func isMarker(items []sections.Item, i int) bool {
	if !markerShaped(items[i].Text) || i+1 >= len(items) {
		return false
	}
	next := items[i+1]
	return next.Kind == sections.ItemLine && !markerShaped(next.Text)
}

func markerShaped(text string) bool {
	return len(text) > 1 && strings.HasSuffix(text, ":") && !isListLine(text)
}

func isListLine(text string) bool {
	return listPrefix.MatchString(text)
}

func bulletize(text string) string {
	if isListLine(text) {
		return text
	}
	return "- " + text
}

func nested(text string) string {
	return "  " + bulletize(text)
}

// stripListPrefix removes one leading bullet or number prefix.
func stripListPrefix(text string) string {
	return listPrefix.ReplaceAllString(text, "")
}

func blockText(it sections.Item) string {
	if it.Kind == sections.ItemTable {
		return it.Table.Markdown()
	}
	return it.Text
}

// ---------------------------------------------------------------------------
// writer
// ---------------------------------------------------------------------------

type segment int

const (
	segNone segment = iota
	segBullet
	segHeading
	segBlock
)

// writer joins rendered pieces. Consecutive bullets share a line break; any
// other transition gets a blank line so tables, code and headings never sit
// directly against a list.
type writer struct {
	b    strings.Builder
	last segment
}

func (w *writer) bullet(s string) {
	switch w.last {
	case segNone:
	case segBullet:
		w.b.WriteByte('\n')
	default:
		w.b.WriteString("\n\n")
	}
	w.b.WriteString(s)
	w.last = segBullet
}

func (w *writer) heading(s string) { w.standalone(s, segHeading) }

func (w *writer) block(s string) { w.standalone(s, segBlock) }

func (w *writer) standalone(s string, seg segment) {
	if w.last != segNone {
		w.b.WriteString("\n\n")
	}
	w.b.WriteString(strings.TrimRight(s, "\n"))
	w.last = seg
}

func (w *writer) String() string { return w.b.String() }
