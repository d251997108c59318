// Package sections classifies the lines of incident notes into the fixed
// set of report sections.
//
// Classification is header driven: a line naming a known section switches
// the active section, and every following line belongs to it until the next
// header. Content is never used to guess a section.
package sections

import (
	"strings"

	"github.com/alnah/go-incidentmd/internal/table"
)

// Key identifies one of the report sections. The set is closed.
type Key string

const (
	Issue          Key = "issue"
	Impact         Key = "impact"
	RootCause      Key = "rootCause"
	Fix            Key = "fix"
	Validation     Key = "validation"
	LessonsLearned Key = "lessonsLearned"
	Prevention     Key = "prevention"
	FinalNote      Key = "finalNote"
)

// order is the canonical output order.
var order = []Key{Issue, Impact, RootCause, Fix, Validation, LessonsLearned, Prevention, FinalNote}

var titles = map[Key]string{
	Issue:          "Issue",
	Impact:         "Impact",
	RootCause:      "Root Cause",
	Fix:            "Fix",
	Validation:     "Validation",
	LessonsLearned: "Lessons Learned",
	Prevention:     "Prevention",
	FinalNote:      "Final Note",
}

// Order returns the section keys in output order.
func Order() []Key {
	return append([]Key{}, order...)
}

// Title returns the heading text of the section.
func (k Key) Title() string { return titles[k] }

// Valid reports whether k belongs to the closed section set.
func (k Key) Valid() bool {
	_, ok := titles[k]
	return ok
}

// headerTable maps normalized header text to its section. It is never
// written after initialization.
var headerTable = map[string]Key{
	"issue":           Issue,
	"impact":          Impact,
	"root cause":      RootCause,
	"resolution":      Fix,
	"fix":             Fix,
	"validation":      Validation,
	"lesson learned":  LessonsLearned,
	"lessons learned": LessonsLearned,
	"prevention":      Prevention,
	"final note":      FinalNote,
	"final notes":     FinalNote,
}

// LookupHeader reports which section a line names, if any. The line is
// lower-cased, stripped of leading '#' marks and one trailing colon, and
// its inner whitespace is collapsed before comparison.
func LookupHeader(line string) (Key, bool) {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimSpace(strings.TrimLeft(s, "#"))
	s = strings.TrimSpace(strings.TrimSuffix(s, ":"))
	k, ok := headerTable[strings.Join(strings.Fields(s), " ")]
	return k, ok
}

// ItemKind distinguishes the entries collected for a section.
type ItemKind int

const (
	ItemLine  ItemKind = iota // one trimmed content line
	ItemTable                 // a recognized table
	ItemCode                  // a fenced code block, kept verbatim
)

// Item is one entry of a section.
type Item struct {
	Kind  ItemKind
	Text  string       // line text, or the whole fenced block
	Table *table.Table // set for ItemTable
}

// Line returns a content line item.
func Line(text string) Item { return Item{Kind: ItemLine, Text: text} }

// TableItem returns a table item.
func TableItem(t *table.Table) Item { return Item{Kind: ItemTable, Table: t} }

// Code returns a fenced code block item.
func Code(block string) Item { return Item{Kind: ItemCode, Text: block} }
