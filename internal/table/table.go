// Package table recognizes tabular runs of lines in incident notes and
// renders them as pipe tables.
package table

import (
	"regexp"
	"strings"
)

// MaxWidthVariance is the largest accepted difference between the widest and
// narrowest row of a candidate block, measured before padding.
const MaxWidthVariance = 1

// spaceRun separates columns in space-aligned text.
var spaceRun = regexp.MustCompile(` {2,}`)

// Table is a rectangular grid. Rows[0] is the header row.
type Table struct {
	Rows [][]string
}

// Header returns the first row.
func (t *Table) Header() []string { return t.Rows[0] }

// Data returns the rows after the header.
func (t *Table) Data() [][]string { return t.Rows[1:] }

// Width returns the column count shared by every row.
func (t *Table) Width() int { return len(t.Rows[0]) }

// Recognize decides whether lines form a table. Two delimiter families are
// tried in order: tabs when every line has one, then runs of two or more
// spaces when every line has one. The block is accepted when it has at least
// two lines, every row has at least two cells, and row widths differ by at
// most MaxWidthVariance. Short rows are padded with empty cells; rows are
// never reordered.
func Recognize(lines []string) (*Table, bool) {
	if len(lines) < 2 {
		return nil, false
	}

	var split func(string) []string
	switch {
	case all(lines, func(l string) bool { return strings.Contains(l, "\t") }):
		split = splitTabs
	case all(lines, spaceRun.MatchString):
		split = splitSpaces
	default:
		return nil, false
	}

	rows := make([][]string, len(lines))
	minWidth, maxWidth := -1, 0
	for i, line := range lines {
		rows[i] = split(line)
		w := len(rows[i])
		if minWidth == -1 || w < minWidth {
			minWidth = w
		}
		if w > maxWidth {
			maxWidth = w
		}
	}

	if minWidth < 2 || maxWidth-minWidth > MaxWidthVariance {
		return nil, false
	}

	for i, row := range rows {
		for len(row) < maxWidth {
			row = append(row, "")
		}
		rows[i] = row
	}

	return &Table{Rows: rows}, true
}

// splitTabs splits on tabs, trims cells and drops empty trailing cells.
func splitTabs(line string) []string {
	cells := strings.Split(line, "\t")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// splitSpaces splits on runs of two or more spaces and drops empty cells.
func splitSpaces(line string) []string {
	parts := spaceRun.Split(line, -1)
	cells := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

func all(lines []string, pred func(string) bool) bool {
	for _, l := range lines {
		if !pred(l) {
			return false
		}
	}
	return true
}

// Markdown renders the table as a pipe table: header row, a "---" separator
// per column, then data rows, each cell padded by one space on each side.
func (t *Table) Markdown() string {
	var b strings.Builder
	writeRow(&b, t.Header())

	sep := make([]string, t.Width())
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteByte('\n')
	writeRow(&b, sep)

	for _, row := range t.Data() {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteByte('|')
	for _, c := range cells {
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
}
