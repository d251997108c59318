package sections

import (
	"regexp"
	"strings"

	"github.com/alnah/go-incidentmd/internal/table"
)

var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^\\s*(```|~~~)")
)

// Stats counts what the classifier saw.
type Stats struct {
	Headers    int
	Tables     int
	CodeBlocks int
	Lines      int
}

// Parsed holds the items collected per section for one run. Preamble holds
// content found before the first recognized header; what happens to it is
// the caller's decision.
type Parsed struct {
	sections map[Key][]Item
	Preamble []Item
	Stats    Stats
}

// Items returns the items of section k in input order.
func (p *Parsed) Items(k Key) []Item {
	return p.sections[k]
}

// Len returns the number of items in section k.
func (p *Parsed) Len(k Key) int {
	return len(p.sections[k])
}

// AttachPreamble moves the preamble items to the front of section k and
// returns how many were moved.
func (p *Parsed) AttachPreamble(k Key) int {
	n := len(p.Preamble)
	if n == 0 {
		return 0
	}
	p.sections[k] = append(append([]Item{}, p.Preamble...), p.sections[k]...)
	p.Preamble = nil
	return n
}

// DiscardPreamble drops the preamble items and returns how many were dropped.
func (p *Parsed) DiscardPreamble() int {
	n := len(p.Preamble)
	p.Preamble = nil
	return n
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// scanner walks the body lines once, left to right.
type scanner struct {
	lines   []string
	pos     int
	current Key
	active  bool
	out     *Parsed
}

// rule is one classification step. Rules are tried in order and the first
// match consumes at least one line.
type rule struct {
	name  string
	match func(line string) bool
	apply func(s *scanner)
}

// rules is the fixed classification order: blank lines are skipped, code
// fences are taken whole, headers switch sections, and anything else starts
// a content block.
var rules = []rule{
	{name: "blank", match: isBlank, apply: (*scanner).skip},
	{name: "fence", match: isFence, apply: (*scanner).consumeFence},
	{name: "header", match: isHeader, apply: (*scanner).switchSection},
	{name: "block", match: func(string) bool { return true }, apply: (*scanner).consumeBlock},
}

// Parse classifies body text into sections.
func Parse(body string) *Parsed {
	s := &scanner{
		lines: strings.Split(NormalizeLineEndings(body), "\n"),
		out:   &Parsed{sections: make(map[Key][]Item, len(order))},
	}

	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		for _, r := range rules {
			if r.match(line) {
				r.apply(s)
				break
			}
		}
	}

	return s.out
}

func (s *scanner) add(item Item) {
	if !s.active {
		s.out.Preamble = append(s.out.Preamble, item)
		return
	}
	s.out.sections[s.current] = append(s.out.sections[s.current], item)
}

func (s *scanner) skip() { s.pos++ }

func (s *scanner) switchSection() {
	k, _ := LookupHeader(s.lines[s.pos])
	s.current, s.active = k, true
	s.out.Stats.Headers++
	s.pos++
}

// consumeFence takes everything up to the matching closing fence, or to the
// end of input when the fence is never closed.
func (s *scanner) consumeFence() {
	marker := fencedCodeBlock.FindStringSubmatch(s.lines[s.pos])[1]
	start := s.pos
	s.pos++
	for s.pos < len(s.lines) {
		closing := strings.HasPrefix(strings.TrimSpace(s.lines[s.pos]), marker)
		s.pos++
		if closing {
			break
		}
	}
	s.add(Code(strings.Join(s.lines[start:s.pos], "\n")))
	s.out.Stats.CodeBlocks++
}

// consumeBlock gathers the run of non-blank, non-header lines starting at
// the current line and offers it to the table recognizer. A rejected block
// is added line by line.
func (s *scanner) consumeBlock() {
	var block []string
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		if len(block) > 0 && (isBlank(line) || isFence(line) || isHeader(line)) {
			break
		}
		block = append(block, line)
		s.pos++
	}

	if t, ok := table.Recognize(block); ok {
		s.add(TableItem(t))
		s.out.Stats.Tables++
		return
	}
	for _, line := range block {
		s.add(Line(strings.TrimSpace(line)))
		s.out.Stats.Lines++
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isFence(line string) bool {
	return fencedCodeBlock.MatchString(line)
}

func isHeader(line string) bool {
	_, ok := LookupHeader(line)
	return ok
}
