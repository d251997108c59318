package render

import (
	"regexp"
	"strings"

	"github.com/alnah/go-incidentmd/internal/sections"
)

// UntitledStep is the heading used for a step marker with no text.
const UntitledStep = "Untitled step"

var (
	// "STEP 2: Verify", "- Step 2) Verify", "## step 2 - verify", "STEP 3".
	// The separator must be followed by whitespace or end the line, so
	// "Step 5.3 of the runbook" and "Step 5:30" are prose.
	stepMarker = regexp.MustCompile(`(?i)^(?:[-*+]\s+|#+\s*)?step\s*\d+(?:\s*[:.)-](?:\s+(.*))?)?$`)
)

type fixState int

const (
	scanning fixState = iota // before the first step marker
	inStep                   // inside a step opened by a marker
)

func (s fixState) String() string {
	if s == inStep {
		return "IN_STEP"
	}
	return "SCANNING"
}

type fixEvent int

const (
	eventStep  fixEvent = iota // line carrying a step marker
	eventLine                  // any other content line
	eventBlock                 // table or code block
)

type transition struct {
	next fixState
	emit func(w *writer, it sections.Item)
}

// fixTransitions is the complete transition table. Lines outside a step stay
// bullets; only a step marker opens a heading; blocks are never headings.
var fixTransitions = map[fixState]map[fixEvent]transition{
	scanning: {
		eventStep:  {next: inStep, emit: emitHeading},
		eventLine:  {next: scanning, emit: emitBullet},
		eventBlock: {next: scanning, emit: emitBlock},
	},
	inStep: {
		eventStep:  {next: inStep, emit: emitHeading},
		eventLine:  {next: inStep, emit: emitBullet},
		eventBlock: {next: inStep, emit: emitBlock},
	},
}

// fixMachine renders the Fix section one item at a time.
type fixMachine struct {
	state fixState
	steps int
	w     writer
}

func (m *fixMachine) feed(it sections.Item) {
	ev := classifyFix(it)
	t := fixTransitions[m.state][ev]
	t.emit(&m.w, it)
	if ev == eventStep {
		m.steps++
	}
	m.state = t.next
}

// FixSteps renders the Fix section. "STEP n: title" lines become level-3
// headings carrying only the title; every other line becomes a bullet with
// its own list prefix removed; tables and code blocks are kept verbatim in
// the step they appear in.
func FixSteps(items []sections.Item) string {
	if len(items) == 0 {
		return PlaceholderFix
	}
	var m fixMachine
	for _, it := range items {
		m.feed(it)
	}
	return m.w.String()
}

func classifyFix(it sections.Item) fixEvent {
	switch {
	case it.Kind != sections.ItemLine:
		return eventBlock
	case stepMarker.MatchString(it.Text):
		return eventStep
	default:
		return eventLine
	}
}

// StepTitle returns the title of a step marker line, or false when the line
// is not a step marker.
func StepTitle(line string) (string, bool) {
	m := stepMarker.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	// "STEP 1: STEP 1: Open port" collapses to "Open port".
	for inner := stepMarker.FindStringSubmatch(title); inner != nil; inner = stepMarker.FindStringSubmatch(title) {
		title = strings.TrimSpace(inner[1])
	}
	if title == "" {
		title = UntitledStep
	}
	return title, true
}

func emitHeading(w *writer, it sections.Item) {
	title, _ := StepTitle(it.Text)
	w.heading("### " + title)
}

func emitBullet(w *writer, it sections.Item) {
	w.bullet("- " + stripListPrefix(it.Text))
}

func emitBlock(w *writer, it sections.Item) {
	w.block(blockText(it))
}
