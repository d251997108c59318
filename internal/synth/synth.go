// Package synth builds report frontmatter when the notes carry none.
package synth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-incidentmd/internal/frontmatter"
	"github.com/alnah/go-incidentmd/internal/sections"
)

// Limits and fallbacks for synthesized fields.
const (
	MaxTitleRunes       = 80
	MaxDescriptionRunes = 150
	DescriptionEllipsis = "..."

	FallbackTitle       = "Incident Report"
	FallbackDescription = "Incident report generated from raw notes."
	DefaultCategory     = "Incident Report"
)

// Frontmatter keys, in emission order.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyDate        = "date"
	KeyTags        = "tags"
	KeyCategory    = "category"
	KeySeverity    = "severity"
)

var listPrefix = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)

// Request carries everything needed to synthesize a block.
type Request struct {
	Issue    string   // Issue section text
	Title    string   // caller title, wins over the Issue sentence
	Category string   // caller category
	Severity string   // emitted only when set
	Date     string   // already resolved
	Tags     []string // tagger output

	FallbackTitle   string // used when Title and Issue are empty
	DefaultCategory string // used when Category is empty
}

// Synthesize returns title, description, date, tags, category and, when
// supplied, severity. Severity is never inferred.
func Synthesize(req Request) frontmatter.Metadata {
	fallback := firstNonEmpty(req.FallbackTitle, FallbackTitle)
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = Title(req.Issue, fallback)
	}

	fields := []frontmatter.Field{
		{Key: KeyTitle, Value: frontmatter.String(title)},
		{Key: KeyDescription, Value: frontmatter.String(Description(req.Issue))},
		{Key: KeyDate, Value: frontmatter.String(req.Date)},
		{Key: KeyTags, Value: frontmatter.List(req.Tags...)},
		{Key: KeyCategory, Value: frontmatter.String(firstNonEmpty(req.Category, req.DefaultCategory, DefaultCategory))},
	}
	if sev := strings.TrimSpace(req.Severity); sev != "" {
		fields = append(fields, frontmatter.Field{Key: KeySeverity, Value: frontmatter.String(sev)})
	}
	return frontmatter.New(fields...)
}

// IssueText joins the content lines of the Issue section with spaces,
// dropping list prefixes. Tables and code blocks are skipped.
func IssueText(items []sections.Item) string {
	var parts []string
	for _, it := range items {
		if it.Kind != sections.ItemLine {
			continue
		}
		if s := strings.TrimSpace(listPrefix.ReplaceAllString(it.Text, "")); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// Title returns the first sentence of text without its terminator, cut to
// MaxTitleRunes, or fallback when text has no content.
func Title(text, fallback string) string {
	s := Sentences(text)
	if len(s) == 0 {
		return fallback
	}
	title := strings.TrimRight(s[0], ".!?")
	title = strings.TrimSpace(truncateRunes(title, MaxTitleRunes))
	if title == "" {
		return fallback
	}
	return title
}

// Description returns the first one or two sentences of text. Longer than
// MaxDescriptionRunes, it is cut and ends with DescriptionEllipsis.
func Description(text string) string {
	s := Sentences(text)
	if len(s) == 0 {
		return FallbackDescription
	}
	if len(s) > 2 {
		s = s[:2]
	}
	desc := strings.Join(s, " ")
	if utf8.RuneCountInString(desc) > MaxDescriptionRunes {
		keep := MaxDescriptionRunes - utf8.RuneCountInString(DescriptionEllipsis)
		desc = strings.TrimSpace(truncateRunes(desc, keep)) + DescriptionEllipsis
	}
	return desc
}

// Sentences splits text at '.', '!' or '?' followed by whitespace or the end
// of text. Terminators stay with their sentence; text without a terminator
// is one sentence.
func Sentences(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	var out []string
	start := 0
	for i, r := range runes {
		if !isTerminator(r) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			out = append(out, s)
		}
		start = i + 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
