// Package validate checks the structure of a finished report: its
// frontmatter block, required keys, code fences and body length.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-incidentmd/internal/dateutil"
	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

// DefaultMinBodyLength is the body text length, in runes, under which a
// report is flagged as thin.
const DefaultMinBodyLength = 200

// RequiredKeys must be present in every report frontmatter.
var RequiredKeys = []string{"title", "description", "date", "tags"}

var (
	// Opening or closing code fence
	fenceLine = regexp.MustCompile("^\\s*(```|~~~)")
)

// yamlFormat splits "---" delimited blocks and decodes them with go-yaml.
var yamlFormat = frontmatter.NewFormat("---", "---", decodeYAML)

func decodeYAML(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return yamlutil.Unmarshal(data, v)
}

// Report is the outcome of Validate. Valid is true when Errors is empty.
type Report struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validator checks finished reports. It is safe for concurrent use.
type Validator struct {
	minBodyLength int
	md            goldmark.Markdown
}

// New returns a Validator. A non-positive minBodyLength disables the body
// length warning.
func New(minBodyLength int) *Validator {
	return &Validator{
		minBodyLength: minBodyLength,
		md:            goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Validate inspects doc and reports every problem found. It never fails.
func (v *Validator) Validate(doc string) Report {
	var rep Report

	meta := map[string]any{}
	body, err := frontmatter.MustParse(strings.NewReader(doc), &meta, yamlFormat)
	switch {
	case errors.Is(err, frontmatter.ErrNotFound):
		rep.errorf("missing frontmatter block")
		body = []byte(doc)
	case err != nil:
		rep.errorf("invalid frontmatter YAML: %v", err)
		body = nil
	default:
		checkMetadata(&rep, meta)
	}

	checkFences(&rep, string(body))
	if v.minBodyLength > 0 {
		if n := v.bodyLength(body); n < v.minBodyLength {
			rep.warnf("body text is short: %d characters (minimum %d)", n, v.minBodyLength)
		}
	}

	rep.Valid = len(rep.Errors) == 0
	return rep
}

func checkMetadata(rep *Report, meta map[string]any) {
	for _, key := range RequiredKeys {
		if _, ok := meta[key]; !ok {
			rep.errorf("missing required frontmatter key %q", key)
		}
	}

	if raw, ok := meta["date"]; ok && !validDate(raw) {
		rep.errorf("date %v is not YYYY-MM-DD or RFC 3339", raw)
	}
	if raw, ok := meta["tags"]; ok && !stringList(raw) {
		rep.errorf("tags must be a list of strings")
	}
	if _, ok := meta["category"]; !ok {
		rep.warnf("missing frontmatter key %q", "category")
	}
}

func validDate(raw any) bool {
	switch d := raw.(type) {
	case time.Time:
		return true
	case string:
		_, err := dateutil.ParseDate(d)
		return err == nil
	default:
		return false
	}
}

func stringList(raw any) bool {
	items, ok := raw.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

// checkFences reports unbalanced fences, and lines outside fences whose
// backtick count is odd.
func checkFences(rep *Report, body string) {
	open := ""
	openLine := 0
	for i, line := range strings.Split(body, "\n") {
		if m := fenceLine.FindStringSubmatch(line); m != nil {
			switch {
			case open == "":
				open, openLine = m[1], i+1
			case m[1] == open:
				open = ""
			}
			continue
		}
		if open == "" && strings.Count(line, "`")%2 == 1 {
			rep.warnf("line %d: unclosed inline code span", i+1)
		}
	}
	if open != "" {
		rep.errorf("code fence opened on body line %d is never closed", openLine)
	}
}

// bodyLength counts the runes of rendered text in body, ignoring markup.
func (v *Validator) bodyLength(body []byte) int {
	doc := v.md.Parser().Parse(text.NewReader(body))
	n := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			n += utf8.RuneCount(t.Segment.Value(body))
		case *ast.String:
			n += utf8.RuneCount(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return n
}
