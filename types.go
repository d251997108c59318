package incidentmd

import (
	"fmt"
	"strings"

	"github.com/alnah/go-incidentmd/internal/frontmatter"
	"github.com/alnah/go-incidentmd/internal/sections"
	"github.com/alnah/go-incidentmd/internal/tagger"
	"github.com/alnah/go-incidentmd/internal/validate"
	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

// Metadata is an ordered list of frontmatter fields. Values are immutable:
// With returns a new Metadata.
type Metadata = frontmatter.Metadata

// Field is one key and its value.
type Field = frontmatter.Field

// Value is a string scalar, a literal scalar or a string list.
type Value = frontmatter.Value

// NewMetadata builds Metadata from fields in order.
func NewMetadata(fields ...Field) Metadata { return frontmatter.New(fields...) }

// String returns a scalar written back double-quoted.
func String(s string) Value { return frontmatter.String(s) }

// Literal returns a scalar written back bare, such as true or 3.
func Literal(s string) Value { return frontmatter.Literal(s) }

// List returns a string list value.
func List(items ...string) Value { return frontmatter.List(items...) }

// ParseMetadata decodes a YAML mapping into Metadata, keeping key order.
// Nested values are flattened to their string form.
func ParseMetadata(data []byte) (Metadata, error) {
	kvs, err := yamlutil.UnmarshalOrdered(data)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: metadata: %v", ErrInvalidInput, err)
	}
	return frontmatter.FromYAML(kvs), nil
}

// Input contains conversion parameters.
type Input struct {
	RawText  string   // Incident notes (required)
	Title    string   // Title when no metadata is present (optional)
	Category string   // Category when no metadata is present (optional)
	Severity string   // Severity when no metadata is present (optional)
	Metadata Metadata // Written verbatim when non-empty (optional)
}

// Result is the output of a conversion.
type Result struct {
	Document string   // Frontmatter and sections, ending in a newline
	Tags     []string // Tags written to the frontmatter
	Warnings []string // Structuring and validation findings
	Title    string   // Title written to the frontmatter
	Date     string   // Date written to the frontmatter
}

// PreamblePolicy decides what happens to notes written before the first
// section header.
type PreamblePolicy string

// Preamble policies.
const (
	PreambleIssue   PreamblePolicy = "issue"   // prepend to the Issue section
	PreambleDiscard PreamblePolicy = "discard" // drop with a warning
)

// Validate checks that p names a known policy.
func (p PreamblePolicy) Validate() error {
	switch PreamblePolicy(strings.ToLower(string(p))) {
	case PreambleIssue, PreambleDiscard:
		return nil
	default:
		return fmt.Errorf("%w: preamble policy %q (must be issue or discard)", ErrInvalidOption, p)
	}
}

// KeywordRule maps a tag to keywords that trigger it.
type KeywordRule = tagger.Rule

// Tagger derives tags from note text.
type Tagger interface {
	ExtractTags(text string) []string
}

// Report holds validator findings.
type Report struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validator checks a finished document.
type Validator interface {
	Validate(document string) Report
}

// structuralValidator adapts the internal validator to Validator.
type structuralValidator struct {
	v *validate.Validator
}

func (s structuralValidator) Validate(document string) Report {
	r := s.v.Validate(document)
	return Report{Valid: r.Valid, Errors: r.Errors, Warnings: r.Warnings}
}

// Compile-time interface implementation checks.
var (
	_ Tagger    = (*tagger.Tagger)(nil)
	_ Validator = structuralValidator{}
)

// SectionTitles returns the output section headings in document order.
func SectionTitles() []string {
	keys := sections.Order()
	titles := make([]string, len(keys))
	for i, k := range keys {
		titles[i] = k.Title()
	}
	return titles
}
