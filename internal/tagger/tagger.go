// Package tagger derives frontmatter tags from incident text using a fixed
// keyword table.
package tagger

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

// PriorityTag is always listed first when it matches.
const PriorityTag = "Azure"

// PrefixMarker ends a keyword that matches any word starting with it, as in
// "throttl*" for throttled and throttling.
const PrefixMarker = "*"

// ErrInvalidRule indicates a rule without a tag or without keywords.
var ErrInvalidRule = errors.New("invalid tag rule")

//go:embed keywords.yaml
var defaultKeywords []byte

// Rule maps a tag to the keywords that trigger it.
type Rule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// defaultRules decodes the embedded table once.
var defaultRules = sync.OnceValues(func() ([]Rule, error) {
	var rules []Rule
	if err := yamlutil.UnmarshalStrict(defaultKeywords, &rules); err != nil {
		return nil, fmt.Errorf("decoding embedded keywords: %w", err)
	}
	return compile(rules)
})

// Tagger matches keywords against text. It is read-only after New and safe
// for concurrent use.
type Tagger struct {
	rules    []Rule
	matchers []*regexp.Regexp // one per rule
}

// New returns a Tagger over the embedded table followed by extra rules.
// An extra rule whose tag already exists adds its keywords to that tag.
func New(extra ...Rule) (*Tagger, error) {
	base, err := defaultRules()
	if err != nil {
		return nil, err
	}
	more, err := compile(extra)
	if err != nil {
		return nil, err
	}

	rules := make([]Rule, len(base), len(base)+len(more))
	copy(rules, base)
	for _, r := range more {
		if i := indexOf(rules, r.Tag); i >= 0 {
			kw := append(append([]string{}, rules[i].Keywords...), r.Keywords...)
			rules[i] = Rule{Tag: rules[i].Tag, Keywords: kw}
			continue
		}
		rules = append(rules, r)
	}

	matchers := make([]*regexp.Regexp, len(rules))
	for i, r := range rules {
		m, err := matcher(r.Keywords)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %q: %v", ErrInvalidRule, r.Tag, err)
		}
		matchers[i] = m
	}
	return &Tagger{rules: rules, matchers: matchers}, nil
}

// Default returns the Tagger over the embedded table only.
func Default() *Tagger {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

// ExtractTags returns the tags whose keywords occur in text, without
// duplicates, PriorityTag first and the rest in table order.
func (t *Tagger) ExtractTags(text string) []string {
	lower := strings.ToLower(text)
	tags := []string{}
	for i, r := range t.rules {
		if !t.matchers[i].MatchString(lower) {
			continue
		}
		if r.Tag == PriorityTag {
			tags = append([]string{r.Tag}, tags...)
			continue
		}
		tags = append(tags, r.Tag)
	}
	return tags
}

// Rules returns a copy of the rule table.
func (t *Tagger) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		out[i] = Rule{Tag: r.Tag, Keywords: append([]string{}, r.Keywords...)}
	}
	return out
}

// compile validates rules and lower-cases their keywords.
func compile(rules []Rule) ([]Rule, error) {
	out := make([]Rule, 0, len(rules))
	for i, r := range rules {
		tag := strings.TrimSpace(r.Tag)
		if tag == "" {
			return nil, fmt.Errorf("%w: rule %d has no tag", ErrInvalidRule, i)
		}
		var kw []string
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		if len(kw) == 0 {
			return nil, fmt.Errorf("%w: tag %q has no keywords", ErrInvalidRule, tag)
		}
		out = append(out, Rule{Tag: tag, Keywords: kw})
	}
	return out, nil
}

func indexOf(rules []Rule, tag string) int {
	for i, r := range rules {
		if strings.EqualFold(r.Tag, tag) {
			return i
		}
	}
	return -1
}

// matcher builds one pattern matching any of the keywords as whole words.
// A plain keyword also matches its plural ("pod" finds "pods"); a keyword
// ending in PrefixMarker matches any word it starts. Word boundaries are
// only required next to word characters, so "ci/cd" and ".net" work.
func matcher(keywords []string) (*regexp.Regexp, error) {
	alts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		prefix := strings.HasSuffix(k, PrefixMarker)
		stem := strings.TrimSuffix(k, PrefixMarker)
		if stem == "" {
			return nil, fmt.Errorf("keyword %q has no text", k)
		}
		k = stem

		var b strings.Builder
		if isWordByte(k[0]) {
			b.WriteString(`\b`)
		}
		b.WriteString(regexp.QuoteMeta(k))
		switch {
		case prefix:
			b.WriteString(`\w*`)
		case isWordByte(k[len(k)-1]):
			b.WriteString(`s?\b`)
		}
		alts = append(alts, b.String())
	}
	return regexp.Compile(strings.Join(alts, "|"))
}

func isWordByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}
