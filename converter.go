package incidentmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-incidentmd/internal/dateutil"
	"github.com/alnah/go-incidentmd/internal/frontmatter"
	"github.com/alnah/go-incidentmd/internal/render"
	"github.com/alnah/go-incidentmd/internal/sections"
	"github.com/alnah/go-incidentmd/internal/synth"
	"github.com/alnah/go-incidentmd/internal/tagger"
	"github.com/alnah/go-incidentmd/internal/validate"
)

// Converter orchestrates the notes-to-report pipeline.
// Create with NewConverter and use Convert for each document.
type Converter struct {
	cfg       converterConfig
	logger    *zap.Logger
	tagger    Tagger
	validator Validator
}

// NewConverter creates a Converter with default configuration.
// Returns ErrInvalidOption when an option value cannot be used.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			now:             time.Now,
			defaultCategory: synth.DefaultCategory,
			dateFormat:      defaultDateFormat,
			fallbackTitle:   synth.FallbackTitle,
			preamble:        PreambleIssue,
			minBodyLength:   validate.DefaultMinBodyLength,
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.preamble.Validate(); err != nil {
		return nil, err
	}
	c.cfg.preamble = PreamblePolicy(strings.ToLower(string(c.cfg.preamble)))

	if _, err := dateutil.ResolveDate(c.cfg.dateFormat, c.cfg.now()); err != nil {
		return nil, fmt.Errorf("%w: date format: %v", ErrInvalidOption, err)
	}
	if c.cfg.minBodyLength < 0 {
		return nil, fmt.Errorf("%w: minimum body length %d is negative", ErrInvalidOption, c.cfg.minBodyLength)
	}

	if c.tagger == nil {
		t, err := tagger.New(c.cfg.extraKeywords...)
		if err != nil {
			return nil, fmt.Errorf("%w: keywords: %v", ErrInvalidOption, err)
		}
		c.tagger = t
	}
	if c.validator == nil {
		c.validator = structuralValidator{v: validate.New(c.cfg.minBodyLength)}
	}

	return c, nil
}

// Convert structures input.RawText into a report.
// Returns ErrInvalidInput when the notes are empty or whitespace only.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.RawText) == "" {
		return nil, fmt.Errorf("%w: notes are empty", ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var warnings []string
	text := sections.NormalizeLineEndings(input.RawText)

	extracted, body, found := frontmatter.Extract(text)
	if found && extracted.IsEmpty() {
		warnings = append(warnings, "empty frontmatter block ignored")
	}

	parsed := sections.Parse(body)
	c.logger.Debug("classified notes",
		zap.Int("headers", parsed.Stats.Headers),
		zap.Int("tables", parsed.Stats.Tables),
		zap.Int("code_blocks", parsed.Stats.CodeBlocks),
		zap.Int("lines", parsed.Stats.Lines),
	)
	if parsed.Stats.Headers == 0 {
		warnings = append(warnings, "no section headers found")
	}
	warnings = append(warnings, c.applyPreamble(parsed)...)

	meta, metaWarnings, err := c.metadata(input, extracted, body, parsed)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, metaWarnings...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := assemble(meta, parsed)

	report := c.validator.Validate(doc)
	for _, e := range report.Errors {
		warnings = append(warnings, "validation error: "+e)
	}
	for _, w := range report.Warnings {
		warnings = append(warnings, "validation warning: "+w)
	}

	res := &Result{
		Document: doc,
		Tags:     tagsOf(meta),
		Warnings: warnings,
		Title:    scalarOf(meta, synth.KeyTitle),
		Date:     scalarOf(meta, synth.KeyDate),
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res, nil
}

// applyPreamble handles content found before the first header.
func (c *Converter) applyPreamble(parsed *sections.Parsed) []string {
	if len(parsed.Preamble) == 0 {
		return nil
	}
	var msg string
	switch c.cfg.preamble {
	case PreambleDiscard:
		n := parsed.DiscardPreamble()
		msg = fmt.Sprintf("discarded %d item(s) before the first section header", n)
	default:
		n := parsed.AttachPreamble(sections.Issue)
		msg = fmt.Sprintf("moved %d item(s) before the first section header into %s", n, sections.Issue.Title())
	}
	c.logger.Warn("preamble content", zap.String("policy", string(c.cfg.preamble)), zap.String("detail", msg))
	return []string{msg}
}

// metadata picks the block to write: caller metadata, then extracted
// metadata, then a synthesized block.
func (c *Converter) metadata(input Input, extracted Metadata, body string, parsed *sections.Parsed) (Metadata, []string, error) {
	supplied := input.Metadata
	if supplied.IsEmpty() {
		supplied = extracted
	}
	if !supplied.IsEmpty() {
		var warnings []string
		if input.Title != "" || input.Category != "" || input.Severity != "" {
			warnings = append(warnings, "title, category and severity inputs ignored: metadata supplied")
		}
		return supplied, warnings, nil
	}

	date, err := dateutil.ResolveDate(c.cfg.dateFormat, c.cfg.now())
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("resolving date: %w", err)
	}

	tags := c.tagger.ExtractTags(body)
	c.logger.Debug("synthesized metadata", zap.Strings("tags", tags), zap.String("date", date))

	return synth.Synthesize(synth.Request{
		Issue:           synth.IssueText(parsed.Items(sections.Issue)),
		Title:           input.Title,
		Category:        input.Category,
		Severity:        input.Severity,
		Date:            date,
		Tags:            tags,
		FallbackTitle:   c.cfg.fallbackTitle,
		DefaultCategory: c.cfg.defaultCategory,
	}), nil, nil
}

// assemble writes the metadata block followed by every section in order.
// Final Note is written only when it has content.
func assemble(meta Metadata, parsed *sections.Parsed) string {
	var b strings.Builder
	b.WriteString(meta.Format())
	for _, k := range sections.Order() {
		if k == sections.FinalNote && parsed.Len(k) == 0 {
			continue
		}
		b.WriteString("\n## ")
		b.WriteString(k.Title())
		b.WriteString("\n\n")
		b.WriteString(render.Section(k, parsed.Items(k)))
		b.WriteByte('\n')
	}
	return b.String()
}

func tagsOf(meta Metadata) []string {
	v, ok := meta.Get(synth.KeyTags)
	if !ok {
		return []string{}
	}
	if v.IsList() {
		return v.Items()
	}
	if s := v.Scalar(); s != "" {
		return []string{s}
	}
	return []string{}
}

func scalarOf(meta Metadata, key string) string {
	if v, ok := meta.Get(key); ok && !v.IsList() {
		return v.Scalar()
	}
	return ""
}
