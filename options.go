package incidentmd

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	now             func() time.Time
	defaultCategory string
	dateFormat      string
	fallbackTitle   string
	preamble        PreamblePolicy
	minBodyLength   int
	extraKeywords   []KeywordRule
}

// defaultDateFormat resolves to today's date as YYYY-MM-DD.
const defaultDateFormat = "auto"

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithClock sets the time source used for synthesized dates.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("incidentmd: WithClock requires a non-nil function")
	}
	return func(c *Converter) {
		c.cfg.now = now
	}
}

// WithDefaultCategory sets the category used when the caller gives none.
func WithDefaultCategory(category string) Option {
	return func(c *Converter) {
		c.cfg.defaultCategory = category
	}
}

// WithDateFormat sets the date value for synthesized metadata: "auto",
// "auto:FORMAT", "auto:preset" or a fixed string.
func WithDateFormat(format string) Option {
	return func(c *Converter) {
		c.cfg.dateFormat = format
	}
}

// WithFallbackTitle sets the title used when neither the caller nor the
// Issue section provides one.
func WithFallbackTitle(title string) Option {
	return func(c *Converter) {
		c.cfg.fallbackTitle = title
	}
}

// WithPreamblePolicy sets what happens to notes before the first header.
func WithPreamblePolicy(p PreamblePolicy) Option {
	return func(c *Converter) {
		c.cfg.preamble = p
	}
}

// WithTagger replaces the keyword tagger. WithExtraKeywords is ignored
// when a tagger is set.
func WithTagger(t Tagger) Option {
	return func(c *Converter) {
		c.tagger = t
	}
}

// WithValidator replaces the structural validator. WithMinBodyLength is
// ignored when a validator is set.
func WithValidator(v Validator) Option {
	return func(c *Converter) {
		c.validator = v
	}
}

// WithMinBodyLength sets the body length below which the validator warns.
// Zero disables the check.
func WithMinBodyLength(n int) Option {
	return func(c *Converter) {
		c.cfg.minBodyLength = n
	}
}

// WithExtraKeywords adds tag rules after the built-in keyword table.
// A rule for an existing tag extends its keywords.
func WithExtraKeywords(rules ...KeywordRule) Option {
	return func(c *Converter) {
		c.cfg.extraKeywords = append(c.cfg.extraKeywords, rules...)
	}
}
