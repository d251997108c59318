package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-incidentmd"
	"github.com/alnah/go-incidentmd/internal/assets"
	"github.com/alnah/go-incidentmd/internal/config"
	"github.com/alnah/go-incidentmd/internal/hints"
	"github.com/alnah/go-incidentmd/internal/preview"
)

// ErrReadMetadata is returned when the --meta file cannot be read.
var ErrReadMetadata = errors.New("failed to read metadata file")

// conversionParams groups parameters shared across batch, stdin and watch
// conversion.
type conversionParams struct {
	input   incidentmd.Input      // every field but RawText
	slug    bool                  // name outputs after date and title
	preview preview.HTMLConverter // nil unless --html
}

// inputFor returns the shared input carrying raw.
func (p *conversionParams) inputFor(raw string) incidentmd.Input {
	in := p.input
	in.RawText = raw
	return in
}

// loadConfig loads the named config, or the defaults when no name is given
// by flag or environment.
func loadConfig(env *Environment, flagValue string) (*config.Config, error) {
	name := env.configName(flagValue)
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
	case errors.Is(err, config.ErrInvalidConfig):
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForInvalidConfig())
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(preamble string, doc documentFlags, out outputFlags, cfg *config.Config) {
	if preamble != "" {
		cfg.Parser.Preamble = preamble
	}
	if doc.category != "" {
		cfg.Document.Category = doc.category
	}
	if out.slug {
		cfg.Output.SlugFilenames = true
	}
}

// newConverter builds the library converter from the merged config.
func newConverter(cfg *config.Config, logger *zap.Logger, now func() time.Time) (*incidentmd.Converter, error) {
	rules := make([]incidentmd.KeywordRule, len(cfg.Tags.Keywords))
	for i, r := range cfg.Tags.Keywords {
		rules[i] = incidentmd.KeywordRule{Tag: r.Tag, Keywords: r.Keywords}
	}

	return incidentmd.NewConverter(
		incidentmd.WithLogger(logger),
		incidentmd.WithClock(now),
		incidentmd.WithDefaultCategory(cfg.Document.Category),
		incidentmd.WithDateFormat(cfg.Document.DateFormat),
		incidentmd.WithFallbackTitle(cfg.Document.FallbackTitle),
		incidentmd.WithPreamblePolicy(incidentmd.PreamblePolicy(cfg.Parser.Preamble)),
		incidentmd.WithMinBodyLength(cfg.Validation.MinBodyLength),
		incidentmd.WithExtraKeywords(rules...),
	)
}

// buildParams reads the --meta file and prepares the HTML preview.
func buildParams(doc documentFlags, out outputFlags, cfg *config.Config) (*conversionParams, error) {
	p := &conversionParams{
		input: incidentmd.Input{
			Title:    doc.title,
			Category: doc.category,
			Severity: doc.severity,
		},
		slug: cfg.Output.SlugFilenames,
	}

	if doc.meta != "" {
		data, err := os.ReadFile(doc.meta) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadMetadata, err)
		}
		meta, err := incidentmd.ParseMetadata(data)
		if err != nil {
			return nil, err
		}
		p.input.Metadata = meta
	}

	if out.html {
		conv, err := preview.NewGoldmarkConverter(assets.NewEmbeddedLoader(), assets.DefaultStyle)
		if err != nil {
			return nil, fmt.Errorf("preparing HTML preview: %w", err)
		}
		p.preview = conv
	}

	return p, nil
}
