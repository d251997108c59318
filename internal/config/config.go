package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-incidentmd/internal/dateutil"
	"github.com/alnah/go-incidentmd/internal/fileutil"
	"github.com/alnah/go-incidentmd/internal/synth"
	"github.com/alnah/go-incidentmd/internal/validate"
	"github.com/alnah/go-incidentmd/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-incidentmd"

// Preamble policies accepted by parser.preamble.
const (
	PreambleIssue   = "issue"
	PreambleDiscard = "discard"
)

// Field length limits.
const (
	MaxCategoryLength = 100
	MaxTitleLength    = 200
	MaxTagLength      = 50
	MaxKeywordLength  = 100
	MaxKeywordRules   = 200
	MaxPathLength     = 4096
	MaxBodyLength     = 100_000
)

// Config holds all configuration for report generation.
type Config struct {
	Document   DocumentConfig   `yaml:"document"`
	Parser     ParserConfig     `yaml:"parser"`
	Validation ValidationConfig `yaml:"validation"`
	Tags       TagsConfig       `yaml:"tags"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
}

// DocumentConfig sets the defaults used when frontmatter is synthesized.
type DocumentConfig struct {
	Category      string `yaml:"category"`      // Used when no category is given
	DateFormat    string `yaml:"dateFormat"`    // "auto", "auto:FORMAT" or a fixed value
	FallbackTitle string `yaml:"fallbackTitle"` // Used when Issue is empty
}

// ParserConfig controls classification.
type ParserConfig struct {
	Preamble string `yaml:"preamble"` // "issue" or "discard"
}

// ValidationConfig tunes the structural checks run on each report.
type ValidationConfig struct {
	MinBodyLength int `yaml:"minBodyLength"` // 0 disables the short-body warning
}

// TagsConfig adds keyword rules on top of the built-in table.
type TagsConfig struct {
	Keywords []KeywordRule `yaml:"keywords"`
}

// KeywordRule maps a tag to its trigger keywords.
type KeywordRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir    string `yaml:"defaultDir"`    // Default output directory (empty = same as source)
	SlugFilenames bool   `yaml:"slugFilenames"` // Name outputs <date>-<slug>.md
}

// Validate checks every section. Called automatically by LoadConfig, but
// available for callers who build a Config by hand.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Document),
		validation.Field(&c.Parser),
		validation.Field(&c.Validation),
		validation.Field(&c.Tags),
		validation.Field(&c.Input),
		validation.Field(&c.Output),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (d DocumentConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Category, validation.Length(0, MaxCategoryLength)),
		validation.Field(&d.FallbackTitle, validation.Length(0, MaxTitleLength)),
		validation.Field(&d.DateFormat,
			validation.Length(0, dateutil.MaxDateFormatLength+len("auto:")),
			validation.By(checkDateFormat)),
	)
}

func (p ParserConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Preamble, validation.In(PreambleIssue, PreambleDiscard)),
	)
}

func (v ValidationConfig) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.MinBodyLength, validation.Min(0), validation.Max(MaxBodyLength)),
	)
}

func (t TagsConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Keywords, validation.Length(0, MaxKeywordRules)),
	)
}

func (k KeywordRule) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.Tag, validation.Required, validation.Length(1, MaxTagLength)),
		validation.Field(&k.Keywords, validation.Required,
			validation.Each(validation.Required, validation.Length(1, MaxKeywordLength))),
	)
}

func (i InputConfig) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.DefaultDir, validation.Length(0, MaxPathLength)),
	)
}

// checkDateFormat rejects "auto" values that cannot be resolved.
func checkDateFormat(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := dateutil.ResolveDate(s, time.Time{}); err != nil {
		return validation.NewError("validation_date_format", err.Error())
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Category:      synth.DefaultCategory,
			DateFormat:    "auto",
			FallbackTitle: synth.FallbackTitle,
		},
		Parser:     ParserConfig{Preamble: PreambleIssue},
		Validation: ValidationConfig{MinBodyLength: validate.DefaultMinBodyLength},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory first, then ~/.config/go-incidentmd/.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
