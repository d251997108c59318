package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alnah/go-incidentmd"
	"github.com/alnah/go-incidentmd/internal/config"
	"github.com/alnah/go-incidentmd/internal/hints"
)

// stdinReportName is the report name used when stdin notes are written to
// a directory.
const stdinReportName = "incident" + reportExtension

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(env, flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags.preamble, flags.document, flags.out, cfg)

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	defer func() { _ = logger.Sync() }()

	conv, err := newConverter(cfg, logger, env.Now)
	if err != nil {
		return err
	}

	params, err := buildParams(flags.document, flags.out, cfg)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	if inputPath == stdinPath {
		return convertStdin(ctx, conv, params, flags, env)
	}

	files, err := discoverFiles(inputPath, resolveOutputDir(flags.out.output, cfg))
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s%s", ErrNoNotesFound, inputPath, hints.ForNoInputFiles(notesExtensions))
	}

	workers := resolveWorkers(flags.workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d file(s) with %d worker(s)\n", len(files), workers)
	}

	results := convertBatch(ctx, conv, files, params, workers)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}

	return nil
}

// convertStdin converts notes read from stdin. The report goes to --output
// when set, stdout otherwise; warnings go to stderr.
func convertStdin(ctx context.Context, conv CLIConverter, params *conversionParams, flags *convertFlags, env *Environment) error {
	data, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadNotes, err)
	}

	res, err := conv.Convert(ctx, params.inputFor(string(data)))
	if errors.Is(err, incidentmd.ErrInvalidInput) {
		return fmt.Errorf("%w%s", err, hints.ForEmptyInput())
	}
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		for _, w := range res.Warnings {
			fmt.Fprintf(env.Stderr, "warning: %s\n", w)
		}
	}

	if flags.out.output == "" {
		if params.preview != nil {
			fmt.Fprintln(env.Stderr, "warning: --html needs --output when reading stdin")
		}
		if flags.out.pretty {
			return renderPretty(env.Stdout, res.Document)
		}
		_, err := io.WriteString(env.Stdout, res.Document)
		return err
	}

	path := flags.out.output
	if !isReportPath(path) {
		path = filepath.Join(path, stdinReportName)
		if params.slug {
			path = slugOutputPath(path, res.Date, res.Title)
		}
	}
	if err := writeReport(path, res.Document); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}

	if params.preview != nil {
		htmlPath := htmlOutputPath(path)
		if err := writePreview(ctx, params, htmlPath, res.Document); err != nil {
			return err
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "Created %s\n", htmlPath)
		}
	}
	return nil
}

// resolveInputPath returns the positional input, then input.defaultDir.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns --output, then output.defaultDir.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
