package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-incidentmd"
	"github.com/alnah/go-incidentmd/internal/fileutil"
	"github.com/alnah/go-incidentmd/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrNoNotesFound = errors.New("no notes files found")
	ErrReadNotes    = errors.New("failed to read notes file")
	ErrWriteReport  = errors.New("failed to write report")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input incidentmd.Input) (*incidentmd.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*incidentmd.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	HTMLPath   string
	Warnings   []string
	Err        error
	Duration   time.Duration
}

// convertBatch converts files with at most workers conversions in flight.
// One failed file does not stop the others.
func convertBatch(ctx context.Context, conv CLIConverter, files []FileToConvert, params *conversionParams, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = convertFile(ctx, conv, f, params)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadNotes, err))
	}

	res, err := conv.Convert(ctx, params.inputFor(string(content)))
	if errors.Is(err, incidentmd.ErrInvalidInput) {
		return fail(fmt.Errorf("%w%s", err, hints.ForEmptyInput()))
	}
	if err != nil {
		return fail(err)
	}
	result.Warnings = res.Warnings

	if params.slug && !f.Named {
		result.OutputPath = slugOutputPath(f.OutputPath, res.Date, res.Title)
	}

	if err := writeReport(result.OutputPath, res.Document); err != nil {
		return fail(err)
	}

	if params.preview != nil {
		result.HTMLPath = htmlOutputPath(result.OutputPath)
		if err := writePreview(ctx, params, result.HTMLPath, res.Document); err != nil {
			return fail(err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// writeReport creates the parent directory and writes doc atomically.
func writeReport(path, doc string) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteReport, err, hints.ForOutputDirectory())
	}
	if err := fileutil.WriteFileAtomic(path, []byte(doc), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	return nil
}

func writePreview(ctx context.Context, params *conversionParams, path, doc string) error {
	page, err := params.preview.ToHTML(ctx, doc)
	if err != nil {
		return fmt.Errorf("rendering HTML preview: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(page), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteReport, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Warnings += len(r.Warnings)
	}
	return summary
}

// printResults outputs conversion results using the environment writers.
// Returns the number of failed conversions.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "warning: %s: %s\n", r.InputPath, w)
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.HTMLPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.HTMLPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
