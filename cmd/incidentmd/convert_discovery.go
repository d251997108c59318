package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/alnah/go-incidentmd/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .txt or .notes extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// MaxWorkers caps --workers.
const MaxWorkers = 32

const (
	reportExtension = ".md"
	htmlExtension   = ".html"
	stdinPath       = "-"
)

// notesExtensions are the inputs picked up from directories.
var notesExtensions = []string{".txt", ".notes"}

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Named      bool // OutputPath was given explicitly and is never renamed
}

// discoverFiles finds all notes files to convert.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateNotesExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath, Named: isReportPath(outputDir)}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.HasExtension(path, notesExtensions) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the report path for a notes file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	name := fileutil.ReplaceExtension(filepath.Base(inputPath), reportExtension)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name)
	}

	if isReportPath(outputDir) && baseInputDir == "" {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name)
		}
	}

	return filepath.Join(outputDir, name)
}

func isReportPath(path string) bool {
	return fileutil.HasExtension(path, []string{reportExtension})
}

// slugOutputPath renames a report to <date>-<title-slug>.md in the same
// directory. The path is kept when the title does not produce a slug.
func slugOutputPath(path, date, title string) string {
	if strings.TrimSpace(title) == "" {
		return path
	}
	name, err := slug.Normalize(strings.TrimSpace(date + " " + title))
	if err != nil || name == "" {
		return path
	}
	return filepath.Join(filepath.Dir(path), name+reportExtension)
}

// validateNotesExtension checks that the file has a notes extension.
func validateNotesExtension(path string) error {
	if !fileutil.HasExtension(path, notesExtensions) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, MaxWorkers)
	}
	return nil
}

// resolveWorkers determines the batch concurrency.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolveWorkers(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}

// htmlOutputPath returns the HTML preview path for a report path.
func htmlOutputPath(reportPath string) string {
	return fileutil.ReplaceExtension(reportPath, htmlExtension)
}
