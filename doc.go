// Package incidentmd turns raw incident notes into a structured Markdown
// report: a frontmatter block followed by a fixed set of sections.
//
// # Quick Start
//
// Create a converter and convert the notes:
//
//	conv, err := incidentmd.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := conv.Convert(ctx, incidentmd.Input{
//	    RawText: "ISSUE\nCustomer reported 502 errors.\n",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.md", []byte(res.Document), 0644)
//
// The result carries the document, the tags it was filed under and any
// warnings raised while structuring or validating it.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Frontmatter extraction (an optional leading "---" block)
//  2. Line classification into sections by header markers
//  3. Table recognition for tab or space aligned blocks
//  4. Section rendering (bullets, nested bullets, fix steps)
//  5. Metadata synthesis when no frontmatter was supplied
//  6. Assembly and structural validation
//
// Output sections always appear in this order: Issue, Impact, Root Cause,
// Fix, Validation, Lessons Learned, Prevention, and Final Note when the
// notes have one. Empty sections get a placeholder line.
//
// # Metadata
//
// Metadata supplied on Input, or found at the top of the notes, is written
// back verbatim. Nothing is inferred on top of it: a severity in the block
// stays exactly as written. Without metadata, the title and description
// come from the Issue section, the date from the clock and the tags from a
// keyword table.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := incidentmd.NewConverter(
//	    incidentmd.WithLogger(logger),
//	    incidentmd.WithDefaultCategory("Postmortem"),
//	    incidentmd.WithDateFormat("auto:DD/MM/YYYY"),
//	    incidentmd.WithPreamblePolicy(incidentmd.PreambleDiscard),
//	)
//
// # Errors
//
// Only unusable input fails a conversion: empty notes return
// ErrInvalidInput. Everything else degrades to less structure and is
// reported in Result.Warnings.
//
// # Concurrency
//
// A Converter is immutable after NewConverter and safe for concurrent use.
package incidentmd
