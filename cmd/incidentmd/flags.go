package main

import (
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// defaultDebounce groups the burst of write events an editor emits on save.
const defaultDebounce = 300 * time.Millisecond

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds metadata flags applied when the notes carry none.
type documentFlags struct {
	title    string
	category string
	severity string
	meta     string // YAML file written verbatim as frontmatter
}

// outputFlags holds output mode flags.
type outputFlags struct {
	output string
	slug   bool // name outputs <date>-<slug>.md
	html   bool // write an HTML preview next to each report
	pretty bool // render reports written to stdout for the terminal
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common   commonFlags
	workers  int
	preamble string
	document documentFlags
	out      outputFlags
}

// watchFlags holds all flags for the watch command.
type watchFlags struct {
	common   commonFlags
	preamble string
	debounce time.Duration
	document documentFlags
	out      outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addDocumentFlags adds metadata flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVar(&f.title, "title", "", "report title (\"\" = first Issue sentence)")
	fs.StringVar(&f.category, "category", "", "report category")
	fs.StringVar(&f.severity, "severity", "", "report severity (never inferred)")
	fs.StringVar(&f.meta, "meta", "", "YAML file used verbatim as frontmatter")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.slug, "slug", false, "name outputs <date>-<title-slug>.md")
	fs.BoolVar(&f.html, "html", false, "write an HTML preview alongside each report")
	fs.BoolVar(&f.pretty, "pretty", false, "render stdout output for the terminal")
}

// registerConvertFlags registers every convert flag on fs.
func registerConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.preamble, "preamble", "", "text before the first header: issue, discard")
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addOutputFlags(fs, &f.out)
}

// registerWatchFlags registers every watch flag on fs.
func registerWatchFlags(fs *flag.FlagSet, f *watchFlags) {
	fs.StringVar(&f.preamble, "preamble", "", "text before the first header: issue, discard")
	fs.DurationVar(&f.debounce, "debounce", defaultDebounce, "quiet period before reconverting a file")
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addOutputFlags(fs, &f.out)
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &convertFlags{}
	registerConvertFlags(fs, f)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string, usage io.Writer) (*watchFlags, []string, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(usage)
	f := &watchFlags{}
	registerWatchFlags(fs, f)
	fs.Usage = func() { printWatchUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
