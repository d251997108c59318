package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Sentinel errors for the watch command.
var (
	ErrNotDirectory    = errors.New("watch target must be a directory")
	ErrInvalidDebounce = errors.New("invalid debounce")
)

// notesWatcher reconverts notes files after they stop changing.
type notesWatcher struct {
	dir       string
	outputDir string
	debounce  time.Duration
	conv      CLIConverter
	params    *conversionParams
	logger    *zap.Logger
	env       *Environment
	quiet     bool
	verbose   bool
}

// runWatch converts notes in a directory whenever they are created or
// written, until ctx is canceled.
func runWatch(ctx context.Context, positionalArgs []string, flags *watchFlags, env *Environment) error {
	if flags.debounce <= 0 {
		return fmt.Errorf("%w: %v (must be positive)", ErrInvalidDebounce, flags.debounce)
	}

	cfg, err := loadConfig(env, flags.common.config)
	if err != nil {
		return err
	}
	mergeFlags(flags.preamble, flags.document, flags.out, cfg)

	dir, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

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

	w := &notesWatcher{
		dir:       dir,
		outputDir: resolveOutputDir(flags.out.output, cfg),
		debounce:  flags.debounce,
		conv:      conv,
		params:    params,
		logger:    logger,
		env:       env,
		quiet:     flags.common.quiet,
		verbose:   flags.common.verbose,
	}
	return w.run(ctx)
}

func (w *notesWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	if !w.quiet {
		fmt.Fprintf(w.env.Stdout, "Watching %s (Ctrl+C to stop)\n", w.dir)
	}

	d := newDebouncer(w.debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isNotesEvent(event) {
				continue
			}
			w.logger.Debug("notes changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			d.touch(event.Name)

		case fired := <-d.ready:
			if !d.accept(fired) {
				continue
			}
			w.convert(ctx, fired.name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// debounced is a quiet period that ended for name. gen tells a firing that
// was superseded by a later event apart from the current one.
type debounced struct {
	name string
	gen  uint64
}

type pendingPath struct {
	timer *time.Timer
	gen   uint64
}

// debouncer delays each path until it has been quiet for delay. Every touch
// starts a new generation, and only the latest generation of a path is
// accepted, so a timer that already fired while another event arrived never
// converts twice. touch and accept must be called from one goroutine.
type debouncer struct {
	delay   time.Duration
	ready   chan debounced
	done    chan struct{}
	pending map[string]*pendingPath
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		ready:   make(chan debounced),
		done:    make(chan struct{}),
		pending: make(map[string]*pendingPath),
	}
}

// touch restarts the quiet period for name.
func (d *debouncer) touch(name string) {
	p, ok := d.pending[name]
	if !ok {
		p = &pendingPath{}
		d.pending[name] = p
	} else {
		p.timer.Stop()
	}
	p.gen++
	fired := debounced{name: name, gen: p.gen}
	p.timer = time.AfterFunc(d.delay, func() {
		select {
		case d.ready <- fired:
		case <-d.done:
		}
	})
}

// accept reports whether fired is the latest generation for its path and
// forgets the path when it is.
func (d *debouncer) accept(fired debounced) bool {
	p, ok := d.pending[fired.name]
	if !ok || p.gen != fired.gen {
		return false
	}
	delete(d.pending, fired.name)
	return true
}

// stop cancels pending timers and releases firings blocked on ready.
func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
	close(d.done)
}

func (w *notesWatcher) convert(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// Removed or renamed before the quiet period ended.
		w.logger.Debug("skipping vanished notes", zap.String("path", path))
		return
	}
	f := FileToConvert{
		InputPath:  path,
		OutputPath: resolveOutputPath(path, w.outputDir, w.dir),
	}
	result := convertFile(ctx, w.conv, f, w.params)
	printResults([]ConversionResult{result}, w.quiet, w.verbose, w.env)
}

func isNotesEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return validateNotesExtension(event.Name) == nil
}
