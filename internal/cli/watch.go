package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/sensescan/internal/config"
	"github.com/yildizm/sensescan/internal/logger"
	"github.com/yildizm/sensescan/internal/scan"
	"github.com/yildizm/sensescan/internal/selector"
)

func newWatchCommand() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Rescan a file whenever it changes",
		Long: `Scan a file, then scan it again every time it is written.

Uses file system notifications to detect changes. Bursts of writes are
debounced (watch.debounce in the config) and at most one request is in flight;
changes made during a scan trigger exactly one more scan afterwards.
Press Ctrl+C to stop watching.`,
		Example: `  sensescan watch customers.csv
  sensescan watch export.json --output json --output-file latest.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "output", "o", "", formatFlagUsage())
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "rewrite this file with every new report")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "include the text preview returned by the service")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts scanOptions) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if err := validateFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	svc, err := newServiceClient(cfg)
	if err != nil {
		return err
	}

	watcher, err := createWatcher(path)
	if err != nil {
		return err
	}
	defer cleanupWatcher(watcher)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	log.Info("watching %s, press Ctrl+C to stop", path)

	errOut := cmd.ErrOrStderr()
	controller := scan.NewController(svc, selector.New(),
		scan.WithLogger(log.WithComponent("scan")),
		scan.WithNotifier(scan.NotifierFunc(func(msg string) {
			fmt.Fprintln(errOut, GetEmoji("error")+" "+msg)
		})),
	)

	w := &watchLoop{
		cmd:        cmd,
		cfg:        cfg,
		opts:       opts,
		log:        log,
		controller: controller,
		watcher:    watcher,
		target:     filepath.Clean(path),
	}
	return w.run(ctx)
}

// watchLoop owns the controller; every Resolve happens on the run goroutine
type watchLoop struct {
	cmd        *cobra.Command
	cfg        *config.Config
	opts       scanOptions
	log        *logger.Logger
	controller *scan.Controller
	watcher    *fsnotify.Watcher
	target     string

	outcomes chan scan.Outcome
	pending  bool
}

func (w *watchLoop) run(ctx context.Context) error {
	w.outcomes = make(chan scan.Outcome, 1)
	w.start(ctx)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("stopping watch: %v", ctx.Err())
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.relevant(event) {
				debounce = time.After(w.cfg.Watch.Debounce)
			}

		case <-debounce:
			debounce = nil
			w.start(ctx)

		case outcome := <-w.outcomes:
			w.finish(outcome)
			if w.pending {
				w.pending = false
				w.start(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)
		}
	}
}

// relevant reports whether event changed the watched file's content
func (w *watchLoop) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// start selects a fresh snapshot of the file and submits it. While a
// request is in flight the change is remembered instead.
func (w *watchLoop) start(ctx context.Context) {
	if w.controller.State().Kind() == scan.KindSubmitting {
		w.pending = true
		return
	}

	if _, err := os.Stat(w.target); err != nil {
		w.log.Warn("skipping scan, file is gone: %v", err)
		return
	}

	w.controller.Selector().Select(selector.FromPath(w.target))
	req := w.controller.Submit(ctx)
	if req == nil {
		return
	}
	go func() {
		w.outcomes <- req()
	}()
}

func (w *watchLoop) finish(outcome scan.Outcome) {
	if !w.controller.Resolve(outcome) {
		return
	}
	if w.controller.State().Kind() != scan.KindSucceeded {
		return
	}
	if err := writeReport(w.cmd, w.cfg, w.controller, w.opts, outcome.Elapsed); err != nil {
		w.log.Error("failed to write report: %v", err)
	}
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// createWatcher watches the directory holding filename so that editors
// which replace the file on save are still followed
func createWatcher(filename string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(filepath.Clean(filename))); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return watcher, nil
}

// validateFilePath validates that a path names an existing regular file
func validateFilePath(path string) error {
	// Check for empty path
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	// Clean the path to resolve . and .. elements
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, must be a file", path)
	}

	return nil
}
