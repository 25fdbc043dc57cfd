package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch --file <batch.yaml>",
		Short: "Recompile a batch file whenever it changes",
		Long: `Compile a YAML batch file, then recompile it each time the file is
written. Runs until interrupted.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, opts, cmd)
		},
	}

	opts.SourceOptions.addFlags(cmd)
	addDialectFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWatch(ctx context.Context, opts *CompileOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sess, err := newSession(opts.sessionConfig())
	if err != nil {
		code, msg := loadErrorCode(err)
		return commandError(formatter, code, msg)
	}
	defer sess.close()

	// The batch is reloaded on each change; only the session is reused.
	rebuild := func() {
		preds, err := opts.predicates(nil)
		if err != nil {
			code, msg := loadErrorCode(err)
			_ = formatter.Error(code, msg, nil)
			return
		}
		report, err := compileAll(ctx, sess, preds, opts.Workers)
		if err != nil {
			slog.Debug("compile interrupted", "error", err)
			return
		}
		_ = outputCompileReport(formatter, report)
	}

	w, err := newFileWatcher(opts.File)
	if err != nil {
		return commandError(formatter, ErrCodeWatch, err.Error())
	}
	defer w.Close()

	rebuild()
	formatter.VerboseLog("Watching %s", opts.File)
	if opts.Format != "json" {
		fmt.Fprintf(formatter.GetErrWriter(), "Watching %s (Ctrl-C to stop)\n", opts.File)
	}

	if err := w.Run(ctx, DefaultDebounce, rebuild); err != nil {
		return commandError(formatter, ErrCodeWatch, err.Error())
	}
	return nil
}

// fileWatcher reports changes to a single file.
//
// The parent directory is watched rather than the file so that editors
// which save by renaming a new file into place keep being observed.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// newFileWatcher starts watching path. Events are delivered once Run is
// called.
func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &fileWatcher{path: abs, watcher: w}, nil
}

// Run calls onChange after each write to the file until ctx is done.
// Events arriving within debounce of each other produce one call.
func (fw *fileWatcher) Run(ctx context.Context, debounce time.Duration, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("watch event", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
