package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// WatchAction is the corresponding Action for 'watch'.
func WatchAction(c *cli.Context) error {
	env, err := getEnvironment(c)
	if err != nil {
		return err
	}
	path, err := logArg(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return env.watch(ctx, path, c.App.Writer, nil)
}

// watch prints a summary of path now and after every change until ctx is done. The directory is
// watched rather than the file so editors that replace the file are followed. ready, if non-nil,
// is closed once the watcher is installed and the first summary printed.
func (env *environment) watch(ctx context.Context, path string, out io.Writer, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not create file watcher")
	}
	//nolint:errcheck
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "could not watch %q", path)
	}
	env.reparse(path, out)
	if ready != nil {
		close(ready)
	}
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			env.logger.Debugw("log changed", "path", event.Name, "op", event.Op.String())
			env.reparse(path, out)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.logger.Warnw("file watcher error", "error", err)
		}
	}
}

// reparse reports parse failures instead of returning them; a log being written is often
// momentarily ill-formed.
func (env *environment) reparse(path string, out io.Writer) {
	ds, err := env.parse(path)
	if err != nil {
		env.logger.Errorw("could not parse log", "path", path, "error", err)
		return
	}
	printSummary(out, path, ds)
}
