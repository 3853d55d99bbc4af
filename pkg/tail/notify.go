package tail

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// wakeup reports filesystem activity on one file. The parent directory is
// watched so that rotation (remove or rename followed by create) is seen.
type wakeup struct {
	fsw    *fsnotify.Watcher
	target string
	logger *zap.Logger
}

func newWakeup(path string, logger *zap.Logger) (*wakeup, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &wakeup{fsw: fsw, target: abs, logger: logger}, nil
}

// events forwards the names of relevant events until ctx is done or the
// watcher is closed. Events are dropped while the consumer is busy; the
// next poll reads everything appended anyway.
func (w *wakeup) events(ctx context.Context) <-chan string {
	out := make(chan string, 1)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != w.target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case out <- ev.Name:
				default:
				}
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()

	return out
}

func (w *wakeup) Close() error {
	return w.fsw.Close()
}
