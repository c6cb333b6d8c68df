package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SpecWatcher reports changes under the spec, components and layout
// directories. Bursts of events (editors saving several files) collapse
// into one callback.
type SpecWatcher struct {
	watcher  *fsnotify.Watcher
	roots    []string
	debounce time.Duration
	onChange func(path string)
	logger   *zap.Logger
	done     chan struct{}
	started  bool
}

func NewSpecWatcher(config Config, onChange func(path string), logger *zap.Logger) (*SpecWatcher, error) {
	config = config.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	roots := []string{
		NewResolver(config).Dir(),
		config.AppPath(config.ComponentsDir),
	}
	if config.Layout != "" {
		roots = append(roots, filepath.Dir(config.AppPath(config.Layout)))
	}

	return &SpecWatcher{
		watcher:  w,
		roots:    roots,
		debounce: 100 * time.Millisecond,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start registers every existing directory under the roots and begins
// delivering events until ctx is cancelled or Close is called.
func (sw *SpecWatcher) Start(ctx context.Context) error {
	for _, root := range sw.roots {
		if err := sw.addTree(root); err != nil {
			return err
		}
	}

	sw.started = true
	go sw.loop(ctx)
	return nil
}

func (sw *SpecWatcher) addTree(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		sw.logger.Debug("watch root missing", zap.String("dir", root))
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return sw.watcher.Add(path)
		}
		return nil
	})
}

func (sw *SpecWatcher) loop(ctx context.Context) {
	defer close(sw.done)

	var timer *time.Timer
	var fire <-chan time.Time
	var last string

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = sw.addTree(ev.Name)
				}
			}

			last = ev.Name
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
			} else {
				timer.Reset(sw.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			sw.logger.Debug("change detected", zap.String("path", last))
			if sw.onChange != nil {
				sw.onChange(last)
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (sw *SpecWatcher) Close() error {
	err := sw.watcher.Close()
	if sw.started {
		<-sw.done
	}
	return err
}
