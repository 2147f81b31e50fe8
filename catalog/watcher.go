package catalog

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 200 * time.Millisecond

// Watcher reloads a file-backed catalog when its file changes and sends
// the new version on Changes. Failed reloads are logged and keep the
// previous catalog.
type Watcher struct {
	Changes <-chan int

	catalog *Catalog
	logger  *zap.Logger
	changes chan int
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for c, which must be loaded from a file.
func NewWatcher(c *Catalog, logger *zap.Logger) (*Watcher, error) {
	if c.Path() == "" {
		return nil, errors.New("bundled catalog cannot be watched")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan int, 16)
	return &Watcher{
		Changes: ch,
		catalog: c,
		logger:  logger,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching. The directory is watched so that editors which
// replace the file on save are handled.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.catalog.Path())); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	target := filepath.Clean(w.catalog.Path())
	var pending time.Time
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	version, err := w.catalog.Reload()
	if err != nil {
		w.logger.Warn("catalog reload failed; keeping previous catalog",
			zap.String("path", w.catalog.Path()),
			zap.Error(err),
		)
		return
	}
	w.logger.Info("catalog reloaded", zap.String("path", w.catalog.Path()), zap.Int("version", version))
	select {
	case w.changes <- version:
	default:
		w.logger.Debug("catalog change dropped; consumer is behind", zap.Int("version", version))
	}
}
