// Package watcher monitors a directory and feeds newly dropped videos into
// the pipeline, with bounded concurrency.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lecchurro/lecchurro/internal/logger"
)

// Handler processes one newly detected video file.
type Handler func(ctx context.Context, videoPath string) error

// settleDelay gives the producer time to finish writing before we read.
const settleDelay = 500 * time.Millisecond

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".webm": {}, ".m4v": {},
}

type Watcher struct {
	inputDir string
	handler  Handler
	log      *logger.Logger
	fsw      *fsnotify.Watcher
	sem      chan struct{}
	wg       sync.WaitGroup
}

func New(inputDir string, handler Handler, log *logger.Logger, maxConcurrent int) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", inputDir, err)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		inputDir: inputDir,
		handler:  handler,
		log:      log,
		fsw:      fsw,
		sem:      make(chan struct{}, maxConcurrent),
	}, nil
}

// Start blocks until ctx is canceled, processing each new video file as it
// appears. Per-file failures are logged and never stop the watch loop.
func (w *Watcher) Start(ctx context.Context) error {
	w.log.Info("watching for videos", "dir", w.inputDir, "max_concurrent", cap(w.sem))

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.log.Info("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !IsVideoFile(event.Name) {
				w.log.Debug("ignoring non-video file", "path", event.Name)
				continue
			}
			w.log.Info("new video detected", "path", event.Name)
			time.Sleep(settleDelay)

			select {
			case w.sem <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.sem }()
					if err := w.handler(ctx, path); err != nil {
						w.log.Error("processing failed", "path", path, "error", err.Error())
					}
				}(event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("watch error", "error", err.Error())
		}
	}
}

// Stop closes the underlying filesystem watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
