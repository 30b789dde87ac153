package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder.
	_ "image/jpeg" // Register JPEG decoder.
	_ "image/png"  // Register PNG decoder.
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/catpoint/internal/logger"
)

// ImageProcessor consumes decoded camera images.
type ImageProcessor interface {
	ProcessImage(ctx context.Context, img image.Image) error
}

// errDirectoryRequired is returned when no directory is configured.
var errDirectoryRequired = errors.New("camera directory must be provided")

// Watcher processes image files appearing in a directory.
type Watcher struct {
	// dir is the watched directory.
	dir string
	// processor receives decoded images.
	processor ImageProcessor
	// debounce is the quiet period before a file is processed.
	debounce time.Duration
	// watcher delivers filesystem events.
	watcher *fsnotify.Watcher
	// ready receives paths whose debounce timer fired.
	ready chan string
	// done is closed when Run returns.
	done chan struct{}
	// timers holds one pending timer per path.
	timers map[string]*pending
	// mu protects timers.
	mu sync.Mutex
}

// NewWatcher starts watching dir. Call Run to process events.
func NewWatcher(dir string, processor ImageProcessor, debounce time.Duration) (*Watcher, error) {
	if dir == "" {
		return nil, errDirectoryRequired
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err = fsWatcher.Add(dir); err != nil {
		_ = fsWatcher.Close()

		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:       dir,
		processor: processor,
		debounce:  debounce,
		watcher:   fsWatcher,
		ready:     make(chan string),
		done:      make(chan struct{}),
		timers:    make(map[string]*pending),
	}, nil
}

// Run processes filesystem events until ctx is canceled or the watcher fails.
// Images that cannot be decoded or processed are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = logger.WithKV(ctx, "camera_dir", w.dir)

	defer w.stop()

	logger.Info(ctx, "Watching camera directory")

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			logger.DebugKV(ctx, "Filesystem event", "name", event.Name, "op", event.Op.String())

			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && IsImageFile(event.Name) {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			return fmt.Errorf("watch camera directory: %w", err)
		case path := <-w.ready:
			if err := ProcessFile(ctx, w.processor, path); err != nil {
				logger.ErrorKV(ctx, "Failed to process camera image", "path", path, "error", err)
			}
		case <-ctx.Done():
			logger.Info(ctx, "Camera watcher stopped")

			return nil
		}
	}
}

// pending is the debounce timer of one path.
type pending struct {
	timer *time.Timer
}

// schedule (re)starts the debounce timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Reset reports false once the callback has started; that callback
	// sees a newer entry and drops the path, so the new timer owns it.
	if entry, ok := w.timers[path]; ok && entry.timer.Reset(w.debounce) {
		return
	}

	entry := new(pending)
	entry.timer = time.AfterFunc(w.debounce, func() {
		w.fire(path, entry)
	})

	w.timers[path] = entry
}

// fire hands path to Run unless entry was superseded by a later schedule.
func (w *Watcher) fire(path string, entry *pending) {
	w.mu.Lock()

	if w.timers[path] != entry {
		w.mu.Unlock()

		return
	}

	delete(w.timers, path)
	w.mu.Unlock()

	select {
	case w.ready <- path:
	case <-w.done:
	}
}

// stop cancels pending timers and closes the fsnotify watcher.
func (w *Watcher) stop() {
	w.mu.Lock()
	for path, entry := range w.timers {
		entry.timer.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	close(w.done)

	_ = w.watcher.Close()
}

// IsImageFile reports whether the file extension is a supported image format.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	default:
		return false
	}
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (image.Image, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}

	return img, nil
}

// ProcessFile decodes the image at path and hands it to the processor.
func ProcessFile(ctx context.Context, processor ImageProcessor, path string) error {
	img, err := DecodeFile(path)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Processing camera image", "path", path, "bounds", img.Bounds().String())

	if err = processor.ProcessImage(ctx, img); err != nil {
		return fmt.Errorf("process image %s: %w", filepath.Base(path), err)
	}

	return nil
}
