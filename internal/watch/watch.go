// Package watch rebuilds products when their source trees change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/distbuilder/internal/product"
)

// RebuildFunc rebuilds a set of products.
type RebuildFunc func(ctx context.Context, products []product.Product)

// Watcher monitors product source roots and triggers debounced rebuilds.
type Watcher struct {
	products     []product.Product
	rebuild      RebuildFunc
	watcher      *fsnotify.Watcher
	scheduler    gocron.Scheduler
	interval     time.Duration
	debounceTime time.Duration

	// pending carries names of products with unprocessed change events.
	pending chan string
}

// New creates a watcher over the given products. A non-zero interval adds an
// unconditional full rebuild on that period.
func New(products []product.Product, interval time.Duration, rebuild RebuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		products:     products,
		rebuild:      rebuild,
		watcher:      fsw,
		interval:     interval,
		debounceTime: 2 * time.Second, // Debounce rapid file changes
		pending:      make(chan string, 64),
	}, nil
}

// Run watches until the context is cancelled. Every directory below each
// product's source root is registered; fsnotify does not watch recursively
// on its own.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for _, p := range w.products {
		if err := w.addRecursive(p.SourceRoot); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p.SourceRoot, err)
		}
		slog.Info("Watching product source", "product", p.Name, "path", p.SourceRoot)
	}

	if w.interval > 0 {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		_, err = scheduler.NewJob(
			gocron.DurationJob(w.interval),
			gocron.NewTask(func() {
				slog.Info("Scheduled full rebuild", "interval", w.interval)
				w.rebuild(ctx, w.products)
			}),
			gocron.WithName("interval-rebuild"),
		)
		if err != nil {
			return fmt.Errorf("failed to schedule interval rebuild: %w", err)
		}
		w.scheduler = scheduler
		scheduler.Start()
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Error("Error stopping scheduler", "error", err)
			}
		}()
	}

	go w.rebuildLoop(ctx)
	w.watchLoop(ctx)
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
}

// watchLoop maps filesystem events back to the owning product.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := w.productFor(event.Name)
			if name == "" {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need their own watch registration.
			if event.Op&fsnotify.Create != 0 {
				if err := w.watcher.Add(event.Name); err == nil {
					slog.Debug("Watching new path", "path", event.Name)
				}
			}
			slog.Debug("Source change detected", "product", name, "file", event.Name, "op", event.Op.String())
			select {
			case w.pending <- name:
			default:
				// A rebuild is already queued for this burst.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", "error", err)
		}
	}
}

// rebuildLoop debounces change events and rebuilds only the affected products.
// The dirty set keeps accumulating until the debounce timer actually fires.
func (w *Watcher) rebuildLoop(ctx context.Context) {
	var mu sync.Mutex
	var timer *time.Timer
	dirty := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case name := <-w.pending:
			mu.Lock()
			dirty[name] = true
			mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				mu.Lock()
				affected := w.selectDirty(dirty)
				clear(dirty)
				mu.Unlock()
				if len(affected) > 0 {
					w.rebuild(ctx, affected)
				}
			})
		}
	}
}

func (w *Watcher) selectDirty(dirty map[string]bool) []product.Product {
	var affected []product.Product
	for _, p := range w.products {
		if dirty[p.Name] {
			affected = append(affected, p)
		}
	}
	return affected
}

// productFor returns the name of the product whose source root contains path.
func (w *Watcher) productFor(path string) string {
	for _, p := range w.products {
		if strings.HasPrefix(path, p.SourceRoot+string(filepath.Separator)) || path == p.SourceRoot {
			return p.Name
		}
	}
	return ""
}
