package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"pv-viability/internal/config"
	"pv-viability/internal/metrics"
)

// Catalog holds the tariff presets of one directory, keyed by preset name.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	dir     string
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	presets map[string]config.Preset
}

func NewCatalog(dir string, logger *slog.Logger, m *metrics.Metrics) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		dir:     dir,
		logger:  logger.With(slog.String("module", "presets")),
		metrics: m,
		presets: map[string]config.Preset{},
	}
}

func isPresetFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Reload re-reads every preset file. Invalid files are skipped and reported
// in the returned error; the valid ones replace the catalog contents.
func (c *Catalog) Reload() error {
	if c == nil {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.metrics.PresetsReloaded(c.Len(), err)
		return fmt.Errorf("read preset dir: %w", err)
	}

	next := make(map[string]config.Preset, len(entries))
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !isPresetFile(e.Name()) {
			continue
		}
		p, err := config.LoadPreset(filepath.Join(c.dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := next[p.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate preset name %q", e.Name(), p.Name))
			continue
		}
		next[p.Name] = *p
	}

	c.mu.Lock()
	c.presets = next
	c.mu.Unlock()

	err = errors.Join(errs...)
	c.metrics.PresetsReloaded(len(next), err)
	c.logger.Debug("presets loaded", slog.Int("count", len(next)), slog.Int("errors", len(errs)))
	return err
}

func (c *Catalog) Get(name string) (config.Preset, bool) {
	if c == nil {
		return config.Preset{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.presets[name]
	return p, ok
}

// List returns presets sorted by name.
func (c *Catalog) List() []config.Preset {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	out := make([]config.Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, p)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.presets)
}

// Watch reloads the catalog whenever a preset file in the directory changes,
// until ctx is cancelled.
func (c *Catalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create preset watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch presets: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isPresetFile(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if err := c.Reload(); err != nil {
					c.logger.Error("error reloading presets", slog.Any("error", err))
				} else {
					c.logger.Info("presets reloaded", slog.String("trigger", filepath.Base(event.Name)))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Debug("error watching presets", slog.Any("error", err))
			}
		}
	}()
	return nil
}
