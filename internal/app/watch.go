package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/watcher"
)

// Watch reloads file-backed registries when their files change. A failed
// reload is logged and the previous records stay live. Registries loaded
// from an fs.FS or a non-file source are not watched.
//
// Watch blocks until ctx is done. It returns an error only if a watcher
// cannot be started.
func (c *Catalog) Watch(ctx context.Context, debounce time.Duration) error {
	type watched struct {
		reg     *registry.Registry
		w       *watcher.Watcher
		changes <-chan struct{}
	}

	var started []watched
	defer func() {
		for _, ws := range started {
			_ = ws.w.Stop()
		}
	}()

	for _, reg := range c.regs {
		path, ok := watchPath(reg.Source())
		if !ok {
			continue
		}

		cfg := watcher.DefaultConfig(path)
		if debounce > 0 {
			cfg.DebounceDur = debounce
		}
		w, err := watcher.New(cfg)
		if err != nil {
			return fmt.Errorf("registry %s: %w", reg.Name(), err)
		}
		changes, err := w.Start()
		if err != nil {
			_ = w.Stop()
			return fmt.Errorf("registry %s: %w", reg.Name(), err)
		}
		started = append(started, watched{reg: reg, w: w, changes: changes})
		log.Info(log.CatWatcher, "watching registry source", "name", reg.Name(), "path", path)
	}

	if len(started) == 0 {
		<-ctx.Done()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, ws := range started {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ws.changes:
					log.Debug(log.CatWatcher, "source changed", "name", ws.reg.Name())
					// Reload logs and publishes its own failures
					_ = ws.reg.Reload()
				}
			}
		})
	}
	return g.Wait()
}

func watchPath(src source.Source) (string, bool) {
	f, ok := src.(source.File)
	if !ok || f.FS != nil {
		return "", false
	}
	return f.Path, true
}
