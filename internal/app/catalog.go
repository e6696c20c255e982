// Package app wires configured registries into a Catalog and keeps them
// current as their data files change.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/keyreg/internal/config"
	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/pubsub"
	"github.com/zjrosen/keyreg/internal/registry"
)

// ErrUnknownRegistry is returned when a registry name is not configured.
var ErrUnknownRegistry = errors.New("unknown registry")

// Catalog holds the independently named registries of one process, in
// declaration order. Registries share one reload broker.
type Catalog struct {
	regs   []*registry.Registry
	byName map[string]*registry.Registry
	broker *pubsub.Broker[registry.ReloadEvent]
}

// New builds every registry declared in cfg. baseDir anchors relative source
// paths, normally the directory holding the config file. A registry that fails
// to load fails the whole catalog. opts apply to every registry.
func New(cfg config.Config, baseDir string, opts ...registry.Option) (*Catalog, error) {
	if err := config.ValidateRegistries(cfg.Registries); err != nil {
		return nil, err
	}

	c := &Catalog{
		byName: make(map[string]*registry.Registry, len(cfg.Registries)),
		broker: pubsub.NewBroker[registry.ReloadEvent](),
	}

	opts = append(opts[:len(opts):len(opts)], registry.WithBroker(c.broker))
	if cfg.Cache.Enabled {
		opts = append(opts, registry.WithOutputCache(cfg.Cache.TTL))
	}

	for _, rc := range cfg.Registries {
		src, err := rc.Source.Source(baseDir)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("registry %s: %w", rc.Name, err)
		}

		reg, err := registry.New(registry.Config{
			Name:      rc.Name,
			Source:    src,
			Transform: rc.Transform.Build(),
		}, opts...)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.add(reg)
	}

	log.Info(log.CatRegistry, "catalog ready", "registries", len(c.regs), "cache", cfg.Cache.Enabled)
	return c, nil
}

// FromRegistries builds a catalog over registries constructed elsewhere.
// The catalog takes ownership: Close closes them. Names must be unique.
// Reload events stay on each registry's own broker; subscribe to the
// registries directly.
func FromRegistries(regs ...*registry.Registry) (*Catalog, error) {
	c := &Catalog{
		byName: make(map[string]*registry.Registry, len(regs)),
		broker: pubsub.NewBroker[registry.ReloadEvent](),
	}
	for _, reg := range regs {
		if _, dup := c.byName[reg.Name()]; dup {
			c.Close()
			return nil, fmt.Errorf("registry %s: duplicate name", reg.Name())
		}
		c.add(reg)
	}
	return c, nil
}

func (c *Catalog) add(reg *registry.Registry) {
	c.regs = append(c.regs, reg)
	c.byName[reg.Name()] = reg
}

// Get returns the registry named name.
func (c *Catalog) Get(name string) (*registry.Registry, error) {
	reg, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRegistry, name)
	}
	return reg, nil
}

// Names returns registry names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.regs))
	for i, reg := range c.regs {
		names[i] = reg.Name()
	}
	return names
}

// Registries returns the registries in declaration order.
func (c *Catalog) Registries() []*registry.Registry {
	out := make([]*registry.Registry, len(c.regs))
	copy(out, c.regs)
	return out
}

// Reload reloads one registry.
func (c *Catalog) Reload(name string) error {
	reg, err := c.Get(name)
	if err != nil {
		return err
	}
	return reg.Reload()
}

// ReloadAll reloads every registry. A failure does not stop the others; all
// failures are joined into the returned error.
func (c *Catalog) ReloadAll() error {
	var errs []error
	for _, reg := range c.regs {
		if err := reg.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe returns reload events from every registry in the catalog.
func (c *Catalog) Subscribe(ctx context.Context) <-chan pubsub.Event[registry.ReloadEvent] {
	return c.broker.Subscribe(ctx)
}

// Close releases the registries and the shared broker.
func (c *Catalog) Close() {
	for _, reg := range c.regs {
		reg.Close()
	}
	c.broker.Close()
}
