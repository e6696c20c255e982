package registry

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/keyreg/internal/cachemanager"
	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/log"
	"github.com/zjrosen/keyreg/internal/pubsub"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/tracing"
	"github.com/zjrosen/keyreg/internal/transform"
)

const defaultName = "default"

// Config enumerates everything a Registry is built from.
type Config struct {
	// Name identifies the registry in logs, errors and the introspection
	// surface. Defaults to "default".
	Name string
	// Source provides the records. Required.
	Source source.Source
	// Transform shapes every record on the way out. Nil means identity.
	Transform transform.Func
}

// Option configures optional registry behavior.
type Option func(*options)

type options struct {
	cache    bool
	cacheTTL time.Duration
	broker   *pubsub.Broker[ReloadEvent]
	tracer   trace.Tracer
}

// WithOutputCache memoizes transformed records per snapshot. A ttl of zero
// keeps entries until the next reload.
func WithOutputCache(ttl time.Duration) Option {
	return func(o *options) {
		o.cache = true
		o.cacheTTL = ttl
	}
}

// WithBroker publishes reload events to b instead of a registry-owned broker.
// The caller stays responsible for closing b.
func WithBroker(b *pubsub.Broker[ReloadEvent]) Option {
	return func(o *options) { o.broker = b }
}

// WithTracer records a span for every reload.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// snapshot is one immutable generation of loaded records.
type snapshot struct {
	set        *record.Set
	generation uint64
	revision   string
	loadedAt   time.Time
}

// Registry serves records by key with strict lookup.
// All methods are safe for concurrent use.
type Registry struct {
	name      string
	transform transform.Func
	current   atomic.Pointer[snapshot]

	reloadMu sync.Mutex
	src      source.Source // guarded by reloadMu

	outputs  *cachemanager.ReadThroughCache[string, record.Record, record.Record]
	cacheTTL time.Duration

	broker    *pubsub.Broker[ReloadEvent]
	ownBroker bool
	tracer    trace.Tracer
}

// New loads cfg.Source and returns a registry over its records.
// A load failure is returned as-is (wrapping a *source.LoadError); New never
// yields an empty registry in place of a broken source.
func New(cfg Config, opts ...Option) (*Registry, error) {
	if cfg.Source == nil {
		return nil, ErrNilSource
	}

	var o options
	for _, fn := range opts {
		fn(&o)
	}

	r := &Registry{
		name:      cfg.Name,
		transform: cfg.Transform,
		src:       cfg.Source,
		broker:    o.broker,
		tracer:    o.tracer,
	}
	if r.name == "" {
		r.name = defaultName
	}
	if r.transform == nil {
		r.transform = transform.Identity
	}
	if r.broker == nil {
		r.broker = pubsub.NewBroker[ReloadEvent]()
		r.ownBroker = true
	}
	if o.cache {
		ttl := o.cacheTTL
		if ttl <= 0 {
			ttl = cachemanager.NoExpiration
		}
		r.cacheTTL = ttl
		cache := cachemanager.NewInMemoryCacheManager[string, record.Record]("registry:"+r.name, ttl, cachemanager.DefaultCleanupInterval)
		r.outputs = cachemanager.NewReadThroughCache[string, record.Record, record.Record](cache, r.apply, false)
	}

	snap, err := load(cfg.Source, 1)
	if err != nil {
		if r.ownBroker {
			r.broker.Close()
		}
		log.ErrorErr(log.CatRegistry, "registry load failed", err, "name", r.name, "source", cfg.Source.String())
		return nil, fmt.Errorf("registry %s: %w", r.name, err)
	}
	r.current.Store(snap)

	log.Info(log.CatRegistry, "registry loaded",
		"name", r.name,
		"source", cfg.Source.String(),
		"keys", snap.set.Len(),
		"revision", snap.revision)

	return r, nil
}

func load(src source.Source, generation uint64) (*snapshot, error) {
	set, err := src.Load()
	if err != nil {
		return nil, err
	}
	return &snapshot{
		set:        set,
		generation: generation,
		revision:   uuid.NewString(),
		loadedAt:   time.Now(),
	}, nil
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// Exists reports whether key is declared in the current snapshot.
func (r *Registry) Exists(key string) bool {
	return r.current.Load().set.Has(key)
}

// Lookup returns the output record for key. It fails with *UnknownKeyError
// if key is not declared; an error from the transform is returned unchanged.
// The result is the caller's own copy.
func (r *Registry) Lookup(key string) (record.Record, error) {
	return r.lookup(r.current.Load(), key)
}

// MustLookup is like Lookup but panics on error. It is intended for
// package-level variables that must resolve at startup.
func (r *Registry) MustLookup(key string) record.Record {
	rec, err := r.Lookup(key)
	if err != nil {
		panic(err)
	}
	return rec
}

// ListAll returns every output record in declaration order. The first
// transform error aborts the listing and is returned unchanged.
func (r *Registry) ListAll() (record.Listing, error) {
	return r.listAll(r.current.Load())
}

func (r *Registry) listAll(snap *snapshot) (record.Listing, error) {
	keys := snap.set.Keys()

	listing := make(record.Listing, 0, len(keys))
	for _, key := range keys {
		rec, err := r.lookup(snap, key)
		if err != nil {
			return nil, err
		}
		listing = append(listing, record.Entry{Key: key, Record: rec})
	}
	return listing, nil
}

// Keys returns the declared keys in order.
func (r *Registry) Keys() []string {
	return r.current.Load().set.Keys()
}

// Len returns the number of declared keys.
func (r *Registry) Len() int {
	return r.current.Load().set.Len()
}

// Generation counts successful loads, starting at 1.
func (r *Registry) Generation() uint64 {
	return r.current.Load().generation
}

// Revision uniquely identifies the current snapshot.
func (r *Registry) Revision() string {
	return r.current.Load().revision
}

// LoadedAt returns when the current snapshot was loaded.
func (r *Registry) LoadedAt() time.Time {
	return r.current.Load().loadedAt
}

// Source returns the source the current snapshot was loaded from.
func (r *Registry) Source() source.Source {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.src
}

// Reload re-reads the current source and swaps in the new records.
func (r *Registry) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.reloadLocked(r.src)
}

// ReloadFrom loads src and swaps in its records. On success src becomes the
// source for later calls to Reload; on failure nothing changes.
func (r *Registry) ReloadFrom(src source.Source) error {
	if src == nil {
		return ErrNilSource
	}
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()
	return r.reloadLocked(src)
}

func (r *Registry) reloadLocked(src source.Source) error {
	if r.tracer == nil {
		return r.swap(src)
	}

	_, span := r.tracer.Start(context.Background(), tracing.SpanRegistryReload,
		trace.WithAttributes(
			attribute.String(tracing.AttrRegistryName, r.name),
			attribute.String(tracing.AttrRegistrySource, src.String()),
		))
	defer span.End()

	err := r.swap(src)
	snap := r.current.Load()
	span.SetAttributes(
		attribute.Int64(tracing.AttrRegistryGeneration, int64(snap.generation)),
		attribute.String(tracing.AttrRegistryRevision, snap.revision),
		attribute.Int(tracing.AttrRegistryKeys, snap.set.Len()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// swap loads src and replaces the current snapshot. Callers hold reloadMu.
func (r *Registry) swap(src source.Source) error {
	prev := r.current.Load()

	next, err := load(src, prev.generation+1)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "registry reload failed", err,
			"name", r.name,
			"source", src.String(),
			"generation", prev.generation)
		r.broker.Publish(pubsub.FailedEvent, ReloadEvent{
			Registry:   r.name,
			Generation: prev.generation,
			Revision:   prev.revision,
			Keys:       prev.set.Len(),
			Err:        err,
		})
		return fmt.Errorf("registry %s: %w", r.name, err)
	}

	r.current.Store(next)
	r.src = src
	if r.outputs != nil {
		r.outputs.Flush()
	}

	log.Info(log.CatRegistry, "registry reloaded",
		"name", r.name,
		"source", src.String(),
		"keys", next.set.Len(),
		"generation", next.generation,
		"revision", next.revision)
	r.broker.Publish(pubsub.UpdatedEvent, ReloadEvent{
		Registry:   r.name,
		Generation: next.generation,
		Revision:   next.revision,
		Keys:       next.set.Len(),
	})
	return nil
}

// Subscribe returns a channel of reload events that closes when ctx is done
// or the registry is closed.
func (r *Registry) Subscribe(ctx context.Context) <-chan pubsub.Event[ReloadEvent] {
	return r.broker.Subscribe(ctx)
}

// Close releases the registry's own event broker. Lookups keep working.
func (r *Registry) Close() {
	if r.ownBroker {
		r.broker.Close()
	}
}

func (r *Registry) lookup(snap *snapshot, key string) (record.Record, error) {
	stored, ok := snap.set.Get(key)
	if !ok {
		return nil, &UnknownKeyError{Registry: r.name, Key: key}
	}
	if r.outputs == nil {
		return r.apply(stored)
	}

	cacheKey := strconv.FormatUint(snap.generation, 10) + ":" + key
	out, err := r.outputs.Get(cacheKey, stored, r.cacheTTL)
	if err != nil {
		return nil, err
	}
	// Reloads store the new snapshot before flushing, so an entry for a
	// superseded snapshot is either flushed or dropped here.
	if r.current.Load() != snap {
		r.outputs.Delete(cacheKey)
	}
	return out.Clone(), nil
}

// apply runs the transform on a private copy of the stored record.
func (r *Registry) apply(stored record.Record) (record.Record, error) {
	return r.transform(stored.Clone())
}
