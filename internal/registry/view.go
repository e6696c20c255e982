package registry

import (
	"time"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// View is a registry pinned to the snapshot current when it was taken.
// Reloads after that point are not visible through it, so a listing and the
// revision it reports always belong together.
type View struct {
	reg  *Registry
	snap *snapshot
}

// View pins the current snapshot.
func (r *Registry) View() View {
	return View{reg: r, snap: r.current.Load()}
}

// Name returns the registry name.
func (v View) Name() string { return v.reg.name }

// Revision identifies the pinned snapshot.
func (v View) Revision() string { return v.snap.revision }

// Generation returns the pinned snapshot's load count.
func (v View) Generation() uint64 { return v.snap.generation }

// LoadedAt returns when the pinned snapshot was loaded.
func (v View) LoadedAt() time.Time { return v.snap.loadedAt }

// Exists reports whether key is declared in the pinned snapshot.
func (v View) Exists(key string) bool { return v.snap.set.Has(key) }

// Lookup is Registry.Lookup against the pinned snapshot.
func (v View) Lookup(key string) (record.Record, error) {
	return v.reg.lookup(v.snap, key)
}

// ListAll is Registry.ListAll against the pinned snapshot.
func (v View) ListAll() (record.Listing, error) {
	return v.reg.listAll(v.snap)
}
