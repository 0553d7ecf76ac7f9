package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Cheertaboi/coupon-dashboard/internal/models"
)

// ErrSuperseded is returned by View.Load when a newer load for the same
// viewer started before this one finished.
var ErrSuperseded = errors.New("consulta substituída por uma mais recente")

// Snapshot is what a viewer currently sees.
type Snapshot struct {
	Filters    models.Filters
	Page       int
	Result     *models.ComprasPage
	Err        error
	Generation uint64
}

// View is the state of one dashboard viewer. Loads are ordered by
// generation: starting a load cancels interest in the previous one, and
// a result that is no longer the latest never replaces the snapshot.
type View struct {
	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	state    Snapshot
	lastSeen time.Time
}

func (v *View) Load(ctx context.Context, loader PageLoader, f models.Filters, page int) (Snapshot, error) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()
	defer cancel()

	res, err := loader.Page(ctx, f, page)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return Snapshot{}, ErrSuperseded
	}
	v.cancel = nil
	v.state = Snapshot{Filters: f, Page: page, Result: res, Err: err, Generation: gen}
	return v.state, nil
}

func (v *View) Current() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// ViewRegistry keeps one View per viewer id and forgets viewers idle for
// longer than the configured duration.
type ViewRegistry struct {
	mu    sync.Mutex
	views map[string]*View
	idle  time.Duration
	now   func() time.Time
}

func NewViewRegistry(idle time.Duration) *ViewRegistry {
	return &ViewRegistry{
		views: make(map[string]*View),
		idle:  idle,
		now:   time.Now,
	}
}

// Get returns the view of id, creating it when needed.
func (r *ViewRegistry) Get(id string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)
	v, ok := r.views[id]
	if !ok {
		v = &View{}
		r.views[id] = v
	}
	v.lastSeen = now
	return v
}

func (r *ViewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *ViewRegistry) evictLocked(now time.Time) {
	if r.idle <= 0 {
		return
	}
	for id, v := range r.views {
		if now.Sub(v.lastSeen) > r.idle {
			delete(r.views, id)
		}
	}
}
