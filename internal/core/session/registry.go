package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const defaultStartupTimeout = 10 * time.Second

// ErrEmptyVisitor is returned by Acquire for a blank visitor id.
var ErrEmptyVisitor = errors.New("session: empty visitor id")

// ClientFactory builds the backend client owned by one visitor.
type ClientFactory func(visitorID string) ports.BackendClient

// RegistryConfig wires a Registry.
type RegistryConfig struct {
	NewClient      ClientFactory
	Backing        ports.Backing
	KeyPrefix      string // defaults to DefaultKey
	StartupTimeout time.Duration
	Logger         zerolog.Logger
	Now            func() time.Time
}

type entry struct {
	once     sync.Once
	visitor  *ports.Visitor
	store    *Store
	lastSeen time.Time
}

// Registry keeps one Store per visitor. A store is built on the visitor's
// first request and runs CheckSession then; later requests re-check it only
// when the backend session no longer matches. Sweep tears down idle stores.
type Registry struct {
	newClient      ClientFactory
	backing        ports.Backing
	prefix         string
	startupTimeout time.Duration
	log            zerolog.Logger
	now            func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

var _ ports.SessionRegistry = (*Registry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		newClient:      cfg.NewClient,
		backing:        cfg.Backing,
		prefix:         cfg.KeyPrefix,
		startupTimeout: cfg.StartupTimeout,
		log:            cfg.Logger,
		now:            cfg.Now,
		entries:        make(map[string]*entry),
	}
	if r.prefix == "" {
		r.prefix = DefaultKey
	}
	if r.startupTimeout <= 0 {
		r.startupTimeout = defaultStartupTimeout
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Acquire returns the visitor's store, creating and checking it on first use.
func (r *Registry) Acquire(ctx context.Context, visitorID string) (*ports.Visitor, error) {
	if visitorID == "" {
		return nil, ErrEmptyVisitor
	}

	r.mu.Lock()
	e, ok := r.entries[visitorID]
	if !ok {
		e = &entry{}
		r.entries[visitorID] = e
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	started := false
	e.once.Do(func() {
		started = true
		startCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.startupTimeout)
		defer cancel()

		client := r.newClient(visitorID)
		store := NewStore(startCtx, Config{
			Backend: client,
			Backing: r.backing,
			Key:     r.SnapshotKey(visitorID),
			Logger:  r.log.With().Str("visitor", visitorID).Logger(),
		})
		store.CheckSession(startCtx)

		r.mu.Lock()
		e.store = store
		e.visitor = &ports.Visitor{ID: visitorID, Store: store, Backend: client}
		r.mu.Unlock()
	})

	r.mu.Lock()
	v := e.visitor
	r.mu.Unlock()

	if !started {
		r.revalidate(ctx, v)
	}
	return v, nil
}

// revalidate re-runs CheckSession when the backend no longer reports the
// identity the store has cached: the token expired, was revoked, or belongs to
// someone else. A backend error also triggers it, so the store fails closed.
func (r *Registry) revalidate(ctx context.Context, v *ports.Visitor) {
	sess, err := v.Backend.GetSession(ctx)
	cached := v.Store.State().Identity
	if err == nil && sameIdentity(sess, cached) {
		return
	}
	r.log.Debug().Err(err).Str("visitor", v.ID).Msg("backend session changed, rechecking")
	v.Store.CheckSession(ctx)
}

func sameIdentity(sess *domain.Session, cached *domain.Identity) bool {
	if sess == nil || cached == nil {
		return sess == nil && cached == nil
	}
	return sess.User.ID == cached.ID
}

// SnapshotKey is the backing key holding visitorID's identity snapshot.
func (r *Registry) SnapshotKey(visitorID string) string {
	return r.prefix + ":" + visitorID
}

// Len returns the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep tears down stores not used within idle and returns how many went.
// Persisted snapshots stay, so a returning visitor is rehydrated.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.store == nil || !e.lastSeen.Before(cutoff) {
			continue
		}
		e.store.Close()
		delete(r.entries, id)
		removed++
	}
	return removed
}

// Run sweeps idle stores every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.log.Debug().Int("removed", n).Int("live", r.Len()).Msg("idle session stores swept")
			}
		}
	}
}
