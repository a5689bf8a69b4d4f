// Package session holds the per-visitor authority for "who is signed in and
// what does their profile say". A Store mirrors the hosted backend's auth state
// and keeps a persisted identity hint so a reload can show the visitor as
// possibly signed in before CheckSession confirms it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// DefaultKey is the backing key used when Config.Key is empty.
const DefaultKey = "auth-storage"

const snapshotVersion = 0

// snapshot is the persisted subset of the store: the identity only.
type snapshot struct {
	State struct {
		Identity *domain.Identity `json:"identity"`
	} `json:"state"`
	Version int `json:"version"`
}

// Config wires a Store to its collaborators.
type Config struct {
	Backend ports.BackendClient
	Backing ports.Backing // optional; nil disables persistence
	Key     string
	Logger  zerolog.Logger
}

// Store implements ports.SessionStore.
type Store struct {
	backend ports.BackendClient
	backing ports.Backing
	key     string
	log     zerolog.Logger

	// actionMu allows one in-flight action per store; later callers queue.
	actionMu sync.Mutex

	mu      sync.RWMutex
	state   ports.SessionState
	subs    map[int]func(ports.SessionState)
	nextSub int
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore builds a store and rehydrates the identity from the backing, if any.
// The profile always starts empty and must be fetched.
func NewStore(ctx context.Context, cfg Config) *Store {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		backend: cfg.Backend,
		backing: cfg.Backing,
		key:     key,
		log:     cfg.Logger,
		subs:    make(map[int]func(ports.SessionState)),
	}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	if s.backing == nil {
		return
	}
	data, ok, err := s.backing.Read(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("read session snapshot")
		return
	}
	if !ok {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("decode session snapshot")
		return
	}
	if id := snap.State.Identity; id != nil && id.ID != "" {
		s.state.Identity = id
	}
}

// State returns a copy of the current state.
func (s *Store) State() ports.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Subscribe registers fn to be called with the new state after every change.
func (s *Store) Subscribe(fn func(ports.SessionState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close drops all subscribers. The store stays readable.
func (s *Store) Close() {
	s.mu.Lock()
	s.subs = make(map[int]func(ports.SessionState))
	s.mu.Unlock()
}

// CheckSession re-derives identity and profile from the backend's current session.
func (s *Store) CheckSession(ctx context.Context) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	sess, err := s.backend.GetSession(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("check session")
		s.update(ctx, func(st *ports.SessionState) {
			st.Identity = nil
			st.Profile = nil
			st.Err = err
		})
		return
	}
	if sess == nil {
		s.update(ctx, func(st *ports.SessionState) {
			st.Identity = nil
			st.Profile = nil
		})
		return
	}

	user := sess.User
	s.update(ctx, func(st *ports.SessionState) {
		setIdentity(st, user)
	})
	s.fetchProfile(ctx, user.ID)
}

// FetchProfile replaces the cached profile with the backend's record for identityID.
func (s *Store) FetchProfile(ctx context.Context, identityID string) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	s.fetchProfile(ctx, identityID)
}

func (s *Store) fetchProfile(ctx context.Context, identityID string) {
	if identityID == "" {
		s.update(ctx, func(st *ports.SessionState) {
			st.Profile = nil
			st.Err = fmt.Errorf("%w: empty identity id", domain.ErrProfileNotFound)
		})
		return
	}

	var p domain.Profile
	if err := s.backend.SelectOne(ctx, ports.TableProfiles, ports.Filter{"id": identityID}, &p); err != nil {
		s.log.Error().Err(err).Str("identity_id", identityID).Msg("fetch profile")
		s.update(ctx, func(st *ports.SessionState) {
			st.Profile = nil
			st.Err = err
		})
		return
	}

	s.update(ctx, func(st *ports.SessionState) {
		// A profile is only cached next to the identity it belongs to.
		if st.Identity != nil && st.Identity.ID == identityID {
			st.Profile = &p
		}
	})
}

// Register creates an account and its "user" profile, then signs the visitor in.
func (s *Store) Register(ctx context.Context, email, password, fullName string) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	s.begin(ctx)

	if err := s.backend.SignUp(ctx, email, password); err != nil {
		s.fail(ctx, "register", err)
		return
	}

	user, err := s.backend.GetUser(ctx)
	if err != nil {
		s.fail(ctx, "register", err)
		return
	}
	if user == nil {
		s.fail(ctx, "register", domain.ErrIdentityMissing)
		return
	}

	// The profile carries the account's stored form of the address.
	profileEmail := user.Email
	if profileEmail == "" {
		profileEmail = domain.NormalizeEmail(email)
	}
	profile := domain.Profile{
		ID:       user.ID,
		Email:    profileEmail,
		FullName: fullName,
		Role:     domain.RoleUser,
	}
	if err := s.backend.Upsert(ctx, ports.TableProfiles, user.ID, &profile); err != nil {
		s.fail(ctx, "register", fmt.Errorf("%w: %w", domain.ErrPartialRegistration, err))
		return
	}

	u := *user
	s.update(ctx, func(st *ports.SessionState) {
		setIdentity(st, u)
		st.Busy = false
	})
	s.fetchProfile(ctx, u.ID)
}

// Login authenticates and returns the profile role for routing.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Role, bool) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	s.begin(ctx)

	user, err := s.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.fail(ctx, "login", err)
		return "", false
	}
	if user == nil {
		s.fail(ctx, "login", domain.ErrIdentityMissing)
		return "", false
	}

	u := *user
	s.update(ctx, func(st *ports.SessionState) {
		setIdentity(st, u)
		st.Busy = false
	})
	s.fetchProfile(ctx, u.ID)

	st := s.State()
	if st.Profile == nil {
		return "", false
	}
	return st.Profile.Role, true
}

// Logout signs out and clears the identity whether or not the backend agreed.
func (s *Store) Logout(ctx context.Context) {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	if err := s.backend.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("sign out")
	}
	s.update(ctx, func(st *ports.SessionState) {
		st.Identity = nil
		st.Profile = nil
	})
}

func (s *Store) begin(ctx context.Context) {
	s.update(ctx, func(st *ports.SessionState) {
		st.Busy = true
		st.Err = nil
	})
}

func (s *Store) fail(ctx context.Context, action string, err error) {
	s.log.Error().Err(err).Str("action", action).Msg("session action failed")
	s.update(ctx, func(st *ports.SessionState) {
		st.Busy = false
		st.Err = err
	})
}

// update applies fn under the state lock, persists the identity and notifies
// subscribers.
func (s *Store) update(ctx context.Context, fn func(st *ports.SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	if s.state.Identity == nil {
		s.state.Profile = nil
	}
	next := cloneState(s.state)
	subs := make([]func(ports.SessionState), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	s.persist(ctx, next.Identity)
	for _, sub := range subs {
		sub(cloneState(next))
	}
}

func (s *Store) persist(ctx context.Context, identity *domain.Identity) {
	if s.backing == nil {
		return
	}
	var snap snapshot
	snap.State.Identity = identity
	snap.Version = snapshotVersion

	data, err := json.Marshal(snap)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode session snapshot")
		return
	}
	// Written even when ctx is already cancelled.
	if err := s.backing.Write(context.WithoutCancel(ctx), s.key, data); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("write session snapshot")
	}
}

func setIdentity(st *ports.SessionState, user domain.Identity) {
	if st.Identity == nil || st.Identity.ID != user.ID {
		st.Profile = nil
	}
	st.Identity = &user
}

func cloneState(st ports.SessionState) ports.SessionState {
	out := st
	if st.Identity != nil {
		id := *st.Identity
		out.Identity = &id
	}
	if st.Profile != nil {
		p := *st.Profile
		out.Profile = &p
	}
	return out
}
