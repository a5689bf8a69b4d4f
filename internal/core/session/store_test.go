package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// fakeBackend is an in-memory hosted backend: accounts, one ambient session
// and a profiles table. Hooks override individual calls.
type fakeBackend struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount // by email
	profiles map[string]domain.Profile
	session  *domain.Session

	getSessionErr error
	signUpErr     error
	getUserFn     func() (*domain.Identity, error)
	upsertErr     error
	selectErr     error
	signOutErr    error

	signOutCalls int
}

type fakeAccount struct {
	id       string
	password string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		accounts: make(map[string]fakeAccount),
		profiles: make(map[string]domain.Profile),
	}
}

func (b *fakeBackend) seed(id, email, password string, p domain.Profile) {
	b.accounts[email] = fakeAccount{id: id, password: password}
	p.ID = id
	b.profiles[id] = p
}

func (b *fakeBackend) GetSession(context.Context) (*domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getSessionErr != nil {
		return nil, b.getSessionErr
	}
	if b.session == nil {
		return nil, nil
	}
	s := *b.session
	return &s, nil
}

func (b *fakeBackend) GetUser(context.Context) (*domain.Identity, error) {
	if b.getUserFn != nil {
		return b.getUserFn()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil, domain.ErrNoSession
	}
	u := b.session.User
	return &u, nil
}

func (b *fakeBackend) SignUp(_ context.Context, email, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.signUpErr != nil {
		return b.signUpErr
	}
	if _, ok := b.accounts[email]; ok {
		return domain.ErrUserExists
	}
	id := "id-" + email
	b.accounts[email] = fakeAccount{id: id, password: password}
	b.session = &domain.Session{AccessToken: "tok", User: domain.Identity{ID: id, Email: email}}
	return nil
}

func (b *fakeBackend) SignInWithPassword(_ context.Context, email, password string) (*domain.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acc, ok := b.accounts[email]
	if !ok || acc.password != password {
		return nil, domain.ErrInvalidCredentials
	}
	user := domain.Identity{ID: acc.id, Email: email}
	b.session = &domain.Session{AccessToken: "tok", User: user}
	return &user, nil
}

func (b *fakeBackend) SignOut(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signOutCalls++
	if b.signOutErr != nil {
		return b.signOutErr
	}
	b.session = nil
	return nil
}

func (b *fakeBackend) SelectOne(_ context.Context, table string, filter ports.Filter, dst any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selectErr != nil {
		return b.selectErr
	}
	if table != ports.TableProfiles {
		return domain.ErrRecordNotFound
	}
	id, _ := filter["id"].(string)
	p, ok := b.profiles[id]
	if !ok {
		return domain.ErrRecordNotFound
	}
	*(dst.(*domain.Profile)) = p
	return nil
}

func (b *fakeBackend) Upsert(_ context.Context, table, id string, record any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.upsertErr != nil {
		return b.upsertErr
	}
	if table == ports.TableProfiles {
		b.profiles[id] = *(record.(*domain.Profile))
	}
	return nil
}

func (b *fakeBackend) UploadFile(context.Context, string, string, []byte) error { return nil }

func (b *fakeBackend) PublicURL(bucket, path string) string { return "/" + bucket + "/" + path }

type memBacking struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemBacking() *memBacking {
	return &memBacking{data: make(map[string][]byte)}
}

func (m *memBacking) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBacking) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func newTestStore(b *fakeBackend, backing ports.Backing) *Store {
	return NewStore(context.Background(), Config{Backend: b, Backing: backing, Logger: zerolog.Nop()})
}

// ---------------------------------------------------------------------------
// CheckSession
// ---------------------------------------------------------------------------

func TestCheckSession_NoSessionLeavesAnonymous(t *testing.T) {
	backing := newMemBacking()
	_ = backing.Write(context.Background(), DefaultKey, []byte(`{"state":{"identity":{"id":"stale","email":"x@y.z"}},"version":0}`))

	s := newTestStore(newFakeBackend(), backing)
	if s.State().Identity == nil {
		t.Fatalf("expected rehydrated identity before check")
	}

	for i := 0; i < 3; i++ {
		s.CheckSession(context.Background())
		st := s.State()
		if st.Identity != nil || st.Profile != nil {
			t.Fatalf("call %d: expected anonymous state, got %+v", i, st)
		}
	}
}

func TestCheckSession_ActiveSessionLoadsProfile(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	b.session = &domain.Session{User: domain.Identity{ID: "u1", Email: "ana@example.com"}}

	s := newTestStore(b, nil)
	s.CheckSession(context.Background())

	st := s.State()
	if st.Identity == nil || st.Identity.ID != "u1" {
		t.Fatalf("expected identity u1, got %+v", st.Identity)
	}
	if st.Profile == nil || st.Profile.FullName != "Ana" || st.Profile.Role != domain.RoleUser {
		t.Fatalf("unexpected profile: %+v", st.Profile)
	}
}

func TestCheckSession_BackendErrorClearsState(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	b.session = &domain.Session{User: domain.Identity{ID: "u1"}}

	s := newTestStore(b, nil)
	s.CheckSession(context.Background())

	b.getSessionErr = errors.New("backend unreachable")
	s.CheckSession(context.Background())

	st := s.State()
	if st.Identity != nil || st.Profile != nil {
		t.Fatalf("expected cleared state, got %+v", st)
	}
	if st.Err == nil {
		t.Fatalf("expected recorded error")
	}
}

func TestCheckSession_Idempotent(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleAdmin})
	b.session = &domain.Session{User: domain.Identity{ID: "u1", Email: "ana@example.com"}}

	s := newTestStore(b, nil)
	s.CheckSession(context.Background())
	first := s.State()
	s.CheckSession(context.Background())
	second := s.State()

	if *first.Identity != *second.Identity || *first.Profile != *second.Profile ||
		first.Busy != second.Busy || first.Err != second.Err {
		t.Fatalf("state changed between calls: %+v vs %+v", first, second)
	}
}

// ---------------------------------------------------------------------------
// FetchProfile
// ---------------------------------------------------------------------------

func TestFetchProfile_FailureDegradesToProfileless(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	b.session = &domain.Session{User: domain.Identity{ID: "u1"}}

	s := newTestStore(b, nil)
	s.CheckSession(context.Background())

	b.selectErr = errors.New("timeout")
	s.FetchProfile(context.Background(), "u1")

	st := s.State()
	if st.Identity == nil {
		t.Fatalf("identity must survive a profile failure")
	}
	if st.Profile != nil {
		t.Fatalf("expected nil profile, got %+v", st.Profile)
	}
	if st.Err == nil {
		t.Fatalf("expected recorded error")
	}
	if got := st.Profile.DisplayName(); got != "Profile" {
		t.Fatalf("expected placeholder name, got %q", got)
	}
}

func TestFetchProfile_IgnoredWithoutMatchingIdentity(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})

	s := newTestStore(b, nil)
	s.FetchProfile(context.Background(), "u1")

	if st := s.State(); st.Profile != nil {
		t.Fatalf("profile cached without identity: %+v", st.Profile)
	}
}

func TestFetchProfile_EmptyID(t *testing.T) {
	s := newTestStore(newFakeBackend(), nil)
	s.FetchProfile(context.Background(), "")

	if err := s.State().Err; !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestLogin_ReturnsPersistedRole(t *testing.T) {
	b := newFakeBackend()
	b.seed("a1", "admin@example.com", "s3cret", domain.Profile{FullName: "Admin", Role: domain.RoleAdmin})

	s := newTestStore(b, nil)
	role, ok := s.Login(context.Background(), "admin@example.com", "s3cret")
	if !ok {
		t.Fatalf("expected ok, state: %+v", s.State())
	}

	st := s.State()
	if st.Identity == nil || st.Identity.ID != "a1" {
		t.Fatalf("unexpected identity: %+v", st.Identity)
	}
	if st.Profile == nil || role != st.Profile.Role || role != domain.RoleAdmin {
		t.Fatalf("role %q does not match profile %+v", role, st.Profile)
	}
	if st.Busy {
		t.Fatalf("busy should be cleared")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := newFakeBackend()
	b.seed("a1", "ana@example.com", "right", domain.Profile{Role: domain.RoleUser})

	s := newTestStore(b, nil)
	role, ok := s.Login(context.Background(), "ana@example.com", "wrong")
	if ok || role != "" {
		t.Fatalf("expected no role, got %q %v", role, ok)
	}

	st := s.State()
	if st.Identity != nil || st.Profile != nil {
		t.Fatalf("expected anonymous state, got %+v", st)
	}
	if !errors.Is(st.Err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", st.Err)
	}
	if st.Busy {
		t.Fatalf("busy should be cleared")
	}
}

func TestLogin_ProfileMissingReturnsNoRole(t *testing.T) {
	b := newFakeBackend()
	b.accounts["ghost@example.com"] = fakeAccount{id: "g1", password: "pw"}

	s := newTestStore(b, nil)
	role, ok := s.Login(context.Background(), "ghost@example.com", "pw")
	if ok || role != "" {
		t.Fatalf("expected no role, got %q %v", role, ok)
	}
	if st := s.State(); st.Identity == nil || st.Profile != nil {
		t.Fatalf("expected authenticated without profile, got %+v", st)
	}
}

func TestLogin_PersistenceRoundTrip(t *testing.T) {
	b := newFakeBackend()
	b.seed("u7", "rina@example.com", "pw", domain.Profile{FullName: "Rina", Role: domain.RoleUser})
	backing := newMemBacking()

	s := newTestStore(b, backing)
	if _, ok := s.Login(context.Background(), "rina@example.com", "pw"); !ok {
		t.Fatalf("login failed: %v", s.State().Err)
	}

	raw, ok, _ := backing.Read(context.Background(), DefaultKey)
	if !ok {
		t.Fatalf("snapshot not written")
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("snapshot is not json: %v", err)
	}
	if _, hasProfile := decoded["state"].(map[string]any)["profile"]; hasProfile {
		t.Fatalf("profile must not be persisted: %s", raw)
	}

	fresh := newTestStore(newFakeBackend(), backing)
	st := fresh.State()
	if st.Identity == nil || st.Identity.ID != "u7" {
		t.Fatalf("expected rehydrated identity u7, got %+v", st.Identity)
	}
	if st.Profile != nil {
		t.Fatalf("profile should not be rehydrated")
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegister_CreatesUserProfile(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b, nil)

	s.Register(context.Background(), "budi@example.com", "pw123456", "Budi")

	st := s.State()
	if st.Err != nil {
		t.Fatalf("unexpected error: %v", st.Err)
	}
	if st.Identity == nil || st.Identity.Email != "budi@example.com" {
		t.Fatalf("unexpected identity: %+v", st.Identity)
	}
	if st.Profile == nil || st.Profile.Role != domain.RoleUser || st.Profile.FullName != "Budi" {
		t.Fatalf("unexpected profile: %+v", st.Profile)
	}
	if stored := b.profiles[st.Identity.ID]; stored.Role != domain.RoleUser {
		t.Fatalf("stored role = %q", stored.Role)
	}
}

func TestRegister_ProfileUsesAccountEmail(t *testing.T) {
	b := newFakeBackend()
	b.getUserFn = func() (*domain.Identity, error) {
		return &domain.Identity{ID: "u9", Email: "budi@example.com"}, nil
	}
	s := newTestStore(b, nil)

	s.Register(context.Background(), " Budi@Example.COM ", "pw123456", "Budi")

	if st := s.State(); st.Err != nil {
		t.Fatalf("unexpected error: %v", st.Err)
	}
	if got := b.profiles["u9"].Email; got != "budi@example.com" {
		t.Fatalf("profile email = %q, want the account's normalised address", got)
	}
}

func TestRegister_SignUpFailure(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "taken@example.com", "pw", domain.Profile{Role: domain.RoleUser})
	s := newTestStore(b, nil)

	s.Register(context.Background(), "taken@example.com", "pw", "Dup")

	st := s.State()
	if !errors.Is(st.Err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", st.Err)
	}
	if st.Identity != nil || st.Busy {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestRegister_IdentityMissing(t *testing.T) {
	b := newFakeBackend()
	b.getUserFn = func() (*domain.Identity, error) { return nil, nil }
	s := newTestStore(b, nil)

	s.Register(context.Background(), "new@example.com", "pw", "New")

	if err := s.State().Err; !errors.Is(err, domain.ErrIdentityMissing) {
		t.Fatalf("expected ErrIdentityMissing, got %v", err)
	}
}

func TestRegister_ProfileFailureIsPartial(t *testing.T) {
	b := newFakeBackend()
	b.upsertErr = errors.New("write rejected")
	s := newTestStore(b, nil)

	s.Register(context.Background(), "half@example.com", "pw", "Half")

	st := s.State()
	if !errors.Is(st.Err, domain.ErrPartialRegistration) {
		t.Fatalf("expected ErrPartialRegistration, got %v", st.Err)
	}
	if st.Identity != nil || st.Profile != nil || st.Busy {
		t.Fatalf("unexpected state: %+v", st)
	}
	if _, ok := b.accounts["half@example.com"]; !ok {
		t.Fatalf("account should remain")
	}
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func TestLogout_ClearsEvenWhenSignOutFails(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	backing := newMemBacking()
	s := newTestStore(b, backing)
	if _, ok := s.Login(context.Background(), "ana@example.com", "pw"); !ok {
		t.Fatalf("login failed")
	}

	b.signOutErr = errors.New("network down")
	s.Logout(context.Background())

	st := s.State()
	if st.Identity != nil || st.Profile != nil {
		t.Fatalf("expected cleared state, got %+v", st)
	}
	if b.signOutCalls != 1 {
		t.Fatalf("expected one sign out call, got %d", b.signOutCalls)
	}

	fresh := newTestStore(newFakeBackend(), backing)
	if fresh.State().Identity != nil {
		t.Fatalf("snapshot still holds identity after logout")
	}
}

// ---------------------------------------------------------------------------
// Subscriptions and concurrency
// ---------------------------------------------------------------------------

func TestSubscribe_NotifiesUntilUnsubscribed(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	s := newTestStore(b, nil)

	var seen []ports.SessionState
	unsubscribe := s.Subscribe(func(st ports.SessionState) { seen = append(seen, st) })

	s.Login(context.Background(), "ana@example.com", "pw")
	if len(seen) == 0 {
		t.Fatalf("expected notifications")
	}
	if !seen[0].Busy {
		t.Fatalf("first notification should mark busy")
	}
	last := seen[len(seen)-1]
	if last.Profile == nil || last.Profile.FullName != "Ana" {
		t.Fatalf("last notification missing profile: %+v", last)
	}

	unsubscribe()
	n := len(seen)
	s.Logout(context.Background())
	if len(seen) != n {
		t.Fatalf("notified after unsubscribe")
	}
}

func TestState_ReturnsCopies(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	s := newTestStore(b, nil)
	s.Login(context.Background(), "ana@example.com", "pw")

	st := s.State()
	st.Profile.Role = domain.RoleAdmin
	st.Identity.ID = "hijacked"

	again := s.State()
	if again.Profile.Role != domain.RoleUser || again.Identity.ID != "u1" {
		t.Fatalf("state mutated through projection: %+v", again)
	}
}

func TestConcurrentLoginAndLogout_KeepsInvariant(t *testing.T) {
	b := newFakeBackend()
	b.seed("u1", "ana@example.com", "pw", domain.Profile{FullName: "Ana", Role: domain.RoleUser})
	s := newTestStore(b, newMemBacking())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Login(context.Background(), "ana@example.com", "pw")
		}()
		go func() {
			defer wg.Done()
			s.Logout(context.Background())
		}()
	}
	wg.Wait()

	st := s.State()
	if st.Profile != nil && st.Identity == nil {
		t.Fatalf("profile without identity: %+v", st)
	}
	if st.Busy {
		t.Fatalf("busy left set")
	}
}
