package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// Table and bucket names shared with the hosted backend.
const (
	TableProfiles     = "profiles"
	TableDestinations = "negara_asia"
	TableFeedback     = "contact_us"
	BucketAvatars     = "avatars"
)

// Filter is an equality match on record columns.
type Filter map[string]any

// BackendClient is a handle to the hosted backend for one visitor. The
// authenticated session is ambient: it is held by the client, not passed in.
type BackendClient interface {
	// GetSession returns the current session, or nil when nobody is signed in.
	GetSession(ctx context.Context) (*domain.Session, error)
	GetUser(ctx context.Context) (*domain.Identity, error)
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error

	// SelectOne decodes the single record of table matching filter into dst.
	SelectOne(ctx context.Context, table string, filter Filter, dst any) error
	// Upsert inserts record under id or replaces the existing one.
	Upsert(ctx context.Context, table, id string, record any) error

	UploadFile(ctx context.Context, bucket, path string, data []byte) error
	PublicURL(bucket, path string) string
}

// Backing is a durable key-value medium that survives reloads.
type Backing interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, data []byte) error
}
