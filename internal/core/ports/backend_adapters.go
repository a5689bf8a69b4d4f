package ports

import (
	"context"
	"io"
	"time"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// AccountRepository persists auth accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// TableStore is generic single-record access to backend tables.
type TableStore interface {
	FindOne(ctx context.Context, table string, filter Filter, dst any) error
	Upsert(ctx context.Context, table, id string, record any) error
}

// StoredFile is an object read back from file storage.
type StoredFile struct {
	Name string
	Size int64
	Body io.ReadCloser
}

// FileStorage keeps uploaded objects grouped in buckets.
type FileStorage interface {
	// Put stores data at path, replacing any existing object.
	Put(ctx context.Context, bucket, path string, data []byte) error
	Open(ctx context.Context, bucket, path string) (*StoredFile, error)
}

// TokenRevocations remembers access tokens that were signed out before expiry.
type TokenRevocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
