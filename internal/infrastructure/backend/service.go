// Package backend is the hosted backend the site talks to: email/password
// auth with bearer sessions, row access to a handful of tables and public file
// buckets. Each visitor gets a Client whose session token is kept in the
// visitor's persisted backing.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const (
	minPasswordLen = 6
	publicPrefix   = "/storage/v1/object/public/"
)

// Config wires a Service.
type Config struct {
	Accounts      ports.AccountRepository
	Tables        ports.TableStore
	Files         ports.FileStorage
	Revocations   ports.TokenRevocations
	Tokens        *TokenIssuer
	PublicBaseURL string
	Logger        zerolog.Logger
}

// Service holds the backend's shared state. It is safe for concurrent use.
type Service struct {
	accounts    ports.AccountRepository
	tables      ports.TableStore
	files       ports.FileStorage
	revocations ports.TokenRevocations
	tokens      *TokenIssuer
	baseURL     string
	log         zerolog.Logger
	now         func() time.Time
}

func NewService(cfg Config) *Service {
	return &Service{
		accounts:    cfg.Accounts,
		tables:      cfg.Tables,
		files:       cfg.Files,
		revocations: cfg.Revocations,
		tokens:      cfg.Tokens,
		baseURL:     strings.TrimRight(cfg.PublicBaseURL, "/"),
		log:         cfg.Logger,
		now:         time.Now,
	}
}

// ClientFor returns a client whose session token is stored in backing under key.
func (s *Service) ClientFor(backing ports.Backing, key string) *Client {
	return &Client{svc: s, backing: backing, key: key}
}

// PublicURL is the address GET /storage/v1/object/public serves path from.
func (s *Service) PublicURL(bucket, path string) string {
	return s.baseURL + publicPrefix + bucket + "/" + strings.TrimLeft(path, "/")
}

// OpenPublic reads a stored object for the public file route.
func (s *Service) OpenPublic(ctx context.Context, bucket, path string) (*ports.StoredFile, error) {
	return s.files.Open(ctx, bucket, path)
}

func (s *Service) createAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidSignUp)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidSignUp, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.log.Info().Str("identity_id", account.ID).Msg("account created")
	return account, nil
}

func (s *Service) verifyPassword(ctx context.Context, email, password string) (*domain.Account, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}
