package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// Client is one visitor's handle on the backend. The current access token is
// read from and written to the visitor's backing, so a fresh Client after a
// restart picks up where the old one left off.
type Client struct {
	svc     *Service
	backing ports.Backing
	key     string

	mu sync.Mutex
}

var _ ports.BackendClient = (*Client)(nil)

// GetSession validates the stored token. An absent, expired, revoked or
// orphaned token yields (nil, nil) and is discarded.
func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session(ctx)
}

func (c *Client) GetUser(ctx context.Context) (*domain.Identity, error) {
	sess, err := c.GetSession(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	user := sess.User
	return &user, nil
}

// SignUp creates the account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	account, err := c.svc.createAccount(ctx, email, password)
	if err != nil {
		return err
	}
	_, err = c.startSession(ctx, domain.Identity{ID: account.ID, Email: account.Email})
	return err
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	account, err := c.svc.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user := domain.Identity{ID: account.ID, Email: account.Email}
	if _, err := c.startSession(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut revokes the token for its remaining lifetime. The stored token is
// cleared even when revocation fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, err := c.loadToken(ctx)
	if err != nil || token == "" {
		return err
	}
	defer c.clearToken(ctx)

	if err := c.revokeToken(ctx, token); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (c *Client) SelectOne(ctx context.Context, table string, filter ports.Filter, dst any) error {
	return c.svc.tables.FindOne(ctx, table, filter, dst)
}

// Upsert writes a record. Profile rows may only be written by their owner.
func (c *Client) Upsert(ctx context.Context, table, id string, record any) error {
	if table == ports.TableProfiles {
		user, err := c.GetUser(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUnauthenticated
		}
		if user.ID != id {
			return domain.ErrForbidden
		}
	}
	return c.svc.tables.Upsert(ctx, table, id, record)
}

// UploadFile stores data at path, replacing any existing object. Uploads
// require a session.
func (c *Client) UploadFile(ctx context.Context, bucket, path string, data []byte) error {
	user, err := c.GetUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUnauthenticated
	}
	return c.svc.files.Put(ctx, bucket, path, data)
}

func (c *Client) PublicURL(bucket, path string) string {
	return c.svc.PublicURL(bucket, path)
}

func (c *Client) session(ctx context.Context) (*domain.Session, error) {
	token, err := c.loadToken(ctx)
	if err != nil || token == "" {
		return nil, err
	}

	claims, err := c.svc.tokens.Parse(token)
	if err != nil {
		c.clearToken(ctx)
		return nil, nil
	}

	revoked, err := c.svc.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if revoked {
		c.clearToken(ctx)
		return nil, nil
	}

	account, err := c.svc.accounts.FindByID(ctx, claims.Subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.clearToken(ctx)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &domain.Session{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        domain.Identity{ID: account.ID, Email: account.Email},
	}, nil
}

// revokeToken revokes token for its remaining lifetime. A token that no longer
// parses is already unusable and is skipped.
func (c *Client) revokeToken(ctx context.Context, token string) error {
	claims, err := c.svc.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return c.svc.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(c.svc.now()))
}

// startSession issues a token for user, revoking the one it replaces.
func (c *Client) startSession(ctx context.Context, user domain.Identity) (*Claims, error) {
	if previous, err := c.loadToken(ctx); err == nil && previous != "" {
		if err := c.revokeToken(ctx, previous); err != nil {
			c.svc.log.Warn().Err(err).Str("key", c.key).Msg("revoke replaced session token")
		}
	}

	token, claims, err := c.svc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := c.backing.Write(ctx, c.key, []byte(token)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return claims, nil
}

func (c *Client) loadToken(ctx context.Context) (string, error) {
	data, ok, err := c.backing.Read(ctx, c.key)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

func (c *Client) clearToken(ctx context.Context) {
	if err := c.backing.Write(context.WithoutCancel(ctx), c.key, nil); err != nil {
		c.svc.log.Warn().Err(err).Str("key", c.key).Msg("clear session token")
	}
}
