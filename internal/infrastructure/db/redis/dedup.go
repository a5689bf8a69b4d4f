package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const dedupTTL = 10 * time.Minute

// DedupChecker suppresses repeated contact-form messages backed by Redis.
// Key format: dedup:feedback:<email>:<sha256(message)>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.FeedbackDedup = (*DedupChecker)(nil)

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client, ttl: dedupTTL}
}

// IsDuplicate reports whether this sender already left this message recently.
func (d *DedupChecker) IsDuplicate(ctx context.Context, email, message string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(email, message)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records the message (expires after the dedup window).
func (d *DedupChecker) Mark(ctx context.Context, email, message string) error {
	return d.client.Set(ctx, d.key(email, message), "1", d.ttl).Err()
}

func (d *DedupChecker) key(email, message string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(message)))
	return fmt.Sprintf("dedup:feedback:%s:%s", strings.ToLower(email), hex.EncodeToString(sum[:]))
}
