package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// FeedbackRepository persists contact-form messages.
type FeedbackRepository interface {
	Insert(ctx context.Context, f *domain.Feedback) error
	// Recent returns up to limit messages, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.Feedback, error)
}

// FeedbackDedup suppresses identical submissions within a short window.
type FeedbackDedup interface {
	IsDuplicate(ctx context.Context, email, message string) (bool, error)
	Mark(ctx context.Context, email, message string) error
}
