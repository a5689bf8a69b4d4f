package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// FeedbackInput is a contact-form submission.
type FeedbackInput struct {
	Name    string
	Email   string
	Message string
}

// FeedbackService records and lists contact-form messages.
type FeedbackService interface {
	Submit(ctx context.Context, input FeedbackInput) error
	Recent(ctx context.Context, limit int) ([]*domain.Feedback, error)
}

// FeedbackQueue accepts contact-form submissions for asynchronous processing.
type FeedbackQueue interface {
	Enqueue(ctx context.Context, input FeedbackInput) error
}
