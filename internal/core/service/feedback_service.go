package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const defaultRecentFeedback = 6

type feedbackService struct {
	repo  ports.FeedbackRepository
	dedup ports.FeedbackDedup
	now   func() time.Time
	log   zerolog.Logger
}

// NewFeedbackService returns a FeedbackService implementation.
func NewFeedbackService(repo ports.FeedbackRepository, dedup ports.FeedbackDedup, log zerolog.Logger) ports.FeedbackService {
	return &feedbackService{
		repo:  repo,
		dedup: dedup,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// Submit validates, deduplicates and persists a single contact message.
func (s *feedbackService) Submit(ctx context.Context, in ports.FeedbackInput) error {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	message := strings.TrimSpace(in.Message)

	if name == "" || email == "" || message == "" {
		return fmt.Errorf("%w: name, email and message are required", domain.ErrInvalidFeedback)
	}
	if !domain.ValidEmail(email) {
		return fmt.Errorf("%w: invalid email", domain.ErrInvalidFeedback)
	}

	// Dedup failures fall through to storing the message.
	isDup, err := s.dedup.IsDuplicate(ctx, email, message)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("dedup check failed, storing anyway")
	} else if isDup {
		s.log.Debug().Str("email", email).Msg("duplicate feedback skipped")
		return domain.ErrDuplicateFeedback
	}

	fb := &domain.Feedback{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, fb); err != nil {
		return fmt.Errorf("submit feedback: %w", err)
	}

	if err := s.dedup.Mark(ctx, email, message); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to set dedup key")
	}

	s.log.Info().Str("feedback_id", fb.ID).Str("email", email).Msg("feedback stored")
	return nil
}

// Recent returns the newest messages first.
func (s *feedbackService) Recent(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	if limit <= 0 {
		limit = defaultRecentFeedback
	}
	items, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent feedback: %w", err)
	}
	return items, nil
}
