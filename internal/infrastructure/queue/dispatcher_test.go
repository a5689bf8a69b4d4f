package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

type recordingService struct {
	mu       sync.Mutex
	received []ports.FeedbackInput
	submitFn func(ports.FeedbackInput) error
}

func (s *recordingService) Submit(_ context.Context, in ports.FeedbackInput) error {
	s.mu.Lock()
	s.received = append(s.received, in)
	s.mu.Unlock()
	if s.submitFn != nil {
		return s.submitFn(in)
	}
	return nil
}

func (s *recordingService) Recent(context.Context, int) ([]*domain.Feedback, error) {
	return nil, nil
}

func (s *recordingService) messagesFrom(email string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, in := range s.received {
		if in.Email == email {
			out = append(out, in.Message)
		}
	}
	return out
}

func TestDispatcher_PerSenderOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(context.Background())

	messages := []string{"satu", "dua", "tiga", "empat", "lima"}
	for _, m := range messages {
		for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
			if err := d.Enqueue(context.Background(), ports.FeedbackInput{Name: "n", Email: email, Message: m}); err != nil {
				t.Fatalf("Enqueue: %v", err)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		got := svc.messagesFrom(email)
		if len(got) != len(messages) {
			t.Fatalf("%s: expected %d messages, got %d", email, len(messages), len(got))
		}
		for i := range messages {
			if got[i] != messages[i] {
				t.Fatalf("%s: out of order: %v", email, got)
			}
		}
	}
}

func TestDispatcher_ShardIsCaseInsensitive(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	if d.shardIndex("Ana@Example.com") != d.shardIndex(" ana@example.com") {
		t.Fatal("same sender must map to the same worker")
	}
}

func TestDispatcher_EnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(1, &recordingService{}, zerolog.Nop())
	d.Start(context.Background())
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Enqueue(context.Background(), ports.FeedbackInput{Email: "a@x.com"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcher_FailuresDoNotStopWorker(t *testing.T) {
	svc := &recordingService{submitFn: func(in ports.FeedbackInput) error {
		if in.Message == "bad" {
			return errors.New("db down")
		}
		return nil
	}}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	_ = d.Enqueue(context.Background(), ports.FeedbackInput{Email: "a@x.com", Message: "bad"})
	_ = d.Enqueue(context.Background(), ports.FeedbackInput{Email: "a@x.com", Message: "good"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := svc.messagesFrom("a@x.com"); len(got) != 2 {
		t.Fatalf("expected both messages processed, got %v", got)
	}
}

func TestResultOf(t *testing.T) {
	tests := map[string]error{
		"stored":    nil,
		"duplicate": domain.ErrDuplicateFeedback,
		"invalid":   errors.Join(errors.New("x"), domain.ErrInvalidFeedback),
		"error":     errors.New("boom"),
	}
	for want, err := range tests {
		if got := resultOf(err); got != want {
			t.Fatalf("resultOf(%v) = %q, want %q", err, got, want)
		}
	}
}
