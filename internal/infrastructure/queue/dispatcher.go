package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/api/metrics"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrClosed is returned by Enqueue after Close.
var ErrClosed = errors.New("queue: dispatcher closed")

// Dispatcher routes contact-form submissions to a fixed set of workers by
// hashing the sender's email, so one sender's messages are handled in order
// and the dedup check never races with itself.
type Dispatcher struct {
	workers []chan ports.FeedbackInput
	service ports.FeedbackService
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.FeedbackQueue = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.FeedbackService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.FeedbackInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.FeedbackInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// their channel is drained after Close.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands input to the worker responsible for its email. It blocks
// while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, input ports.FeedbackInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(input.Email)
	select {
	case d.workers[idx] <- input:
		metrics.FeedbackQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting input and waits until the workers have drained their
// channels or ctx expires.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.FeedbackInput) {
	defer d.wg.Done()
	workerLabel := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case input, ok := <-ch:
			if !ok {
				return
			}
			metrics.FeedbackQueueDepth.WithLabelValues(workerLabel).Set(float64(len(ch)))

			start := time.Now()
			err := d.service.Submit(ctx, input)
			result := resultOf(err)
			metrics.FeedbackProcessedTotal.WithLabelValues(result).Inc()
			metrics.FeedbackProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())

			if result == "error" {
				d.log.Error().Err(err).
					Str("email", input.Email).
					Int("worker_id", id).
					Msg("feedback processing failed")
			}
		}
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return "stored"
	case errors.Is(err, domain.ErrDuplicateFeedback):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidFeedback):
		return "invalid"
	default:
		return "error"
	}
}
