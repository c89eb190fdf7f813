package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records published events and can fail a fixed number of times.
type captureSink struct {
	mu       sync.Mutex
	events   []Event
	failures int
}

func (s *captureSink) Publish(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unreachable")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) published() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event{}, s.events...)
}

func TestWorkerRun(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	t.Run("drains queued events into the sink", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := NewQueue(8, log, nil)
		sink := &captureSink{}
		worker := NewWorker(queue.Inbox(), sink, log)

		done := make(chan error, 1)
		go func() { done <- worker.Run(ctx) }()

		first := testEvent(KindPaymentConfirmed)
		second := testEvent(KindCandidatureValidated)
		require.NoError(t, queue.Enqueue(ctx, first))
		require.NoError(t, queue.Enqueue(ctx, second))

		require.Eventually(t, func() bool {
			return len(sink.published()) == 2
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, []Event{first, second}, sink.published())

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	t.Run("survives sink failures", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		queue := NewQueue(8, log, nil)
		sink := &captureSink{failures: 1}
		worker := NewWorker(queue.Inbox(), sink, log)
		go func() { _ = worker.Run(ctx) }()

		lost := testEvent(KindPaymentConfirmed)
		delivered := testEvent(KindCandidatureValidated)
		require.NoError(t, queue.Enqueue(ctx, lost))
		require.NoError(t, queue.Enqueue(ctx, delivered))

		require.Eventually(t, func() bool {
			return len(sink.published()) == 1
		}, 2*time.Second, 10*time.Millisecond)
		assert.Equal(t, delivered, sink.published()[0], "the failed event is abandoned, the next one flows")
	})
}
