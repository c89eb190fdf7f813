package outbox

import (
	"context"
	"log/slog"
)

// QueueMetrics is the slice of process metrics the queue reports to.
type QueueMetrics interface {
	IncOutboxEnqueued(kind string)
	IncOutboxDropped()
}

// Queue is a channel-backed Outbox. Enqueue never blocks: when the buffer is
// full the event is dropped and counted, because a stalled notification
// pipeline must not stall document or payment writes.
type Queue struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics QueueMetrics
}

func NewQueue(size int, logger *slog.Logger, metrics QueueMetrics) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{
		inbox:   make(chan Event, size),
		logger:  logger,
		metrics: metrics,
	}
}

func (q *Queue) Enqueue(ctx context.Context, event Event) error {
	select {
	case q.inbox <- event:
		if q.metrics != nil {
			q.metrics.IncOutboxEnqueued(string(event.Kind))
		}
		return nil
	default:
		if q.metrics != nil {
			q.metrics.IncOutboxDropped()
		}
		q.logger.WarnContext(ctx, "outbox queue full, dropping event",
			"kind", event.Kind,
			"candidate_id", event.CandidateID.String(),
		)
		return nil
	}
}

// Inbox exposes the read side for the worker.
func (q *Queue) Inbox() <-chan Event { return q.inbox }
