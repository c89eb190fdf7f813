package outbox

import (
	"context"
	"log/slog"
)

// Worker drains queued events into a sink. Sink errors are logged and the
// event is abandoned; retry/at-least-once semantics belong to the sink, not
// to the engine.
type Worker struct {
	inbox  <-chan Event
	sink   Sink
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, sink Sink, logger *slog.Logger) *Worker {
	return &Worker{inbox: inbox, sink: sink, logger: logger}
}

// Run consumes events until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "outbox publish failed",
					"error", err,
					"kind", event.Kind,
					"candidate_id", event.CandidateID.String(),
				)
			}
		}
	}
}
