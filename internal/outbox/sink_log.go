package outbox

import (
	"context"
	"log/slog"
)

// LogSink writes events to the process log. Default sink when no broker is
// configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "outbox event",
		"kind", event.Kind,
		"candidate_id", event.CandidateID.String(),
		"payload", event.Payload,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
