// Package sequence allocates the daily-scoped, human-readable application
// numbers printed on every candidate-facing artifact. Two candidates sharing
// a number would be indistinguishable, so duplicates are a correctness
// failure: the increment must be a single atomic unit in the store, never a
// read-then-write pair.
package sequence

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	"concours/pkg/derrors"
	"concours/pkg/requestcontext"
)

const dateKeyLayout = "20060102"

var tracer = otel.Tracer("concours/registration/sequence")

// CounterStore atomically increments the counter for one day key and returns
// the new value. The first call for a new key must initialize it to 1
// idempotently (upsert-on-conflict, not insert-then-retry).
type CounterStore interface {
	Next(ctx context.Context, dateKey string) (int64, error)
}

// Metrics is the slice of process metrics the allocator reports to.
type Metrics interface {
	IncAllocated()
}

// Allocator hands out application numbers of the form "YYYYMMDD-n".
type Allocator struct {
	counters CounterStore
	logger   *slog.Logger
	metrics  Metrics
}

func NewAllocator(counters CounterStore, logger *slog.Logger, metrics Metrics) *Allocator {
	return &Allocator{counters: counters, logger: logger, metrics: metrics}
}

// NextApplicationNumber allocates the next number for the current day, read
// from the context clock. If the store is unavailable the call fails loudly;
// there is no fallback scheme.
func (a *Allocator) NextApplicationNumber(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "sequence.next_application_number")
	defer span.End()

	dateKey := requestcontext.Now(ctx).Format(dateKeyLayout)
	value, err := a.counters.Next(ctx, dateKey)
	if err != nil {
		a.logger.ErrorContext(ctx, "application number allocation failed",
			"error", err,
			"date_key", dateKey,
		)
		return "", derrors.Wrap(err, derrors.CodeStoreUnavailable, "allocate application number")
	}

	if a.metrics != nil {
		a.metrics.IncAllocated()
	}
	return fmt.Sprintf("%s-%d", dateKey, value), nil
}
