//go:build integration

package sequence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"concours/internal/registration/sequence"
	"concours/pkg/testutil/containers"
)

type PostgresCounterSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *sequence.PostgresCounterStore
}

func TestPostgresCounterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCounterSuite))
}

func (s *PostgresCounterSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = sequence.NewPostgresCounterStore(s.postgres.Pool)
}

func (s *PostgresCounterSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "sequence_counters"))
}

// TestConcurrentIncrementsAreDistinct drives the upsert-returning statement
// from many goroutines at once: every caller must observe a distinct value and
// the final counter must equal the number of calls.
func (s *PostgresCounterSuite) TestConcurrentIncrementsAreDistinct() {
	ctx := context.Background()
	const callers = 50

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values = make(map[int64]struct{}, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := s.store.Next(ctx, "20260830")
			s.Assert().NoError(err)
			mu.Lock()
			values[value] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Require().Len(values, callers)
	for i := int64(1); i <= callers; i++ {
		s.Assert().Contains(values, i)
	}
}

func (s *PostgresCounterSuite) TestDayKeysAreIndependent() {
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		value, err := s.store.Next(ctx, "20260830")
		s.Require().NoError(err)
		s.Assert().Equal(i, value)
	}

	value, err := s.store.Next(ctx, "20260831")
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), value, "a fresh day key starts over at 1")
}
