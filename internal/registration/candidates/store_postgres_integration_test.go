//go:build integration

package candidates_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"concours/internal/registration/candidates"
	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/sentinel"
	"concours/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *candidates.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = candidates.NewPostgresStore(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "candidates"))
}

func (s *PostgresStoreSuite) seed(number string) models.Candidate {
	candidate, err := models.NewCandidate(number, "Ada", "Lovelace", "ada@example.com", "", false, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), candidate))
	return candidate
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	candidate := s.seed("20260830-1")

	byID, err := s.store.FindByID(ctx, candidate.ID)
	s.Require().NoError(err)
	s.Assert().Equal(candidate.ApplicationNumber, byID.ApplicationNumber)
	s.Assert().Equal(models.StatusPending, byID.Status)

	byNumber, err := s.store.FindByApplicationNumber(ctx, candidate.ApplicationNumber)
	s.Require().NoError(err)
	s.Assert().Equal(candidate.ID, byNumber.ID)

	_, err = s.store.FindByID(ctx, domain.NewCandidateID())
	s.Assert().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateApplicationNumber() {
	s.seed("20260830-1")

	duplicate, err := models.NewCandidate("20260830-1", "Alan", "Turing", "alan@example.com", "", false, time.Now().UTC())
	s.Require().NoError(err)

	err = s.store.Create(context.Background(), duplicate)
	s.Assert().ErrorIs(err, sentinel.ErrConflict)
}

// TestPromoteExactlyOnce races 50 promotions of the same pending candidate;
// the WHERE status predicate must let exactly one through.
func (s *PostgresStoreSuite) TestPromoteExactlyOnce() {
	ctx := context.Background()
	candidate := s.seed("20260830-1")

	const goroutines = 50
	var (
		wg       sync.WaitGroup
		promoted atomic.Int32
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.store.Promote(ctx, candidate.ID)
			s.Assert().NoError(err)
			if ok {
				promoted.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Assert().Equal(int32(1), promoted.Load())

	reloaded, err := s.store.FindByID(ctx, candidate.ID)
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusValidated, reloaded.Status)
}

func (s *PostgresStoreSuite) TestUpdateStage() {
	ctx := context.Background()
	candidate := s.seed("20260830-1")

	s.Require().NoError(s.store.UpdateStage(ctx, candidate.ID, models.StageDocuments))

	reloaded, err := s.store.FindByID(ctx, candidate.ID)
	s.Require().NoError(err)
	s.Assert().Equal(models.StageDocuments, reloaded.Stage)

	err = s.store.UpdateStage(ctx, domain.NewCandidateID(), models.StagePayment)
	s.Assert().ErrorIs(err, sentinel.ErrNotFound)
}
