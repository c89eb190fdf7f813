package candidates

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"concours/internal/platform/postgres"
	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

const candidateTable = "candidates"

var candidateColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"application_number",
	"stage",
	"status",
	"fee_exempt",
	"created_at",
	"updated_at",
}

// PostgresStore persists candidates in the candidates table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, candidate models.Candidate) error {
	query, args, _ := postgres.Builder().
		Insert(candidateTable).
		Columns(candidateColumns...).
		Values(
			candidate.ID.String(),
			candidate.FirstName,
			candidate.LastName,
			candidate.Email,
			candidate.Phone,
			candidate.ApplicationNumber,
			candidate.Stage,
			candidate.Status,
			candidate.FeeExempt,
			candidate.CreatedAt,
			candidate.UpdatedAt,
		).
		ToSql()

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create candidate: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.CandidateID) (models.Candidate, error) {
	return s.findOne(ctx, squirrel.Eq{"id": id.String()})
}

func (s *PostgresStore) FindByApplicationNumber(ctx context.Context, number string) (models.Candidate, error) {
	return s.findOne(ctx, squirrel.Eq{"application_number": number})
}

func (s *PostgresStore) findOne(ctx context.Context, where squirrel.Eq) (models.Candidate, error) {
	query, args, _ := postgres.Builder().
		Select(candidateColumns...).
		From(candidateTable).
		Where(where).
		ToSql()

	var candidate models.Candidate
	if err := pgxscan.Get(ctx, s.pool, &candidate, query, args...); err != nil {
		return models.Candidate{}, fmt.Errorf("find candidate: %w", postgres.TranslateError(err))
	}
	return candidate, nil
}

func (s *PostgresStore) UpdateProfile(ctx context.Context, candidate models.Candidate) error {
	query, args, _ := postgres.Builder().
		Update(candidateTable).
		Set("first_name", candidate.FirstName).
		Set("last_name", candidate.LastName).
		Set("email", candidate.Email).
		Set("phone", candidate.Phone).
		Set("updated_at", requestcontext.Now(ctx)).
		Where(squirrel.Eq{"id": candidate.ID.String()}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update candidate profile: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) UpdateStage(ctx context.Context, id domain.CandidateID, stage models.Stage) error {
	query, args, _ := postgres.Builder().
		Update(candidateTable).
		Set("stage", stage).
		Set("updated_at", requestcontext.Now(ctx)).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update candidate stage: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Promote performs the guarded one-way transition. The WHERE status='pending'
// predicate is what makes concurrent reevaluations promote at most once.
func (s *PostgresStore) Promote(ctx context.Context, id domain.CandidateID) (bool, error) {
	query, args, _ := postgres.Builder().
		Update(candidateTable).
		Set("status", models.StatusValidated).
		Set("updated_at", requestcontext.Now(ctx)).
		Where(squirrel.Eq{"id": id.String(), "status": models.StatusPending}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("promote candidate: %w", postgres.TranslateError(err))
	}
	return tag.RowsAffected() == 1, nil
}
