package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"concours/internal/platform/postgres"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

const sessionTable = "sessions"

var sessionColumns = []string{
	"id",
	"candidate_id",
	"token",
	"expires_at",
	"created_at",
}

// sessionRow is the scan target; candidate_id is nullable.
type sessionRow struct {
	ID          uuid.UUID  `db:"id"`
	CandidateID *uuid.UUID `db:"candidate_id"`
	Token       string     `db:"token"`
	ExpiresAt   time.Time  `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

func (r sessionRow) toSession() Session {
	session := Session{
		ID:        domain.SessionID(r.ID),
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
	if r.CandidateID != nil {
		id := domain.CandidateID(*r.CandidateID)
		session.CandidateID = &id
	}
	return session
}

// PostgresStore persists sessions in the sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, session Session) error {
	var candidateID *string
	if session.CandidateID != nil {
		v := session.CandidateID.String()
		candidateID = &v
	}

	query, args, _ := postgres.Builder().
		Insert(sessionTable).
		Columns(sessionColumns...).
		Values(
			session.ID.String(),
			candidateID,
			session.Token,
			session.ExpiresAt,
			session.CreatedAt,
		).
		ToSql()

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create session: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByToken(ctx context.Context, token string) (Session, error) {
	return s.findOne(ctx, squirrel.Eq{"token": token}, "")
}

func (s *PostgresStore) FindLiveByCandidate(ctx context.Context, candidateID domain.CandidateID) (Session, error) {
	return s.findOne(ctx,
		squirrel.Eq{"candidate_id": candidateID.String()},
		"expires_at DESC",
		squirrel.Gt{"expires_at": requestcontext.Now(ctx)},
	)
}

func (s *PostgresStore) findOne(ctx context.Context, eq squirrel.Eq, orderBy string, extra ...squirrel.Sqlizer) (Session, error) {
	builder := postgres.Builder().
		Select(sessionColumns...).
		From(sessionTable).
		Where(eq)
	for _, cond := range extra {
		builder = builder.Where(cond)
	}
	if orderBy != "" {
		builder = builder.OrderBy(orderBy)
	}
	query, args, _ := builder.Limit(1).ToSql()

	var row sessionRow
	if err := pgxscan.Get(ctx, s.pool, &row, query, args...); err != nil {
		return Session{}, fmt.Errorf("find session: %w", postgres.TranslateError(err))
	}
	return row.toSession(), nil
}

func (s *PostgresStore) UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	query, args, _ := postgres.Builder().
		Update(sessionTable).
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"token": token}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update session expiry: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByToken(ctx context.Context, token string) error {
	query, args, _ := postgres.Builder().
		Delete(sessionTable).
		Where(squirrel.Eq{"token": token}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete session: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, _ := postgres.Builder().
		Delete(sessionTable).
		Where(squirrel.LtOrEq{"expires_at": requestcontext.Now(ctx)}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", postgres.TranslateError(err))
	}
	return tag.RowsAffected(), nil
}
