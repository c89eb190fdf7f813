package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"concours/internal/platform/postgres"
	"concours/internal/registration/models"
	"concours/pkg/domain"
)

const paymentTable = "payments"

var paymentColumns = []string{
	"id",
	"candidate_id",
	"amount",
	"method",
	"reference",
	"state",
	"created_at",
}

// PostgresStore persists payment attempts in the payments table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, payment models.Payment) error {
	query, args, _ := postgres.Builder().
		Insert(paymentTable).
		Columns(paymentColumns...).
		Values(
			payment.ID.String(),
			payment.CandidateID.String(),
			payment.Amount,
			payment.Method,
			payment.Reference,
			payment.State,
			payment.CreatedAt,
		).
		ToSql()

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create payment: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.PaymentID) (models.Payment, error) {
	return s.findOne(ctx, squirrel.Eq{"id": id.String()})
}

func (s *PostgresStore) FindByReference(ctx context.Context, reference string) (models.Payment, error) {
	return s.findOne(ctx, squirrel.Eq{"reference": reference})
}

func (s *PostgresStore) findOne(ctx context.Context, where squirrel.Eq) (models.Payment, error) {
	query, args, _ := postgres.Builder().
		Select(paymentColumns...).
		From(paymentTable).
		Where(where).
		ToSql()

	var payment models.Payment
	if err := pgxscan.Get(ctx, s.pool, &payment, query, args...); err != nil {
		return models.Payment{}, fmt.Errorf("find payment: %w", postgres.TranslateError(err))
	}
	return payment, nil
}

func (s *PostgresStore) UpdateState(ctx context.Context, id domain.PaymentID, state models.PaymentState) (models.Payment, error) {
	query, args, _ := postgres.Builder().
		Update(paymentTable).
		Set("state", state).
		Where(squirrel.Eq{"id": id.String()}).
		Suffix("RETURNING " + strings.Join(paymentColumns, ", ")).
		ToSql()

	var payment models.Payment
	if err := pgxscan.Get(ctx, s.pool, &payment, query, args...); err != nil {
		return models.Payment{}, fmt.Errorf("update payment state: %w", postgres.TranslateError(err))
	}
	return payment, nil
}

// CurrentForCandidate returns the latest attempt by created_at. Older
// attempts are never authoritative, whatever state they ended up in.
func (s *PostgresStore) CurrentForCandidate(ctx context.Context, candidateID domain.CandidateID) (models.Payment, error) {
	query, args, _ := postgres.Builder().
		Select(paymentColumns...).
		From(paymentTable).
		Where(squirrel.Eq{"candidate_id": candidateID.String()}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	var payment models.Payment
	if err := pgxscan.Get(ctx, s.pool, &payment, query, args...); err != nil {
		return models.Payment{}, fmt.Errorf("current payment: %w", postgres.TranslateError(err))
	}
	return payment, nil
}
