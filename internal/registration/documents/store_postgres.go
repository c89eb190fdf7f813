package documents

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"concours/internal/platform/postgres"
	"concours/internal/registration/models"
	"concours/pkg/domain"
	"concours/pkg/sentinel"
)

const documentTable = "documents"

var documentColumns = []string{
	"id",
	"candidate_id",
	"kind",
	"storage_ref",
	"validation_state",
	"comment",
	"created_at",
	"updated_at",
}

// PostgresStore persists documents in the documents table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, document models.Document) error {
	query, args, _ := postgres.Builder().
		Insert(documentTable).
		Columns(documentColumns...).
		Values(
			document.ID.String(),
			document.CandidateID.String(),
			document.Kind,
			document.StorageRef,
			document.State,
			document.Comment,
			document.CreatedAt,
			document.UpdatedAt,
		).
		ToSql()

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create document: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DocumentID) (models.Document, error) {
	query, args, _ := postgres.Builder().
		Select(documentColumns...).
		From(documentTable).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	var document models.Document
	if err := pgxscan.Get(ctx, s.pool, &document, query, args...); err != nil {
		return models.Document{}, fmt.Errorf("find document: %w", postgres.TranslateError(err))
	}
	return document, nil
}

func (s *PostgresStore) Update(ctx context.Context, document models.Document) error {
	query, args, _ := postgres.Builder().
		Update(documentTable).
		Set("storage_ref", document.StorageRef).
		Set("validation_state", document.State).
		Set("comment", document.Comment).
		Set("updated_at", document.UpdatedAt).
		Where(squirrel.Eq{"id": document.ID.String()}).
		ToSql()

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID domain.CandidateID) ([]models.Document, error) {
	query, args, _ := postgres.Builder().
		Select(documentColumns...).
		From(documentTable).
		Where(squirrel.Eq{"candidate_id": candidateID.String()}).
		OrderBy("created_at ASC").
		ToSql()

	var documents []models.Document
	if err := pgxscan.Select(ctx, s.pool, &documents, query, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", postgres.TranslateError(err))
	}
	return documents, nil
}
