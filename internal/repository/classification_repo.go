package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"export-readiness/internal/domain"
)

// ClassificationRepository guarda una única clasificación por empresa.
type ClassificationRepository interface {
	Upsert(ctx context.Context, record domain.ClassificationRecord) (domain.ClassificationRecord, error)
	GetByCompanyID(ctx context.Context, companyID string) (domain.ClassificationRecord, error)
	List(ctx context.Context) ([]domain.ClassificationRecord, error)
	CountByCategory(ctx context.Context) (map[domain.Category]int, error)
}

type PgClassificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgClassificationRepository(pool *pgxpool.Pool) *PgClassificationRepository {
	return &PgClassificationRepository{pool: pool}
}

// Upsert crea o reemplaza la clasificación de la empresa. El lock advisory
// serializa escrituras concurrentes de la misma empresa entre procesos.
func (r *PgClassificationRepository) Upsert(ctx context.Context, record domain.ClassificationRecord) (saved domain.ClassificationRecord, err error) {
	const query = `
		INSERT INTO clasificaciones (id, company_id, scores, total_score, category, source, evaluated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (company_id)
		DO UPDATE SET
			scores = EXCLUDED.scores,
			total_score = EXCLUDED.total_score,
			category = EXCLUDED.category,
			source = EXCLUDED.source,
			evaluated_at = EXCLUDED.evaluated_at,
			updated_at = EXCLUDED.updated_at
		RETURNING id, company_id, scores, total_score, category, source, evaluated_at, created_at, updated_at
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return saved, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, record.CompanyID); err != nil {
		return saved, err
	}

	var category string
	err = tx.QueryRow(ctx, query,
		record.ID,
		record.CompanyID,
		record.Scores,
		record.TotalScore,
		string(record.Category),
		record.Source,
		record.EvaluatedAt,
		record.UpdatedAt,
	).Scan(
		&saved.ID,
		&saved.CompanyID,
		&saved.Scores,
		&saved.TotalScore,
		&category,
		&saved.Source,
		&saved.EvaluatedAt,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return domain.ClassificationRecord{}, err
	}
	saved.Category = domain.Category(category)

	if err = tx.Commit(ctx); err != nil {
		return domain.ClassificationRecord{}, err
	}
	return saved, nil
}

// GetByCompanyID devuelve pgx.ErrNoRows si la empresa no fue evaluada.
func (r *PgClassificationRepository) GetByCompanyID(ctx context.Context, companyID string) (domain.ClassificationRecord, error) {
	const query = `
		SELECT id, company_id, scores, total_score, category, source, evaluated_at, created_at, updated_at
		FROM clasificaciones
		WHERE company_id = $1
	`

	return scanRecord(r.pool.QueryRow(ctx, query, companyID))
}

func (r *PgClassificationRepository) List(ctx context.Context) ([]domain.ClassificationRecord, error) {
	const query = `
		SELECT c.id, c.company_id, c.scores, c.total_score, c.category, c.source, c.evaluated_at, c.created_at, c.updated_at
		FROM clasificaciones c
		JOIN empresas e ON e.id = c.company_id AND e.deleted_at IS NULL
		ORDER BY c.company_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ClassificationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *PgClassificationRepository) CountByCategory(ctx context.Context) (map[domain.Category]int, error) {
	const query = `
		SELECT c.category, COUNT(*)
		FROM clasificaciones c
		JOIN empresas e ON e.id = c.company_id AND e.deleted_at IS NULL
		GROUP BY c.category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Category]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[domain.Category(category)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

func scanRecord(row pgx.Row) (domain.ClassificationRecord, error) {
	var rec domain.ClassificationRecord
	var category string
	if err := row.Scan(
		&rec.ID,
		&rec.CompanyID,
		&rec.Scores,
		&rec.TotalScore,
		&category,
		&rec.Source,
		&rec.EvaluatedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return domain.ClassificationRecord{}, err
	}
	rec.Category = domain.Category(category)
	return rec, nil
}
