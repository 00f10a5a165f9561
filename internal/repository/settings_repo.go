package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository lee y escribe parámetros enteros editables por un admin.
type SettingsRepository interface {
	GetInts(ctx context.Context, keys []string) (map[string]int, error)
	SetInts(ctx context.Context, values map[string]int) error
}

type PgSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPgSettingsRepository(pool *pgxpool.Pool) *PgSettingsRepository {
	return &PgSettingsRepository{pool: pool}
}

// GetInts omite del resultado las claves que no estén guardadas.
func (r *PgSettingsRepository) GetInts(ctx context.Context, keys []string) (map[string]int, error) {
	const query = `
		SELECT key, value
		FROM configuraciones
		WHERE key = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make(map[string]int, len(keys))
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// SetInts guarda todas las claves en una sola transacción.
func (r *PgSettingsRepository) SetInts(ctx context.Context, values map[string]int) (err error) {
	const query = `
		INSERT INTO configuraciones (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	now := time.Now().UTC()
	for key, value := range values {
		if _, err = tx.Exec(ctx, query, key, value, now); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
