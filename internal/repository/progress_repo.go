package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-advisor/internal/domain"
)

// ProgressRepository persiste el avance de aprendizaje por (usuario, campo, skill).
type ProgressRepository interface {
	Upsert(ctx context.Context, item domain.ProgressItem) (domain.ProgressItem, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.ProgressItem, error)
}

type PgProgressRepository struct {
	pool *pgxpool.Pool
}

func NewPgProgressRepository(pool *pgxpool.Pool) *PgProgressRepository {
	return &PgProgressRepository{pool: pool}
}

// Upsert devuelve la fila resultante; en conflicto conserva el id original.
func (r *PgProgressRepository) Upsert(ctx context.Context, item domain.ProgressItem) (domain.ProgressItem, error) {
	const query = `
		INSERT INTO learning_progress (id, user_id, field, skill, percent, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, field, skill)
		DO UPDATE SET
			percent = EXCLUDED.percent,
			updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, field, skill, percent, updated_at
	`
	var out domain.ProgressItem
	err := r.pool.QueryRow(ctx, query,
		item.ID,
		item.UserID,
		item.Field,
		item.Skill,
		item.Percent,
		item.UpdatedAt,
	).Scan(&out.ID, &out.UserID, &out.Field, &out.Skill, &out.Percent, &out.UpdatedAt)
	if err != nil {
		return domain.ProgressItem{}, err
	}
	return out, nil
}

func (r *PgProgressRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ProgressItem, error) {
	const query = `
		SELECT id, user_id, field, skill, percent, updated_at
		FROM learning_progress
		WHERE user_id = $1
		ORDER BY field, skill
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ProgressItem{}
	for rows.Next() {
		var it domain.ProgressItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Field, &it.Skill, &it.Percent, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
