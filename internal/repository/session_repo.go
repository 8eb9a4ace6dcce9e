package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-advisor/internal/domain"
)

// SessionRepository persiste sesiones de chat con el asesor.
type SessionRepository interface {
	Create(ctx context.Context, session domain.ChatSession) error
	GetByID(ctx context.Context, id string) (domain.ChatSession, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.ChatSession, error)
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.ChatSession) error {
	const query = `
		INSERT INTO chat_sessions (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.CreatedAt,
	)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.ChatSession, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE id = $1
	`
	var session domain.ChatSession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.CreatedAt,
	)
	if err != nil {
		return domain.ChatSession{}, err
	}
	return session, nil
}

func (r *PgSessionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	const query = `
		SELECT id, user_id, title, created_at
		FROM chat_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ChatSession{}
	for rows.Next() {
		var s domain.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
