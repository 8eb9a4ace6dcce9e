package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-advisor/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (id, session_id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		message.UserID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	const query = `
		SELECT id, session_id, user_id, role, content, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
