package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"career-advisor/internal/domain"
)

// ForumRepository persiste publicaciones y comentarios de la comunidad.
type ForumRepository interface {
	CreatePost(ctx context.Context, post domain.ForumPost) error
	GetPost(ctx context.Context, id string) (domain.ForumPost, error)
	ListPosts(ctx context.Context, limit, offset int) ([]domain.ForumPost, error)
	DeletePost(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment domain.ForumComment) error
	ListComments(ctx context.Context, postID string) ([]domain.ForumComment, error)
	CountContributions(ctx context.Context, authorID string) (int, error)
}

type PgForumRepository struct {
	pool *pgxpool.Pool
}

func NewPgForumRepository(pool *pgxpool.Pool) *PgForumRepository {
	return &PgForumRepository{pool: pool}
}

func (r *PgForumRepository) CreatePost(ctx context.Context, post domain.ForumPost) error {
	const query = `
		INSERT INTO forum_posts (id, author_id, title, body, tags, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.pool.Exec(ctx, query, post.ID, post.AuthorID, post.Title, post.Body, tags, post.CreatedAt)
	return err
}

func (r *PgForumRepository) GetPost(ctx context.Context, id string) (domain.ForumPost, error) {
	const query = `
		SELECT id, author_id, title, body, tags, created_at
		FROM forum_posts
		WHERE id = $1
	`
	var p domain.ForumPost
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Tags, &p.CreatedAt)
	if err != nil {
		return domain.ForumPost{}, err
	}
	return p, nil
}

func (r *PgForumRepository) ListPosts(ctx context.Context, limit, offset int) ([]domain.ForumPost, error) {
	const query = `
		SELECT id, author_id, title, body, tags, created_at
		FROM forum_posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.ForumPost{}
	for rows.Next() {
		var p domain.ForumPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Tags, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PgForumRepository) DeletePost(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	return err
}

func (r *PgForumRepository) CreateComment(ctx context.Context, comment domain.ForumComment) error {
	const query = `
		INSERT INTO forum_comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt)
	return err
}

func (r *PgForumRepository) ListComments(ctx context.Context, postID string) ([]domain.ForumComment, error) {
	const query = `
		SELECT id, post_id, author_id, body, created_at
		FROM forum_comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.ForumComment{}
	for rows.Next() {
		var c domain.ForumComment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CountContributions suma publicaciones y comentarios de un autor.
func (r *PgForumRepository) CountContributions(ctx context.Context, authorID string) (int, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM forum_posts WHERE author_id = $1) +
			(SELECT COUNT(*) FROM forum_comments WHERE author_id = $1)
	`
	var n int
	err := r.pool.QueryRow(ctx, query, authorID).Scan(&n)
	return n, err
}
