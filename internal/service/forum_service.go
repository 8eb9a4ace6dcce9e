package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/repository"
)

const (
	DefaultForumPageSize = 20
	MaxForumPageSize     = 100

	minPostTitle    = 3
	maxPostTitle    = 200
	maxPostBody     = 10000
	maxCommentBody  = 2000
	maxPostTags     = 5
	maxPostTagChars = 30
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostForbidden     = errors.New("post belongs to another user")
	ErrForumInvalidInput = errors.New("forum invalid input")
)

// ForumService expone la comunidad: publicaciones con comentarios.
type ForumService struct {
	logger *zap.Logger
	repo   repository.ForumRepository
}

func NewForumService(logger *zap.Logger, repo repository.ForumRepository) *ForumService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForumService{logger: logger, repo: repo}
}

type CreatePostInput struct {
	Title string
	Body  string
	Tags  []string
}

// NormalizePage aplica limite por defecto y maximo; offset negativo pasa a 0.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultForumPageSize
	}
	if limit > MaxForumPageSize {
		limit = MaxForumPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *ForumService) ListPosts(ctx context.Context, limit, offset int) ([]domain.ForumPost, error) {
	limit, offset = NormalizePage(limit, offset)
	return s.repo.ListPosts(ctx, limit, offset)
}

// GetPost devuelve la publicacion con sus comentarios, del mas viejo al mas nuevo.
func (s *ForumService) GetPost(ctx context.Context, id string) (domain.ForumPost, error) {
	post, err := s.repo.GetPost(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ForumPost{}, ErrPostNotFound
		}
		return domain.ForumPost{}, err
	}
	comments, err := s.repo.ListComments(ctx, post.ID)
	if err != nil {
		return domain.ForumPost{}, fmt.Errorf("list comments: %w", err)
	}
	post.Comments = comments
	return post, nil
}

func (s *ForumService) CreatePost(ctx context.Context, authorID string, input CreatePostInput) (domain.ForumPost, error) {
	title := strings.TrimSpace(input.Title)
	body := strings.TrimSpace(input.Body)
	if n := utf8.RuneCountInString(title); n < minPostTitle || n > maxPostTitle {
		return domain.ForumPost{}, fmt.Errorf("%w: title must be %d..%d characters", ErrForumInvalidInput, minPostTitle, maxPostTitle)
	}
	if n := utf8.RuneCountInString(body); n == 0 || n > maxPostBody {
		return domain.ForumPost{}, fmt.Errorf("%w: body must be 1..%d characters", ErrForumInvalidInput, maxPostBody)
	}

	post := domain.ForumPost{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Tags:      normalizeTags(input.Tags),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return domain.ForumPost{}, fmt.Errorf("create post: %w", err)
	}
	s.logger.Info("forum post created", zap.String("post_id", post.ID), zap.String("author_id", authorID))
	return post, nil
}

func (s *ForumService) AddComment(ctx context.Context, authorID, postID, body string) (domain.ForumComment, error) {
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > maxCommentBody {
		return domain.ForumComment{}, fmt.Errorf("%w: comment must be 1..%d characters", ErrForumInvalidInput, maxCommentBody)
	}
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ForumComment{}, ErrPostNotFound
		}
		return domain.ForumComment{}, err
	}

	comment := domain.ForumComment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return domain.ForumComment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// DeletePost solo lo permite al autor.
func (s *ForumService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != userID {
		return ErrPostForbidden
	}
	return s.repo.DeletePost(ctx, postID)
}

func (s *ForumService) CountContributions(ctx context.Context, authorID string) (int, error) {
	return s.repo.CountContributions(ctx, authorID)
}

// normalizeTags pasa a minusculas, descarta vacios y duplicados y corta en maxPostTags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || utf8.RuneCountInString(t) > maxPostTagChars {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxPostTags {
			break
		}
	}
	return out
}
