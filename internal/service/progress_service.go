package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/repository"
)

const maxProgressLabel = 100

var ErrProgressInvalidInput = errors.New("progress invalid input")

// ContributionCounter cuenta publicaciones y comentarios de un usuario.
type ContributionCounter interface {
	CountContributions(ctx context.Context, authorID string) (int, error)
}

// ProgressService registra avance de aprendizaje y deriva logros.
type ProgressService struct {
	logger      *zap.Logger
	progress    repository.ProgressRepository
	assessments repository.AssessmentRepository
	forum       ContributionCounter
}

type ProgressOverview struct {
	Items        []domain.ProgressItem `json:"items"`
	Achievements []domain.Achievement  `json:"achievements"`
}

func NewProgressService(logger *zap.Logger, progress repository.ProgressRepository, assessments repository.AssessmentRepository, forum ContributionCounter) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{logger: logger, progress: progress, assessments: assessments, forum: forum}
}

// Update hace upsert por (usuario, campo, skill); percent se acota a 0..100.
func (s *ProgressService) Update(ctx context.Context, userID, field, skill string, percent int) (domain.ProgressItem, error) {
	field = strings.TrimSpace(field)
	skill = strings.TrimSpace(skill)
	if field == "" || skill == "" ||
		utf8.RuneCountInString(field) > maxProgressLabel ||
		utf8.RuneCountInString(skill) > maxProgressLabel {
		return domain.ProgressItem{}, ErrProgressInvalidInput
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	item, err := s.progress.Upsert(ctx, domain.ProgressItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		Field:     field,
		Skill:     skill,
		Percent:   percent,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.ProgressItem{}, fmt.Errorf("upsert progress: %w", err)
	}
	return item, nil
}

func (s *ProgressService) Overview(ctx context.Context, userID string) (ProgressOverview, error) {
	items, err := s.progress.ListByUserID(ctx, userID)
	if err != nil {
		return ProgressOverview{}, fmt.Errorf("list progress: %w", err)
	}

	snapshot := ActivitySnapshot{Progress: items}
	if s.assessments != nil {
		if snapshot.Assessments, err = s.assessments.CountByUserID(ctx, userID); err != nil {
			return ProgressOverview{}, fmt.Errorf("count assessments: %w", err)
		}
	}
	if s.forum != nil {
		if snapshot.Contributions, err = s.forum.CountContributions(ctx, userID); err != nil {
			return ProgressOverview{}, fmt.Errorf("count contributions: %w", err)
		}
	}

	return ProgressOverview{
		Items:        items,
		Achievements: EvaluateAchievements(snapshot),
	}, nil
}
