package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/email"
	"career-advisor/internal/metrics"
	"career-advisor/internal/repository"
)

var (
	ErrNoAnswers          = errors.New("at least one answer is required")
	ErrUnknownQuestion    = errors.New("unknown question id")
	ErrAnswerOutOfRange   = errors.New("answer out of range")
	ErrAssessmentNotFound = errors.New("assessment not found")
)

// Elaborator agrega texto generado por LLM sobre los campos recomendados.
type Elaborator interface {
	Elaborate(ctx context.Context, scores domain.TraitScores, interp domain.TraitInterpretation, matches []domain.FieldMatch) (*domain.CareerElaboration, error)
}

// AssessmentService puntua cuestionarios OCEAN, recomienda campos y persiste el resultado.
type AssessmentService struct {
	logger      *zap.Logger
	repo        repository.AssessmentRepository
	recommender FieldRecommender
	questions   []domain.SurveyQuestion
	index       map[string]domain.SurveyQuestion
	fields      []domain.FieldDefinition
	maxResults  int

	elaborator Elaborator
	users      repository.UserRepository
	mailer     email.Sender
	cache      ProfileCache

	// goFn lanza el envio del reporte; los tests lo hacen sincronico.
	goFn func(func())
}

type AssessmentOption func(*AssessmentService)

// WithElaborator habilita la explicacion por LLM.
func WithElaborator(e Elaborator) AssessmentOption {
	return func(s *AssessmentService) { s.elaborator = e }
}

// WithReportMailer envia el reporte por email tras cada assessment.
func WithReportMailer(users repository.UserRepository, mailer email.Sender) AssessmentOption {
	return func(s *AssessmentService) {
		s.users = users
		s.mailer = mailer
	}
}

// WithProfileCache invalida el perfil cacheado del asesor al guardar un resultado nuevo.
func WithProfileCache(cache ProfileCache) AssessmentOption {
	return func(s *AssessmentService) { s.cache = cache }
}

func NewAssessmentService(
	logger *zap.Logger,
	repo repository.AssessmentRepository,
	recommender FieldRecommender,
	maxResults int,
	opts ...AssessmentOption,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recommender == nil {
		recommender = NewRuleRecommender(nil)
	}
	questions := DefaultQuestionBank()
	s := &AssessmentService{
		logger:      logger,
		repo:        repo,
		recommender: recommender,
		questions:   questions,
		index:       QuestionIndex(questions),
		fields:      DefaultCareerFields(),
		maxResults:  maxResults,
		cache:       noopProfileCache{},
		goFn:        func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Questions devuelve una copia del cuestionario.
func (s *AssessmentService) Questions() []domain.SurveyQuestion {
	return append([]domain.SurveyQuestion(nil), s.questions...)
}

// ValidateAnswers exige al menos una respuesta, IDs conocidos y valores en la escala Likert.
func (s *AssessmentService) ValidateAnswers(answers map[string]int) error {
	if len(answers) == 0 {
		return ErrNoAnswers
	}
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := s.index[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
		}
		if v := answers[id]; v < LikertMin || v > LikertMax {
			return fmt.Errorf("%w: %s=%d (want %d..%d)", ErrAnswerOutOfRange, id, v, LikertMin, LikertMax)
		}
	}
	return nil
}

// Score corre el pipeline puro sin persistir.
func (s *AssessmentService) Score(answers map[string]int) (domain.TraitScores, domain.TraitInterpretation, []domain.FieldMatch) {
	scores := AggregateScores(answers, s.questions)
	interp := InterpretTraits(scores)
	matches := s.recommender.Recommend(scores, s.fields, s.maxResults)
	return scores, interp, matches
}

// Submit valida, puntua, elabora (opcional) y persiste. Un fallo del LLM no impide guardar:
// el resultado queda con Elaboration nil.
func (s *AssessmentService) Submit(ctx context.Context, userID string, answers map[string]int) (domain.AssessmentResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.AssessmentResult{}, errors.New("user id is required")
	}
	if err := s.ValidateAnswers(answers); err != nil {
		return domain.AssessmentResult{}, err
	}

	scores, interp, matches := s.Score(answers)
	strategy := s.recommender.Strategy()

	result := domain.AssessmentResult{
		ID:              uuid.NewString(),
		UserID:          userID,
		Scores:          scores,
		Interpretation:  interp,
		AnswerCount:     len(answers),
		Strategy:        strategy,
		Recommendations: make([]domain.CareerRecommendation, 0, len(matches)),
		CreatedAt:       time.Now().UTC(),
	}
	for i, m := range matches {
		result.Recommendations = append(result.Recommendations, domain.CareerRecommendation{
			ID:           uuid.NewString(),
			AssessmentID: result.ID,
			Rank:         i + 1,
			Field:        m.Field,
			Confidence:   m.Confidence,
		})
	}

	if s.elaborator != nil {
		elaboration, err := s.elaborator.Elaborate(ctx, scores, interp, matches)
		if err != nil {
			s.logger.Warn("career elaboration failed", zap.Error(err), zap.String("user_id", userID))
		} else {
			result.Elaboration = elaboration
		}
	}

	if err := s.repo.Create(ctx, result); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("persist assessment: %w", err)
	}

	metrics.AssessmentsScored.WithLabelValues(strategy).Inc()
	for _, m := range matches {
		metrics.FieldRecommendations.WithLabelValues(m.Field).Inc()
	}
	s.cache.Invalidate(ctx, userID)

	s.logger.Info("assessment scored",
		zap.String("user_id", userID),
		zap.String("assessment_id", result.ID),
		zap.String("strategy", strategy),
		zap.Int("answers", result.AnswerCount),
		zap.Int("recommendations", len(result.Recommendations)),
	)

	s.sendReport(result)
	return result, nil
}

func (s *AssessmentService) sendReport(result domain.AssessmentResult) {
	if s.mailer == nil || s.users == nil {
		return
	}
	s.goFn(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.users.GetByID(ctx, result.UserID)
		if err != nil {
			s.logger.Warn("report email: load user failed", zap.Error(err), zap.String("user_id", result.UserID))
			return
		}
		if err := s.mailer.SendAssessmentReport(ctx, user.Email, user.DisplayName, result); err != nil {
			if errors.Is(err, email.ErrDisabled) {
				s.logger.Debug("report email skipped", zap.Error(err))
				return
			}
			s.logger.Warn("report email failed", zap.Error(err), zap.String("user_id", result.UserID))
			return
		}
		s.logger.Info("report email sent", zap.String("assessment_id", result.ID))
	})
}

func (s *AssessmentService) Latest(ctx context.Context, userID string) (domain.AssessmentResult, error) {
	result, err := s.repo.GetLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AssessmentResult{}, ErrAssessmentNotFound
		}
		return domain.AssessmentResult{}, err
	}
	return result, nil
}

func (s *AssessmentService) History(ctx context.Context, userID string) ([]domain.AssessmentResult, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *AssessmentService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.CountByUserID(ctx, userID)
}
