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
	"career-advisor/internal/llm"
	"career-advisor/internal/repository"
)

const (
	defaultSessionTitle = "Career chat"
	maxSessionTitle     = 120
	maxMessageLength    = 4000
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionForbidden    = errors.New("session belongs to another user")
	ErrMessageInvalidInput = errors.New("message invalid input")
	ErrAdvisorUnavailable  = errors.New("advisor unavailable")
)

// AdvisorService maneja sesiones de chat con el asesor de carrera.
type AdvisorService struct {
	logger      *zap.Logger
	llmClient   llm.LLMClient
	sessions    repository.SessionRepository
	messages    repository.MessageRepository
	assessments repository.AssessmentRepository
	history     *ConversationContext
	cache       ProfileCache
}

func NewAdvisorService(
	logger *zap.Logger,
	llmClient llm.LLMClient,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	assessments repository.AssessmentRepository,
	cache ProfileCache,
) *AdvisorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if llmClient == nil {
		llmClient = llm.DisabledClient{}
	}
	if cache == nil {
		cache = noopProfileCache{}
	}
	return &AdvisorService{
		logger:      logger,
		llmClient:   llmClient,
		sessions:    sessions,
		messages:    messages,
		assessments: assessments,
		history:     NewConversationContext(messages, HistoryWindow),
		cache:       cache,
	}
}

func (s *AdvisorService) CreateSession(ctx context.Context, userID, title string) (domain.ChatSession, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSessionTitle
	}
	if utf8.RuneCountInString(title) > maxSessionTitle {
		title = string([]rune(title)[:maxSessionTitle])
	}
	session := domain.ChatSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *AdvisorService) ListSessions(ctx context.Context, userID string) ([]domain.ChatSession, error) {
	return s.sessions.ListByUserID(ctx, userID)
}

// ListMessages devuelve el historial completo, del mas viejo al mas nuevo.
func (s *AdvisorService) ListMessages(ctx context.Context, userID, sessionID string) ([]domain.Message, error) {
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySessionID(ctx, sessionID)
}

// SendMessage guarda el mensaje del usuario y pide respuesta al LLM. Si el LLM falla el
// mensaje del usuario queda guardado y se devuelve ErrAdvisorUnavailable.
func (s *AdvisorService) SendMessage(ctx context.Context, userID, sessionID, content string) (domain.Message, domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxMessageLength {
		return domain.Message{}, domain.Message{}, ErrMessageInvalidInput
	}
	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return domain.Message{}, domain.Message{}, err
	}

	recent, err := s.history.Recent(ctx, sessionID)
	if err != nil {
		return domain.Message{}, domain.Message{}, err
	}

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return domain.Message{}, domain.Message{}, fmt.Errorf("persist user message: %w", err)
	}

	profile, err := s.profileBlock(ctx, userID)
	if err != nil {
		return userMsg, domain.Message{}, err
	}

	reply, err := s.llmClient.Generate(ctx, BuildAdvisorPrompt(profile, FormatTranscript(recent), content))
	if err != nil {
		s.logger.Warn("advisor llm failed", zap.Error(err), zap.String("session_id", sessionID))
		return userMsg, domain.Message{}, fmt.Errorf("%w: %v", ErrAdvisorUnavailable, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return userMsg, domain.Message{}, fmt.Errorf("%w: empty reply", ErrAdvisorUnavailable)
	}

	advisorMsg := domain.Message{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      domain.RoleAdvisor,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	if !advisorMsg.CreatedAt.After(userMsg.CreatedAt) {
		advisorMsg.CreatedAt = userMsg.CreatedAt.Add(time.Microsecond)
	}
	if err := s.messages.Create(ctx, advisorMsg); err != nil {
		return userMsg, domain.Message{}, fmt.Errorf("persist advisor message: %w", err)
	}
	return userMsg, advisorMsg, nil
}

func (s *AdvisorService) ownedSession(ctx context.Context, userID, sessionID string) (domain.ChatSession, error) {
	session, err := s.sessions.GetByID(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatSession{}, ErrSessionNotFound
		}
		return domain.ChatSession{}, err
	}
	if session.UserID != userID {
		return domain.ChatSession{}, ErrSessionForbidden
	}
	return session, nil
}

func (s *AdvisorService) profileBlock(ctx context.Context, userID string) (string, error) {
	cached, version, ok := s.cache.Get(ctx, userID)
	if ok {
		return cached, nil
	}

	var latest *domain.AssessmentResult
	result, err := s.assessments.GetLatestByUserID(ctx, userID)
	switch {
	case err == nil:
		latest = &result
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return "", fmt.Errorf("load latest assessment: %w", err)
	}

	block := BuildProfileBlock(latest)
	if latest != nil {
		s.cache.Set(ctx, userID, block, version)
	}
	return block, nil
}
