package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/llm"
)

type mockSessionRepo struct {
	sessions map[string]domain.ChatSession
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.ChatSession)}
}

func (m *mockSessionRepo) Create(_ context.Context, s domain.ChatSession) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.ChatSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockSessionRepo) ListByUserID(_ context.Context, userID string) ([]domain.ChatSession, error) {
	out := []domain.ChatSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func (m *mockMessageRepo) Create(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockMessageRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Message{}
	for _, msg := range m.messages {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	return out, nil
}

type advisorFixture struct {
	svc         *AdvisorService
	sessions    *mockSessionRepo
	messages    *mockMessageRepo
	assessments *mockAssessmentRepo
	llm         *llm.MockClient
}

func newAdvisorFixture(client *llm.MockClient) advisorFixture {
	f := advisorFixture{
		sessions:    newMockSessionRepo(),
		messages:    &mockMessageRepo{},
		assessments: &mockAssessmentRepo{},
		llm:         client,
	}
	f.svc = NewAdvisorService(zap.NewNop(), client, f.sessions, f.messages, f.assessments, nil)
	return f
}

func TestAdvisorService_CreateSessionDefaults(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Response: "ok"})
	session, err := f.svc.CreateSession(context.Background(), "u1", "  ")
	require.NoError(t, err)
	assert.Equal(t, defaultSessionTitle, session.Title)
	assert.Equal(t, "u1", session.UserID)

	long := strings.Repeat("á", maxSessionTitle+10)
	session, err = f.svc.CreateSession(context.Background(), "u1", long)
	require.NoError(t, err)
	assert.Equal(t, maxSessionTitle, len([]rune(session.Title)))
}

func TestAdvisorService_SendMessageUsesProfileAndHistory(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Response: "  Try a data course.  "})
	ctx := context.Background()

	f.assessments.created = append(f.assessments.created, domain.AssessmentResult{
		ID:     "a1",
		UserID: "u1",
		Scores: domain.TraitScores{Openness: 85, Conscientiousness: 75, Extraversion: 50, Agreeableness: 50, Neuroticism: 20},
		Recommendations: []domain.CareerRecommendation{
			{Rank: 1, Field: "Data Science"},
			{Rank: 2, Field: "Software Engineering"},
		},
	})

	session, err := f.svc.CreateSession(ctx, "u1", "Next steps")
	require.NoError(t, err)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAdvisor
		}
		f.messages.messages = append(f.messages.messages, domain.Message{
			ID: fmt.Sprintf("m%d", i), SessionID: session.ID, UserID: "u1", Role: role,
			Content: fmt.Sprintf("msg-%02d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	userMsg, reply, err := f.svc.SendMessage(ctx, "u1", session.ID, " What should I learn? ")
	require.NoError(t, err)
	assert.Equal(t, "What should I learn?", userMsg.Content)
	assert.Equal(t, domain.RoleAdvisor, reply.Role)
	assert.Equal(t, "Try a data course.", reply.Content)
	assert.True(t, reply.CreatedAt.After(userMsg.CreatedAt))

	prompt := f.llm.LastPrompt()
	assert.Contains(t, prompt, "Recommended fields: Data Science, Software Engineering")
	assert.Contains(t, prompt, "- openness: 85 (high)")
	assert.NotContains(t, prompt, "msg-01", "only the last 10 messages enter the prompt")
	assert.Contains(t, prompt, "User: msg-02")
	assert.Contains(t, prompt, "Advisor: msg-11")
	assert.Contains(t, prompt, `"What should I learn?"`)

	history, err := f.svc.ListMessages(ctx, "u1", session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 14)
}

func TestAdvisorService_NoAssessmentSuggestsTest(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Response: "Take the test first."})
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, "u1", "")
	require.NoError(t, err)

	_, _, err = f.svc.SendMessage(ctx, "u1", session.ID, "hi")
	require.NoError(t, err)
	assert.Contains(t, f.llm.LastPrompt(), "has not completed the personality assessment")
}

func TestAdvisorService_ForeignSessionForbidden(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Response: "x"})
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, "owner", "")
	require.NoError(t, err)

	_, _, err = f.svc.SendMessage(ctx, "intruder", session.ID, "hello")
	assert.ErrorIs(t, err, ErrSessionForbidden)
	_, err = f.svc.ListMessages(ctx, "intruder", session.ID)
	assert.ErrorIs(t, err, ErrSessionForbidden)

	_, _, err = f.svc.SendMessage(ctx, "owner", "missing", "hello")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, f.messages.messages)
}

func TestAdvisorService_LLMUnavailableKeepsUserMessage(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Err: llm.ErrDisabled})
	ctx := context.Background()
	session, err := f.svc.CreateSession(ctx, "u1", "")
	require.NoError(t, err)

	userMsg, _, err := f.svc.SendMessage(ctx, "u1", session.ID, "hello")
	assert.True(t, errors.Is(err, ErrAdvisorUnavailable))
	assert.Equal(t, "hello", userMsg.Content)
	require.Len(t, f.messages.messages, 1)
	assert.Equal(t, domain.RoleUser, f.messages.messages[0].Role)
}

func TestAdvisorService_InvalidMessage(t *testing.T) {
	f := newAdvisorFixture(&llm.MockClient{Response: "x"})
	_, _, err := f.svc.SendMessage(context.Background(), "u1", "s1", "   ")
	assert.ErrorIs(t, err, ErrMessageInvalidInput)
	_, _, err = f.svc.SendMessage(context.Background(), "u1", "s1", strings.Repeat("a", maxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageInvalidInput)
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript([]domain.Message{
		{Role: domain.RoleUser, Content: " hi "},
		{Role: domain.RoleAdvisor, Content: "hello"},
	})
	assert.Equal(t, "User: hi\nAdvisor: hello", got)
}

// interleavingAssessmentRepo ejecuta onLatest una vez, justo despues de leer el ultimo
// assessment, para simular un Submit concurrente.
type interleavingAssessmentRepo struct {
	*mockAssessmentRepo
	onLatest func()
}

func (r *interleavingAssessmentRepo) GetLatestByUserID(ctx context.Context, userID string) (domain.AssessmentResult, error) {
	result, err := r.mockAssessmentRepo.GetLatestByUserID(ctx, userID)
	if hook := r.onLatest; hook != nil {
		r.onLatest = nil
		hook()
	}
	return result, err
}

func TestAdvisorService_ProfileCacheDropsStaleProfileAfterNewAssessment(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()
	cache := NewRedisProfileCache(client, time.Hour, nil)

	base := &mockAssessmentRepo{}
	base.created = append(base.created, domain.AssessmentResult{
		ID:              "old",
		UserID:          "u1",
		Scores:          domain.TraitScores{Openness: 85, Conscientiousness: 75, Extraversion: 50, Agreeableness: 50, Neuroticism: 20},
		Recommendations: []domain.CareerRecommendation{{Rank: 1, Field: "Data Science"}},
	})
	repo := &interleavingAssessmentRepo{mockAssessmentRepo: base}

	assessments := NewAssessmentService(zap.NewNop(), base, NewRuleRecommender(nil), 3, WithProfileCache(cache))
	repo.onLatest = func() {
		_, err := assessments.Submit(ctx, "u1", bankAnswers(1))
		require.NoError(t, err)
	}

	client2 := &llm.MockClient{Response: "ok"}
	svc := NewAdvisorService(zap.NewNop(), client2, newMockSessionRepo(), &mockMessageRepo{}, repo, cache)
	session, err := svc.CreateSession(ctx, "u1", "")
	require.NoError(t, err)

	_, _, err = svc.SendMessage(ctx, "u1", session.ID, "first")
	require.NoError(t, err)
	assert.Contains(t, client2.LastPrompt(), "Recommended fields: Data Science")

	_, _, err = svc.SendMessage(ctx, "u1", session.ID, "second")
	require.NoError(t, err)
	assert.NotContains(t, client2.LastPrompt(), "Data Science")
	assert.Contains(t, client2.LastPrompt(), "Software Development")
}
