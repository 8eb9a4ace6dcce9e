package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"career-advisor/internal/domain"
	"career-advisor/internal/llm"
	"career-advisor/internal/service"
)

type memStore struct {
	mu          sync.Mutex
	users       map[string]domain.User
	assessments []domain.AssessmentResult
	sessions    map[string]domain.ChatSession
	messages    []domain.Message
	progress    map[string]domain.ProgressItem
	posts       map[string]domain.ForumPost
	comments    []domain.ForumComment
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		sessions: make(map[string]domain.ChatSession),
		progress: make(map[string]domain.ProgressItem),
		posts:    make(map[string]domain.ForumPost),
	}
}

// usuarios

type memUserRepo struct{ *memStore }

func (m memUserRepo) Create(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	return nil
}

func (m memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m memUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

// assessments

type memAssessmentRepo struct{ *memStore }

func (m memAssessmentRepo) Create(_ context.Context, r domain.AssessmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assessments = append(m.assessments, r)
	return nil
}

func (m memAssessmentRepo) GetLatestByUserID(ctx context.Context, userID string) (domain.AssessmentResult, error) {
	list, _ := m.ListByUserID(ctx, userID)
	if len(list) == 0 {
		return domain.AssessmentResult{}, pgx.ErrNoRows
	}
	return list[0], nil
}

func (m memAssessmentRepo) ListByUserID(_ context.Context, userID string) ([]domain.AssessmentResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.AssessmentResult{}
	for i := len(m.assessments) - 1; i >= 0; i-- {
		if m.assessments[i].UserID == userID {
			out = append(out, m.assessments[i])
		}
	}
	return out, nil
}

func (m memAssessmentRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	list, _ := m.ListByUserID(ctx, userID)
	return len(list), nil
}

// sesiones y mensajes

type memSessionRepo struct{ *memStore }

func (m memSessionRepo) Create(_ context.Context, s domain.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m memSessionRepo) GetByID(_ context.Context, id string) (domain.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return domain.ChatSession{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m memSessionRepo) ListByUserID(_ context.Context, userID string) ([]domain.ChatSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ChatSession{}
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memMessageRepo struct{ *memStore }

func (m memMessageRepo) Create(_ context.Context, msg domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m memMessageRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.Message, error) {
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

// progreso

type memProgressRepo struct{ *memStore }

func (m memProgressRepo) Upsert(_ context.Context, it domain.ProgressItem) (domain.ProgressItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := it.UserID + "|" + it.Field + "|" + it.Skill
	if prev, ok := m.progress[key]; ok {
		it.ID = prev.ID
	}
	m.progress[key] = it
	return it, nil
}

func (m memProgressRepo) ListByUserID(_ context.Context, userID string) ([]domain.ProgressItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ProgressItem{}
	for _, it := range m.progress {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field+out[i].Skill < out[j].Field+out[j].Skill })
	return out, nil
}

// foro

type memForumRepo struct{ *memStore }

func (m memForumRepo) CreatePost(_ context.Context, p domain.ForumPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m memForumRepo) GetPost(_ context.Context, id string) (domain.ForumPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.ForumPost{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m memForumRepo) ListPosts(_ context.Context, limit, offset int) ([]domain.ForumPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ForumPost{}
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []domain.ForumPost{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m memForumRepo) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.posts, id)
	return nil
}

func (m memForumRepo) CreateComment(_ context.Context, c domain.ForumComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, c)
	return nil
}

func (m memForumRepo) ListComments(_ context.Context, postID string) ([]domain.ForumComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ForumComment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memForumRepo) CountContributions(_ context.Context, authorID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			n++
		}
	}
	for _, c := range m.comments {
		if c.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

type testServer struct {
	router *gin.Engine
	store  *memStore
	jwt    *service.JWTService
}

func newTestServer(t *testing.T, llmClient llm.LLMClient, limiter service.LoginLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	store := newMemStore()

	users := memUserRepo{store}
	assessments := memAssessmentRepo{store}
	forumRepo := memForumRepo{store}

	jwtSvc := service.NewJWTService("test-secret", 15*time.Minute, time.Hour, nil)
	userSvc := service.NewUserService(logger, users, limiter)
	assessmentSvc := service.NewAssessmentService(logger, assessments, service.NewRuleRecommender(nil), 0)
	advisorSvc := service.NewAdvisorService(logger, llmClient, memSessionRepo{store}, memMessageRepo{store}, assessments, nil)
	forumSvc := service.NewForumService(logger, forumRepo)
	progressSvc := service.NewProgressService(logger, memProgressRepo{store}, assessments, forumSvc)

	router := NewRouter(logger, jwtSvc, Handlers{
		User:       NewUserHandler(logger, userSvc, jwtSvc),
		Assessment: NewAssessmentHandler(logger, assessmentSvc),
		Advisor:    NewAdvisorHandler(logger, advisorSvc),
		Progress:   NewProgressHandler(logger, progressSvc),
		Forum:      NewForumHandler(logger, forumSvc),
		Health:     NewHealthHandler(logger, nil),
	}, true)
	return &testServer{router: router, store: store, jwt: jwtSvc}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register crea un usuario y devuelve (userID, accessToken).
func (s *testServer) register(t *testing.T, email string) (string, string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		User   domain.User       `json:"user"`
		Tokens service.TokenPair `json:"tokens"`
	}
	decode(t, rec, &resp)
	return resp.User.ID, resp.Tokens.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}
