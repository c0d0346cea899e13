package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wellness-server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type habitStub struct {
	createFn func(context.Context, uuid.UUID, models.Pillar, string, models.Frequency) (*models.Habit, error)
	listFn   func(context.Context, uuid.UUID, bool) ([]models.Habit, error)
	removeFn func(context.Context, uuid.UUID, uuid.UUID) error
}

func (s *habitStub) Create(ctx context.Context, userID uuid.UUID, pillar models.Pillar, name string, freq models.Frequency) (*models.Habit, error) {
	return s.createFn(ctx, userID, pillar, name, freq)
}

func (s *habitStub) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error) {
	return s.listFn(ctx, userID, includeArchived)
}

func (s *habitStub) Remove(ctx context.Context, userID, habitID uuid.UUID) error {
	return s.removeFn(ctx, userID, habitID)
}

type completionStub struct {
	completeFn func(context.Context, uuid.UUID, uuid.UUID) (*models.CompletionSummary, error)
}

func (s *completionStub) CompleteHabit(ctx context.Context, userID, habitID uuid.UUID) (*models.CompletionSummary, error) {
	return s.completeFn(ctx, userID, habitID)
}

type insightsHTTPStub struct{}

func (s *insightsHTTPStub) FullInsights(context.Context, uuid.UUID) (*models.UserInsights, error) {
	return &models.UserInsights{OverallScore: 42}, nil
}

func (s *insightsHTTPStub) Correlations(context.Context, bool) ([]models.Correlation, error) {
	return []models.Correlation{}, nil
}

func (s *insightsHTTPStub) HabitStacks(context.Context, int) ([]models.HabitStack, error) {
	return []models.HabitStack{}, nil
}

func (s *insightsHTTPStub) Multipliers(context.Context, uuid.UUID) (map[models.Pillar]float64, error) {
	return map[models.Pillar]float64{models.PillarPhysical: 1.5}, nil
}

func (s *insightsHTTPStub) InvalidateUser(context.Context, uuid.UUID) {}

type streakStub struct {
	recalcFn func(context.Context, uuid.UUID) (models.StreakResult, error)
}

func (s *streakStub) Recalculate(ctx context.Context, userID uuid.UUID) (models.StreakResult, error) {
	return s.recalcFn(ctx, userID)
}

type coachStub struct {
	chatFn func(context.Context, uuid.UUID, string) (string, error)
}

func (s *coachStub) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	return s.chatFn(ctx, userID, message)
}

func (s *coachStub) BuildContext(context.Context, uuid.UUID) (*models.CoachContext, error) {
	return &models.CoachContext{}, nil
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func defaultHandler(completions *completionStub, coach *coachStub) *Handler {
	if completions == nil {
		completions = &completionStub{completeFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.CompletionSummary, error) {
			return &models.CompletionSummary{}, nil
		}}
	}
	if coach == nil {
		coach = &coachStub{chatFn: func(context.Context, uuid.UUID, string) (string, error) {
			return "ok", nil
		}}
	}
	return NewHandler(
		&habitStub{
			createFn: func(_ context.Context, userID uuid.UUID, pillar models.Pillar, name string, _ models.Frequency) (*models.Habit, error) {
				return &models.Habit{ID: uuid.New(), UserID: userID, Pillar: pillar, Name: name}, nil
			},
			listFn:   func(context.Context, uuid.UUID, bool) ([]models.Habit, error) { return nil, nil },
			removeFn: func(context.Context, uuid.UUID, uuid.UUID) error { return nil },
		},
		completions,
		&insightsHTTPStub{},
		&streakStub{recalcFn: func(context.Context, uuid.UUID) (models.StreakResult, error) {
			return models.StreakResult{Current: 2, Longest: 5}, nil
		}},
		coach,
		testSecret,
		zap.NewNop(),
	)
}

func doRequest(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPI_RequiresToken(t *testing.T) {
	router := newTestRouter(defaultHandler(nil, nil))

	w := doRequest(router, http.MethodGet, "/api/habits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/habits", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompleteHabit_ReturnsSummary(t *testing.T) {
	userID := uuid.New()
	habitID := uuid.New()
	completions := &completionStub{completeFn: func(_ context.Context, gotUser, gotHabit uuid.UUID) (*models.CompletionSummary, error) {
		assert.Equal(t, userID, gotUser)
		assert.Equal(t, habitID, gotHabit)
		return &models.CompletionSummary{BaseXP: 10, BonusXP: 5, TotalXP: 15, NewLevel: 1,
			Streak: models.StreakResult{Current: 1, Longest: 1, IsNewRecord: true}}, nil
	}}
	router := newTestRouter(defaultHandler(completions, nil))

	w := doRequest(router, http.MethodPost, "/api/habits/complete", signToken(t, userID),
		gin.H{"habitId": habitID})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 10, body["xpEarned"])
	assert.EqualValues(t, 15, body["totalXP"])
}

func TestCompleteHabit_DuplicateConflict(t *testing.T) {
	completions := &completionStub{completeFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.CompletionSummary, error) {
		return nil, models.ErrAlreadyCompleted
	}}
	router := newTestRouter(defaultHandler(completions, nil))

	w := doRequest(router, http.MethodPost, "/api/habits/complete", signToken(t, uuid.New()),
		gin.H{"habitId": uuid.New()})
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["alreadyCompleted"])
}

func TestCompleteHabit_UnknownHabit(t *testing.T) {
	completions := &completionStub{completeFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.CompletionSummary, error) {
		return nil, models.ErrHabitNotFound
	}}
	router := newTestRouter(defaultHandler(completions, nil))

	w := doRequest(router, http.MethodPost, "/api/habits/complete", signToken(t, uuid.New()),
		gin.H{"habitId": uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat_RateLimited(t *testing.T) {
	coach := &coachStub{chatFn: func(context.Context, uuid.UUID, string) (string, error) {
		return "", models.ErrRateLimited
	}}
	router := newTestRouter(defaultHandler(nil, coach))

	w := doRequest(router, http.MethodPost, "/api/chat", signToken(t, uuid.New()),
		gin.H{"message": "hello"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestInsights_TypeDispatch(t *testing.T) {
	router := newTestRouter(defaultHandler(nil, nil))
	token := signToken(t, uuid.New())

	w := doRequest(router, http.MethodGet, "/api/insights", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "overallScore")

	w = doRequest(router, http.MethodGet, "/api/insights?type=multipliers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "multipliers")

	w = doRequest(router, http.MethodGet, "/api/insights?type=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreakRecalculate(t *testing.T) {
	router := newTestRouter(defaultHandler(nil, nil))

	w := doRequest(router, http.MethodPost, "/api/streak/recalculate", signToken(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.StreakResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, models.StreakResult{Current: 2, Longest: 5}, result)
}

func TestHealth_NoAuth(t *testing.T) {
	router := newTestRouter(defaultHandler(nil, nil))
	w := doRequest(router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
