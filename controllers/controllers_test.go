package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jihuadaka/checkin-server/config"
	"github.com/jihuadaka/checkin-server/controllers"
	"github.com/jihuadaka/checkin-server/middleware"
	"github.com/jihuadaka/checkin-server/models"
	"github.com/jihuadaka/checkin-server/repository/repositorytest"
	"github.com/jihuadaka/checkin-server/services"
	"github.com/jihuadaka/checkin-server/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.Logger = zap.NewNop()
	utils.Sugar = utils.Logger.Sugar()
	config.SetForTesting(config.AppConfig{
		JWTSecret:     "handler-test-secret",
		TokenTTLHours: 1,
		RedisHost:     "127.0.0.1",
		RedisPort:     6379,
	})
	os.Exit(m.Run())
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newAPIRouter builds the authenticated API surface with a stub auth
// middleware that acts as the given user.
func newAPIRouter(store *repositorytest.FakeStore, clock services.Clock, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctx.Next()
	})

	taskService := services.NewTaskService(store, clock, time.UTC, utils.Sanitize)
	rewardService := services.NewRewardService(store, utils.Sanitize)
	balanceService := services.NewBalanceService(store)
	checkinService := services.NewCheckinService(store, clock, time.UTC)
	redemptionService := services.NewRedemptionService(store, clock)
	statsService := services.NewStatsService(store, clock, time.UTC)

	taskController := controllers.NewTaskController(taskService)
	checkinController := controllers.NewCheckinController(checkinService)
	pointsController := controllers.NewPointsController(balanceService)
	rewardController := controllers.NewRewardController(rewardService, redemptionService)
	statsController := controllers.NewStatsController(statsService)

	api := r.Group("/api/v1")
	api.POST("/tasks", taskController.CreateTask)
	api.GET("/tasks", taskController.ListTasks)
	api.PUT("/tasks/:id", taskController.UpdateTask)
	api.DELETE("/tasks/:id", taskController.DeleteTask)
	api.POST("/checkin", checkinController.Checkin)
	api.GET("/checkins", checkinController.ListCheckins)
	api.GET("/points", pointsController.ListHistory)
	api.GET("/points/balance", pointsController.GetBalance)
	api.POST("/rewards", rewardController.CreateReward)
	api.PUT("/rewards/:id", rewardController.UpdateReward)
	api.DELETE("/rewards/:id", rewardController.DeleteReward)
	api.POST("/rewards/:id/redeem", rewardController.Redeem)
	api.GET("/redemptions", rewardController.ListRedemptions)
	api.GET("/stats", statsController.GetStats)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
}

func seedUser(t *testing.T, store *repositorytest.FakeStore, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("secret-password")
	require.NoError(t, err)
	user := &models.User{Username: username, PasswordHash: hash}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func TestAuthRegisterLoginMe(t *testing.T) {
	store := repositorytest.New()
	auth := controllers.NewAuthController(store)

	r := gin.New()
	r.POST("/api/v1/auth/register", auth.Register)
	r.POST("/api/v1/auth/login", auth.Login)
	r.GET("/api/v1/auth/me", middleware.AuthRequired(), auth.Me)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		gin.H{"username": "alice", "password": "secret-password"}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	// Duplicate usernames are rejected.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		gin.H{"username": "alice", "password": "another-password"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40901, env.Code)

	// Wrong password and unknown user share one message.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40106, env.Code)

	w, env2 := doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "nobody", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, env.Code, env2.Code)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/login",
		gin.H{"username": "alice", "password": "secret-password"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "alice", login.User.Username)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)

	// No token, malformed token.
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Short usernames and passwords fail request binding.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/register",
		gin.H{"username": "ab", "password": "secret-password"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40001, env.Code)
}

func TestCheckinEndpointFlow(t *testing.T) {
	store := repositorytest.New()
	user := seedUser(t, store, "alice")
	r := newAPIRouter(store, newTestClock(), user.ID)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/tasks",
		gin.H{"title": "跑步30分钟", "points": 15}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var created struct {
		TaskID uint `json:"task_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.TaskID)

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/checkin",
		gin.H{"task_id": created.TaskID, "notes": "morning"}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	// Same day again conflicts.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/checkin",
		gin.H{"task_id": created.TaskID}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 40902, env.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/points/balance", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var balance struct {
		Balance int `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, 15, balance.Balance)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats services.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.TodayCheckins)
	assert.Equal(t, 100.0, stats.CompletionRate)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/checkins", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Checkins []models.CheckinDetail `json:"checkins"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Checkins, 1)
	assert.Equal(t, "跑步30分钟", list.Checkins[0].TaskTitle)

	// The task list shows the checked flag.
	w, env = doJSON(t, r, http.MethodGet, "/api/v1/tasks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tasks struct {
		Tasks []models.TaskWithStatus `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks.Tasks, 1)
	assert.True(t, tasks.Tasks[0].CheckedToday)
}

func TestRedeemEndpoint(t *testing.T) {
	store := repositorytest.New()
	user := seedUser(t, store, "alice")
	r := newAPIRouter(store, newTestClock(), user.ID)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/rewards",
		gin.H{"title": "一杯咖啡", "points_required": 20}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var created struct {
		RewardID uint `json:"reward_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// Balance 0 cannot afford it.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/rewards/1/redeem", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40010, env.Code)

	require.NoError(t, store.Ledger().Append(context.Background(), &models.LedgerEntry{
		UserID: user.ID,
		Points: 25,
		Kind:   models.LedgerEarned,
	}))

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/rewards/1/redeem", nil, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/redemptions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Redemptions []models.Redemption `json:"redemptions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Redemptions, 1)
	assert.Equal(t, created.RewardID, list.Redemptions[0].RewardID)
	assert.Equal(t, 20, list.Redemptions[0].PointsSpent)

	// Unknown reward id.
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/rewards/999/redeem", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40402, env.Code)
}

func TestTaskEndpointsValidateAndGate(t *testing.T) {
	store := repositorytest.New()
	alice := seedUser(t, store, "alice")
	bob := seedUser(t, store, "bob")
	clock := newTestClock()

	asAlice := newAPIRouter(store, clock, alice.ID)
	asBob := newAPIRouter(store, clock, bob.ID)

	w, env := doJSON(t, asAlice, http.MethodPost, "/api/v1/tasks",
		gin.H{"title": "跑步"}, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	// Missing title fails binding.
	w, env = doJSON(t, asAlice, http.MethodPost, "/api/v1/tasks",
		gin.H{"points": 5}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40020, env.Code)

	// Non-numeric id.
	w, env = doJSON(t, asAlice, http.MethodPut, "/api/v1/tasks/abc",
		gin.H{"title": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40021, env.Code)

	// Unknown id.
	w, env = doJSON(t, asAlice, http.MethodPut, "/api/v1/tasks/999",
		gin.H{"title": "x"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40401, env.Code)

	// Another user may not touch it.
	w, env = doJSON(t, asBob, http.MethodPut, "/api/v1/tasks/1",
		gin.H{"title": "hijacked"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40301, env.Code)

	w, env = doJSON(t, asBob, http.MethodDelete, "/api/v1/tasks/1", nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40301, env.Code)

	// The owner still can.
	w, env = doJSON(t, asAlice, http.MethodDelete, "/api/v1/tasks/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	w, env = doJSON(t, asAlice, http.MethodGet, "/api/v1/tasks", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var tasks struct {
		Tasks []models.TaskWithStatus `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	assert.Empty(t, tasks.Tasks)
}
