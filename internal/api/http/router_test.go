package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/crm-ticketing/internal/auth"
	"github.com/spec-kit/crm-ticketing/internal/config"
	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/observability"
	"github.com/spec-kit/crm-ticketing/internal/repository/memory"
	"github.com/spec-kit/crm-ticketing/internal/service"
)

type testEnv struct {
	app   *fiber.App
	store *memory.Store
	auth  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: bcrypt.MinCost}

	authService := service.NewAuthService(authCfg, store.Users())
	userService := service.NewUserService(store.Users(), bcrypt.MinCost)
	ticketService := service.NewTicketService(store.Tickets(), store.Users(), nil)
	commentService := service.NewCommentService(store.Comments(), store.Tickets(), store.Users(), nil)
	kbService := service.NewKnowledgebaseService(store.Articles(), store.Categories())
	statsService := service.NewStatsService(store.Stats())

	logger := zap.NewNop()
	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Users:          handlers.NewUsersHandler(authService, userService, nil, config.RateLimitConfig{}, logger),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Comments:       handlers.NewCommentsHandler(commentService),
		Knowledgebase:  handlers.NewKnowledgebaseHandler(kbService),
		Statistics:     handlers.NewStatisticsHandler(statsService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	return &testEnv{app: app, store: store, auth: authService}
}

func (e *testEnv) seedUser(t *testing.T, username, password string, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: hash, Role: role}
	require.NoError(t, e.store.Users().Create(context.Background(), user))
	return user
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	_, token, _, err := e.auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestHealthLive(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "s3cret", domain.RoleUser)

	resp := env.request(t, http.MethodPost, "/api/users/login", "", fiber.Map{"username": "alice", "password": "s3cret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeData(t, resp)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "user", body["role"])

	resp = env.request(t, http.MethodPost, "/api/users/login", "", fiber.Map{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	// no Authorization header at all
	resp := env.request(t, http.MethodGet, "/api/tickets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// present but unverifiable token
	resp = env.request(t, http.MethodGet, "/api/tickets", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminRoutesRejectPlainUsers(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "bob", "pw", domain.RoleUser)
	token := env.login(t, "bob", "pw")

	resp := env.request(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/tickets/some-id", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", domain.RoleUser)
	env.seedUser(t, "root", "pw", domain.RoleAdmin)
	userToken := env.login(t, "alice", "pw")
	adminToken := env.login(t, "root", "pw")

	resp := env.request(t, http.MethodPost, "/api/tickets", userToken, fiber.Map{
		"title":       "Printer jam",
		"description": "Paper stuck in tray two.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeData(t, resp)["data"].(map[string]any)
	ticketID := created["id"].(string)
	assert.Equal(t, "Open", created["status"])
	assert.Equal(t, "Low", created["priority"])

	resp = env.request(t, http.MethodPut, "/api/tickets/update-status/"+ticketID, userToken, fiber.Map{"status": "In Progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/tickets/update-priority/"+ticketID, userToken, fiber.Map{"priority": "Urgent"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPut, "/api/tickets/update-status/"+ticketID, userToken, fiber.Map{"status": "Pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/tickets/"+ticketID, userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeData(t, resp)["data"].(map[string]any)
	assert.Equal(t, "In Progress", fetched["status"])
	assert.Equal(t, "Urgent", fetched["priority"])

	// deletion is admin-only
	resp = env.request(t, http.MethodDelete, "/api/tickets/"+ticketID, userToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = env.request(t, http.MethodDelete, "/api/tickets/"+ticketID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/tickets/"+ticketID, userToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentThreadOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", domain.RoleUser)
	token := env.login(t, "alice", "pw")

	resp := env.request(t, http.MethodPost, "/api/tickets", token, fiber.Map{"title": "t", "description": "d"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ticketID := decodeData(t, resp)["data"].(map[string]any)["id"].(string)

	resp = env.request(t, http.MethodPost, "/api/comments", token, fiber.Map{"ticket_id": ticketID, "text": "on it"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/ticket/comments/"+ticketID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decodeData(t, resp)["data"].([]any)
	require.Len(t, thread, 1)
	entry := thread[0].(map[string]any)
	assert.Equal(t, "on it", entry["text"])
	assert.Equal(t, "alice", entry["username"])
}

func TestKnowledgebaseSearchOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", domain.RoleUser)
	token := env.login(t, "alice", "pw")

	resp := env.request(t, http.MethodPost, "/api/knowledgebase", token, fiber.Map{
		"title": "Fixing a printer jam",
		"text":  "open the rear tray",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/knowledgebase?search=printer", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	articles := decodeData(t, resp)["data"].([]any)
	assert.Len(t, articles, 1)

	// defaults apply when field/order are absent, bad values are rejected
	resp = env.request(t, http.MethodGet, "/api/knowledgebase", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.request(t, http.MethodGet, "/api/knowledgebase?field=author&order=ASC", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatisticsOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "pw", domain.RoleUser)
	token := env.login(t, "alice", "pw")

	resp := env.request(t, http.MethodPost, "/api/tickets", token, fiber.Map{"title": "t", "description": "d"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/statistics/tickets/open/count", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeData(t, resp)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["count"])

	resp = env.request(t, http.MethodGet, "/api/statistics/tickets/opened", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	series := decodeData(t, resp)["data"].([]any)
	assert.Len(t, series, 10)
}

func TestUserAdminCRUDOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "root", "pw", domain.RoleAdmin)
	adminToken := env.login(t, "root", "pw")

	resp := env.request(t, http.MethodPost, "/api/users", adminToken, fiber.Map{
		"username": "carol",
		"password": "pw",
		"email":    "carol@example.com",
		"role":     "user",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeData(t, resp)["data"].(map[string]any)
	assert.Nil(t, created["password_hash"], "hashes never leave the API")
	userID := created["id"].(string)

	resp = env.request(t, http.MethodGet, "/api/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, "/api/users/"+userID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
