package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owenwexler/mockabase/internal/repository/sqlite"
	"github.com/owenwexler/mockabase/internal/service"
	"github.com/owenwexler/mockabase/internal/session"
)

const (
	oauthEmail    = "oauth@mockabase.com"
	oauthPassword = "oauthpass"
)

func setupRouter(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(t.Context()))

	sessions := session.NewMemoryStore()
	accounts := service.NewAccountService(repo, sessions, 1, logger)

	router := gin.New()
	NewHandler(accounts, sessions, opts, logger).RegisterRoutes(router)
	return router
}

// perform runs one request and decodes the {data, error} envelope.
func perform(t *testing.T, router *gin.Engine, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w.Code, envelope
}

func errCode(t *testing.T, envelope map[string]any) string {
	t.Helper()
	errObj, ok := envelope["error"].(map[string]any)
	require.True(t, ok, "expected an error object, got %v", envelope["error"])
	return errObj["code"].(string)
}

func TestSeedThenLoginScenario(t *testing.T) {
	router := setupRouter(t, Options{})

	code, envelope := perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, envelope["error"])

	code, envelope = perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, envelope["error"])
	assert.Equal(t, map[string]any{
		"user": map[string]any{"id": "u1", "email": "a@x.com"},
	}, envelope["data"])

	code, envelope = perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusOK, code, "domain errors still ride on HTTP 200")
	assert.Nil(t, envelope["data"])
	assert.Equal(t, "invalid_credentials", errCode(t, envelope))
}

func TestLoginUnknownUser(t *testing.T) {
	router := setupRouter(t, Options{})

	_, envelope := perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "nobody@x.com", "password": "p1",
	})
	assert.Equal(t, "user_not_found", errCode(t, envelope))
}

func TestSignupDuplicate(t *testing.T) {
	router := setupRouter(t, Options{})

	_, envelope := perform(t, router, http.MethodPost, "/signup", map[string]string{
		"id": "u1", "email": "a@x.com", "password": "p1",
	})
	assert.Nil(t, envelope["error"])

	_, envelope = perform(t, router, http.MethodPost, "/signup", map[string]string{
		"id": "u2", "email": "a@x.com", "password": "p2",
	})
	assert.Equal(t, "user_already_exists", errCode(t, envelope))
}

func TestSignupGeneratesID(t *testing.T) {
	router := setupRouter(t, Options{})

	_, envelope := perform(t, router, http.MethodPost, "/signup", map[string]string{
		"email": "a@x.com", "password": "p1",
	})
	require.Nil(t, envelope["error"])
	user := envelope["data"].(map[string]any)["user"].(map[string]any)
	assert.NotEmpty(t, user["id"])
}

func TestSessionLifecycle(t *testing.T) {
	router := setupRouter(t, Options{})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})

	// logged out: session is explicit null data, never an error
	_, envelope := perform(t, router, http.MethodGet, "/get-current-session", nil)
	assert.Nil(t, envelope["data"])
	assert.Nil(t, envelope["error"])

	perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})

	_, envelope = perform(t, router, http.MethodGet, "/get-current-session", nil)
	assert.Equal(t, map[string]any{
		"user": map[string]any{"id": "u1", "email": "a@x.com"},
	}, envelope["data"])

	_, envelope = perform(t, router, http.MethodPost, "/logout", nil)
	assert.Nil(t, envelope["error"])

	_, envelope = perform(t, router, http.MethodGet, "/get-current-session", nil)
	assert.Nil(t, envelope["data"])
	assert.Nil(t, envelope["error"])

	// logging out twice is fine
	_, envelope = perform(t, router, http.MethodPost, "/logout", nil)
	assert.Nil(t, envelope["error"])
}

func TestSessionSurvivesUserDeletion(t *testing.T) {
	router := setupRouter(t, Options{})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})
	perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})
	perform(t, router, http.MethodDelete, "/delete-user/u1", nil)

	// stale but tolerated
	_, envelope := perform(t, router, http.MethodGet, "/get-current-session", nil)
	assert.Nil(t, envelope["error"])
	assert.NotNil(t, envelope["data"])
}

func TestDeleteUserIdempotent(t *testing.T) {
	router := setupRouter(t, Options{})

	_, envelope := perform(t, router, http.MethodDelete, "/delete-user/ghost", nil)
	assert.Nil(t, envelope["error"])

	_, envelope = perform(t, router, http.MethodDelete, "/delete-user/ghost", nil)
	assert.Nil(t, envelope["error"])
}

func TestDeleteMultipleUsers(t *testing.T) {
	router := setupRouter(t, Options{})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "a", "email": "a@x.com", "password": "p1"},
		{"id": "c", "email": "c@x.com", "password": "p3"},
	})

	_, envelope := perform(t, router, http.MethodDelete, "/delete-multiple-users", []string{"a", "b", "c"})
	require.Nil(t, envelope["error"])
	assert.Equal(t, map[string]any{"deleted": float64(2)}, envelope["data"])

	_, envelope = perform(t, router, http.MethodDelete, "/delete-multiple-users", []string{})
	assert.Equal(t, "missing_inputs", errCode(t, envelope))
}

func TestClear(t *testing.T) {
	router := setupRouter(t, Options{})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})

	_, envelope := perform(t, router, http.MethodDelete, "/clear", nil)
	assert.Nil(t, envelope["error"])

	_, envelope = perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})
	assert.Equal(t, "user_not_found", errCode(t, envelope))
}

func TestMockOAuth(t *testing.T) {
	router := setupRouter(t, Options{
		MockOAuthEmail:    oauthEmail,
		MockOAuthPassword: oauthPassword,
	})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "oauth-user", "email": oauthEmail, "password": oauthPassword},
	})

	_, envelope := perform(t, router, http.MethodPost, "/mock-oauth/google", nil)
	require.Nil(t, envelope["error"])
	assert.Equal(t, map[string]any{
		"user": map[string]any{"id": "oauth-user", "email": oauthEmail},
	}, envelope["data"])

	_, envelope = perform(t, router, http.MethodGet, "/get-current-session", nil)
	assert.NotNil(t, envelope["data"], "mock oauth persists the session")
}

func TestMockOAuthUnconfigured(t *testing.T) {
	router := setupRouter(t, Options{})

	_, envelope := perform(t, router, http.MethodPost, "/mock-oauth/google", nil)
	assert.Equal(t, "bad_oauth_callback", errCode(t, envelope))
}

func TestChangePasswordRoute(t *testing.T) {
	router := setupRouter(t, Options{})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})

	// without a login
	_, envelope := perform(t, router, http.MethodPost, "/change-password", map[string]string{
		"email": "a@x.com", "newPassword": "newpass",
	})
	assert.Equal(t, "invalid_credentials", errCode(t, envelope))

	perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})

	_, envelope = perform(t, router, http.MethodPost, "/change-password", map[string]string{
		"email": "a@x.com", "newPassword": "newpass",
	})
	assert.Nil(t, envelope["error"])

	_, envelope = perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "newpass",
	})
	assert.Nil(t, envelope["error"])
}

func TestConfigurableChangePasswordRoute(t *testing.T) {
	router := setupRouter(t, Options{ChangePasswordPath: "/update-user"})

	perform(t, router, http.MethodPost, "/seed", []map[string]string{
		{"id": "u1", "email": "a@x.com", "password": "p1"},
	})
	perform(t, router, http.MethodPost, "/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	})

	_, envelope := perform(t, router, http.MethodPost, "/update-user", map[string]string{
		"email": "a@x.com", "newPassword": "newpass",
	})
	assert.Nil(t, envelope["error"])
}

func TestMalformedBody(t *testing.T) {
	router := setupRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "missing_inputs", errCode(t, envelope))
}
