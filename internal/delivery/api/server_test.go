package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gatekeeper/config"
	"gatekeeper/internal/delivery/api/router"
	"gatekeeper/internal/delivery/api/router/handler"
	"gatekeeper/internal/infra/auth"
	"gatekeeper/internal/infra/persistence/memory"
	"gatekeeper/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.MaxRequestBodySize = "1KB"
	cfg.Env.Debug = true

	codec, err := auth.NewJWTCodecWithSecret([]byte("http-test-secret"), 0)
	require.NoError(t, err)

	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		AccountRepo: memory.NewAccountRepository(),
		Hasher:      auth.NewBcryptHasherWithCost(4),
		Codec:       codec,
		Logger:      logger,
	})

	return NewEcho(cfg, logger, router.RouterParams{
		AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{AccountUC: accountUC, Logger: logger}),
	})
}

func doForm(t *testing.T, e *echo.Echo, method, target string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}

	return serve(t, e, req)
}

func doJSON(t *testing.T, e *echo.Echo, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return serve(t, e, req)
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return rec, env
}

func TestAccountRoutes_Lifecycle(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doForm(t, e, http.MethodPost, "/api/register", url.Values{"username": {"alice"}, "password": {"secret123"}, "jobTitle": {"engineer"}})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Registration successful! You can now log in.", env.Data["message"])
	assert.NotEmpty(t, env.Meta.RequestID)
	assert.Equal(t, env.Meta.RequestID, rec.Header().Get("X-Request-Id"))

	rec, env = doForm(t, e, http.MethodPost, "/api/register", url.Values{"username": {"alice"}, "password": {"other123"}})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_ACCOUNT", env.Error.Code)

	rec, env = doForm(t, e, http.MethodPost, "/api/auth", url.Values{"username": {"alice"}, "password": {"secret123"}})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)

	rec, env = doForm(t, e, http.MethodGet, "/api/status?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", env.Data["name"])
	assert.Equal(t, "engineer", env.Data["jobTitle"])
	assert.Equal(t, token, env.Data["token"])

	rec, env = doForm(t, e, http.MethodPost, "/api/modify", url.Values{"token": {token}, "newName": {"alicia"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alicia", env.Data["name"])
	assert.Equal(t, "engineer", env.Data["jobTitle"])
	newToken, _ := env.Data["token"].(string)
	require.NotEmpty(t, newToken)

	rec, env = doForm(t, e, http.MethodGet, "/api/status?token="+url.QueryEscape(token), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", env.Error.Code)

	rec, env = doForm(t, e, http.MethodPost, "/api/delete", url.Values{"token": {newToken}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", env.Error.Code)
	assert.Equal(t, "You must confirm user deletion.", env.Error.Message)

	rec, env = doForm(t, e, http.MethodPost, "/api/delete", url.Values{"token": {newToken}, "confirm": {"on"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted successfully.", env.Data["message"])

	rec, _ = doForm(t, e, http.MethodGet, "/api/status?token="+url.QueryEscape(newToken), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountRoutes_ValidationDetails(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doForm(t, e, http.MethodPost, "/api/register", url.Values{"username": {"ab"}, "password": {"1234"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, map[string]any{
		"name":     "The name must be at least 3 characters.",
		"password": "The password must be at least 5 characters.",
	}, env.Error.Details)
}

func TestAccountRoutes_OperatorInjection(t *testing.T) {
	e := newTestEcho(t)

	rec, _ := doJSON(t, e, "/api/register", `{"username":"alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, e, "/api/auth", `{"username":{"$gt":""},"password":"secret123"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	assert.Nil(t, env.Error.Details)

	rec, env = doJSON(t, e, "/api/register", `{"username":{"$ne":null},"password":"secret123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestAccountRoutes_InvalidToken(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doForm(t, e, http.MethodGet, "/api/status?token=forged", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	assert.Equal(t, "Invalid token", env.Error.Message)
}

func TestAccountRoutes_MalformedJSON(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doJSON(t, e, "/api/auth", `{"username":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "HTTP_ERROR", env.Error.Code)
}

func TestAccountRoutes_BodyLimit(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doForm(t, e, http.MethodPost, "/api/register", url.Values{"username": {"alice"}, "password": {strings.Repeat("x", 2048)}})
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "HTTP_ERROR", env.Error.Code)
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t)

	rec, env := doForm(t, e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Data["status"])
}

func TestRequestIDPropagation(t *testing.T) {
	e := newTestEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "trace-123")
	rec, env := serve(t, e, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "trace-123", env.Meta.RequestID)
}
