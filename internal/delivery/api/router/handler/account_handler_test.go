package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{"", false},
		{"false", false},
		{"0", false},
		{"off", false},
		{"No", false},
		{"true", true},
		{"on", true},
		{"yes", true},
		{true, true},
		{false, false},
		{float64(0), false},
		{float64(1), true},
		{map[string]any{}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truthy(tt.value), "value %#v", tt.value)
	}
}

func TestBindPayload(t *testing.T) {
	e := echo.New()

	t.Run("json keeps structure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":{"$gt":""},"n":1}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		payload, err := bindPayload(c)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"$gt": ""}, payload["username"])
		assert.Equal(t, float64(1), payload["n"])
	})

	t.Run("empty json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		payload, err := bindPayload(c)
		require.NoError(t, err)
		assert.Empty(t, payload)
	})

	t.Run("json array is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`["a"]`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		_, err := bindPayload(c)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("form flattens single values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("username=alice&tag=a&tag=b"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		c := e.NewContext(req, httptest.NewRecorder())

		payload, err := bindPayload(c)
		require.NoError(t, err)
		assert.Equal(t, "alice", payload["username"])
		assert.Equal(t, []any{"a", "b"}, payload["tag"])
	})
}
