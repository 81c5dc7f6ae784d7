package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gatekeeper/config"
	deliverycontext "gatekeeper/internal/delivery/context"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{name: "client id kept", header: "abc-123", wantKeep: true},
		{name: "missing id generated", header: ""},
		{name: "id with spaces replaced", header: "abc 123"},
		{name: "oversized id replaced", header: strings.Repeat("a", maxRequestIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			m := NewRequestIDMiddleware(slog.New(slog.NewJSONHandler(&buf, nil)))

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(deliverycontext.HeaderXRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seenCtxID string
			err := m.Process(func(c echo.Context) error {
				ctx := c.Request().Context()
				seenCtxID = deliverycontext.GetRequestIDFromContext(ctx)
				deliverycontext.GetLoggerOrDefault(ctx, nil).Info("inside")

				return nil
			})(c)
			require.NoError(t, err)

			got := rec.Header().Get(deliverycontext.HeaderXRequestID)
			require.NotEmpty(t, got)
			assert.Equal(t, got, seenCtxID)
			assert.Equal(t, got, deliverycontext.GetRequestID(c))
			assert.Contains(t, buf.String(), `"request_id":"`+got+`"`)
			if tt.wantKeep {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	newMiddleware := func(buf *bytes.Buffer, debug bool) *LoggerMiddleware {
		cfg := &config.Config{}
		cfg.Env.Debug = debug

		return NewLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)), cfg)
	}
	run := func(m *LoggerMiddleware, target string, status int) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		_ = m.Handle(func(c echo.Context) error {
			return c.NoContent(status)
		})(c)
	}

	t.Run("logs without query values", func(t *testing.T) {
		var buf bytes.Buffer
		run(newMiddleware(&buf, true), "/api/status?token=secret-token", http.StatusNotFound)

		out := buf.String()
		assert.Contains(t, out, `"msg":"HTTP Request"`)
		assert.Contains(t, out, `"level":"WARN"`)
		assert.Contains(t, out, `"query_keys":["token"]`)
		assert.NotContains(t, out, "secret-token")
	})

	t.Run("health is skipped", func(t *testing.T) {
		var buf bytes.Buffer
		run(newMiddleware(&buf, true), "/health", http.StatusOK)
		assert.Empty(t, buf.String())
	})

	t.Run("disabled outside debug", func(t *testing.T) {
		var buf bytes.Buffer
		run(newMiddleware(&buf, false), "/api/status", http.StatusOK)
		assert.Empty(t, buf.String())
	})
}
