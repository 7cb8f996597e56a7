package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		status  int
		level   string
	}{
		{
			name:    "ok",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) },
			status:  http.StatusOK,
			level:   "INFO",
		},
		{
			name:    "client error",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusNotFound) },
			status:  http.StatusNotFound,
			level:   "WARN",
		},
		{
			name:    "returned error",
			handler: func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") },
			status:  http.StatusBadGateway,
			level:   "ERROR",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			e.Use(echomw.RequestID())
			e.Use(RequestLogger(logging.New(logging.Options{Level: "info", Output: &buf})))
			e.GET("/items/:id", func(c echo.Context) error {
				logging.FromContext(c.Request().Context()).Info("inside_handler")
				return tt.handler(c)
			})

			req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			require.Len(t, lines, 2)

			var inner, done map[string]any
			require.NoError(t, json.Unmarshal(lines[0], &inner))
			require.NoError(t, json.Unmarshal(lines[1], &done))

			assert.Equal(t, "inside_handler", inner["msg"])
			assert.Equal(t, "/items/:id", inner["path"])
			assert.NotEmpty(t, inner["request_id"])

			assert.Equal(t, "request completed", done["msg"])
			assert.Equal(t, tt.level, done["level"])
			assert.EqualValues(t, tt.status, done["status"])
		})
	}
}
