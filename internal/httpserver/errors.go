package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/storage"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
)

const (
	msgInternal         = "Internal server error"
	msgInvalidBody      = "Invalid request body"
	msgEndpointNotFound = "API endpoint not found"
	msgImagesOnly       = "Only image files are allowed"
)

// statusOf maps an error kind to the status code and the message shown to the
// caller. Anything unrecognised is internal and its text stays server side.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateKey),
		errors.Is(err, service.ErrUploadMissing):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrInvalidName):
		return http.StatusBadRequest, msgImagesOnly
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// fail logs err under event and answers with the envelope.
func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "error", err)
		capture(c, err)
	} else {
		l.Warn(event, "status", status, "reason", msg)
	}
	return response.Fail(c, status, msg)
}

func capture(c echo.Context, err error) {
	if hub := sentryecho.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// errorHandler renders errors that never reached a handler (unknown route,
// body too large, panics) in the same envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := http.StatusInternalServerError, msgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		switch status {
		case http.StatusNotFound:
			msg = msgEndpointNotFound
		case http.StatusInternalServerError:
		default:
			msg = http.StatusText(status)
			if m, ok := he.Message.(string); ok && m != "" {
				msg = m
			}
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
		capture(c, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = response.Fail(c, status, msg)
}
