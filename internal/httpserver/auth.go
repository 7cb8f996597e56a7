package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/wine_catalog/internal/service"
	"github.com/Skotchmaster/wine_catalog/internal/transport"
	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	middleware "github.com/Skotchmaster/wine_catalog/pkg/middleware/auth"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(c, l, "register_error", err)
	}

	return response.OK(c, http.StatusCreated, "User registered successfully", res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return response.Fail(c, http.StatusBadRequest, msgInvalidBody)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(c, l, "login_error", err)
	}

	return response.OK(c, http.StatusOK, "Login successful", res)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.profile")

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return response.Fail(c, http.StatusUnauthorized, middleware.UnauthenticatedMessage)
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		l.Warn("profile_error", "status", 401, "reason", "subject is not a uuid")
		return response.Fail(c, http.StatusUnauthorized, middleware.UnauthenticatedMessage)
	}

	user, err := h.Svc.GetUserByID(ctx, id)
	if err != nil {
		return fail(c, l, "profile_error", err)
	}

	return response.OK(c, http.StatusOK, "", echo.Map{"user": user})
}

// Logout only acknowledges the call. Tokens are stateless and stay valid
// until they expire; the client drops its copy.
func (h *AuthHTTP) Logout(c echo.Context) error {
	logging.FromContext(c.Request().Context()).Info("logout_success")
	return response.OK(c, http.StatusOK, "Logout successful", nil)
}
