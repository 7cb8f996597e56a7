package middleware

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/wine_catalog/pkg/logging"
	"github.com/Skotchmaster/wine_catalog/pkg/response"
	"github.com/Skotchmaster/wine_catalog/pkg/tokens"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxClaims = "claims"
	CtxUserID = "user_id"
	CtxRole   = "role"

	UnauthenticatedMessage = "authentication required"
)

type Verifier interface {
	Verify(token string) (*tokens.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token. Missing, malformed,
// tampered and expired tokens all get the same 401 answer. The user row is not
// re-read, so a token outlives a deleted account until it expires.
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  CtxClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return v.Verify(auth)
		},
		SuccessHandler: setUserContext,
		ErrorHandler:   unauthenticated,
	})
}

func setUserContext(c echo.Context) {
	claims, ok := c.Get(CtxClaims).(*tokens.Claims)
	if !ok {
		return
	}
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)

	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("user_id", claims.UserID)
	ctx = tokens.IntoContext(logging.IntoContext(ctx, l), claims)
	c.SetRequest(c.Request().WithContext(ctx))
}

func unauthenticated(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_auth")

	reason := "invalid token"
	switch {
	case c.Request().Header.Get(echo.HeaderAuthorization) == "":
		reason = "missing token"
	case errors.Is(err, tokens.ErrExpiredToken):
		reason = "token expired"
	}
	l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", reason, "error", err)

	return response.Fail(c, http.StatusUnauthorized, UnauthenticatedMessage)
}

// ClaimsFrom returns the claims attached by RequireAuth.
func ClaimsFrom(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.Claims)
	return claims, ok && claims != nil
}
