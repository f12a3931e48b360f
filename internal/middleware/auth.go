package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/agency_crm/internal/service"
	"github.com/mkravets/agency_crm/pkg/cookies"
)

const identityKey = "identity"

type SessionAuth struct {
	Auth         *service.AuthService
	SecureCookie bool
}

func NewSessionAuth(auth *service.AuthService, secureCookie bool) *SessionAuth {
	return &SessionAuth{Auth: auth, SecureCookie: secureCookie}
}

// RequireSession resolves the bearer token (header first, cookie mirror as
// fallback) into a live identity and rejects the request otherwise. A 401
// also expires the cookie mirror so page loads fall back to anonymous.
func (m *SessionAuth) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c.Request())
		if token == "" {
			if ck, err := c.Cookie(cookies.SessionCookie); err == nil {
				token = ck.Value
			}
		}
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}

		identity, err := m.Auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.SetCookie(cookies.DeleteSession(m.SecureCookie))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}

// IdentityFrom returns the identity set by RequireSession, nil outside a
// guarded route.
func IdentityFrom(c echo.Context) *service.Identity {
	if v, ok := c.Get(identityKey).(*service.Identity); ok {
		return v
	}
	return nil
}
