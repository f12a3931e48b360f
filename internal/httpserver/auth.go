package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/agency_crm/internal/middleware"
	"github.com/mkravets/agency_crm/internal/service"
	"github.com/mkravets/agency_crm/pkg/cookies"
	"github.com/mkravets/agency_crm/pkg/logging"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	// Mirror the token into a cookie for page loads; API callers use the
	// access_token from the body.
	c.SetCookie(cookies.CreateSession(res.AccessToken, res.ExpiresAt, h.SecureCookie))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": res.AccessToken,
	})
}

// Logout only clears client state; the token itself simply ages out.
// Idempotent whether or not a session cookie is present.
func (h *AuthHTTP) Logout(c echo.Context) error {
	logging.FromContext(c.Request().Context()).Info("logout", "handler", "auth_logout")
	c.SetCookie(cookies.DeleteSession(h.SecureCookie))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
	}
	return c.JSON(http.StatusOK, identity)
}
