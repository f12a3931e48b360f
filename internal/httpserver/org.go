package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/agency_crm/internal/middleware"
	"github.com/mkravets/agency_crm/internal/service"
	"github.com/mkravets/agency_crm/pkg/logging"
)

type OrgHTTP struct {
	Svc *service.OrgService
}

func pathID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *OrgHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	org, err := h.Svc.CreateOrganization(ctx, identity.ID, req.Name, req.Slug)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, org)
}

func (h *OrgHTTP) List(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgs, err := h.Svc.ListOrganizations(c.Request().Context(), identity.ID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"organizations": orgs})
}

func (h *OrgHTTP) ListMembers(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	members, err := h.Svc.ListMembers(c.Request().Context(), identity.ID, orgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"members": members})
}

func (h *OrgHTTP) AddMember(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	var req struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.AddMember(c.Request().Context(), identity.ID, orgID, req.UserID, req.Role); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"user_id": req.UserID, "role": req.Role})
}

func (h *OrgHTTP) ChangeMemberRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "org_change_member_role")
	identity := middleware.IdentityFrom(c)

	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	targetID, ok := pathID(c, "userID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ChangeMemberRole(ctx, identity.ID, orgID, targetID, req.Role); err != nil {
		l.Warn("change_role_failed", "org_id", orgID, "target_id", targetID, "error", err)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": targetID, "role": req.Role})
}

func (h *OrgHTTP) RemoveMember(c echo.Context) error {
	ctx := c.Request().Context()
	identity := middleware.IdentityFrom(c)

	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	targetID, ok := pathID(c, "userID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.Svc.RemoveMember(ctx, identity.ID, orgID, targetID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
