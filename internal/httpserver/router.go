package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/agency_crm/internal/middleware"
)

type Deps struct {
	AuthHandler   *AuthHTTP
	OrgHandler    *OrgHTTP
	RecordHandler *RecordHTTP
	SessionAuth   *middleware.SessionAuth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)

	private := e.Group("", d.SessionAuth.RequireSession)

	private.POST("/auth/logout", d.AuthHandler.Logout)
	private.GET("/auth/profile", d.AuthHandler.Profile)

	private.POST("/orgs", d.OrgHandler.Create)
	private.GET("/orgs", d.OrgHandler.List)
	private.GET("/orgs/:id/members", d.OrgHandler.ListMembers)
	private.POST("/orgs/:id/members", d.OrgHandler.AddMember)
	private.PATCH("/orgs/:id/members/:userID", d.OrgHandler.ChangeMemberRole)
	private.DELETE("/orgs/:id/members/:userID", d.OrgHandler.RemoveMember)

	private.POST("/orgs/:id/clients", d.RecordHandler.CreateClient)
	private.GET("/orgs/:id/clients", d.RecordHandler.ListClients)
	private.GET("/orgs/:id/clients/:clientID", d.RecordHandler.GetClient)
	private.PUT("/orgs/:id/clients/:clientID", d.RecordHandler.UpdateClient)
	private.DELETE("/orgs/:id/clients/:clientID", d.RecordHandler.DeleteClient)

	private.POST("/orgs/:id/contracts", d.RecordHandler.CreateContract)
	private.GET("/orgs/:id/contracts", d.RecordHandler.ListContracts)
	private.GET("/orgs/:id/contracts/:contractID", d.RecordHandler.GetContract)
	private.PUT("/orgs/:id/contracts/:contractID", d.RecordHandler.UpdateContract)
	private.DELETE("/orgs/:id/contracts/:contractID", d.RecordHandler.DeleteContract)

	private.POST("/orgs/:id/campaigns", d.RecordHandler.CreateCampaign)
	private.GET("/orgs/:id/campaigns", d.RecordHandler.ListCampaigns)
	private.GET("/orgs/:id/campaigns/:campaignID", d.RecordHandler.GetCampaign)
	private.PUT("/orgs/:id/campaigns/:campaignID", d.RecordHandler.UpdateCampaign)
	private.DELETE("/orgs/:id/campaigns/:campaignID", d.RecordHandler.DeleteCampaign)

	private.GET("/orgs/:id/search", d.RecordHandler.Search)
}
