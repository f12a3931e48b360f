package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/agency_crm/internal/middleware"
	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/service"
	"github.com/mkravets/agency_crm/internal/util"
)

type RecordHTTP struct {
	Svc *service.RecordService
}

func (h *RecordHTTP) CreateClient(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	var client models.Client
	if err := c.Bind(&client); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	client.ID = 0
	client.OrgID = orgID

	if err := h.Svc.CreateClient(c.Request().Context(), identity.ID, &client); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *RecordHTTP) ListClients(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	clients, err := h.Svc.ListClients(c.Request().Context(), identity.ID, orgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": clients})
}

func (h *RecordHTTP) GetClient(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	clientID, ok := pathID(c, "clientID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	client, err := h.Svc.GetClient(c.Request().Context(), identity.ID, orgID, clientID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *RecordHTTP) UpdateClient(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	clientID, ok := pathID(c, "clientID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	var client models.Client
	if err := c.Bind(&client); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	client.ID = clientID
	client.OrgID = orgID

	if err := h.Svc.UpdateClient(c.Request().Context(), identity.ID, &client); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, client)
}

func (h *RecordHTTP) DeleteClient(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	clientID, ok := pathID(c, "clientID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client id")
	}

	if err := h.Svc.DeleteClient(c.Request().Context(), identity.ID, orgID, clientID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecordHTTP) CreateContract(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	var contract models.Contract
	if err := c.Bind(&contract); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	contract.ID = 0
	contract.OrgID = orgID

	if err := h.Svc.CreateContract(c.Request().Context(), identity.ID, &contract); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, contract)
}

func (h *RecordHTTP) ListContracts(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	contracts, err := h.Svc.ListContracts(c.Request().Context(), identity.ID, orgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"contracts": contracts})
}

func (h *RecordHTTP) GetContract(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	contractID, ok := pathID(c, "contractID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid contract id")
	}

	contract, err := h.Svc.GetContract(c.Request().Context(), identity.ID, orgID, contractID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, contract)
}

func (h *RecordHTTP) UpdateContract(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	contractID, ok := pathID(c, "contractID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid contract id")
	}

	var contract models.Contract
	if err := c.Bind(&contract); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	contract.ID = contractID
	contract.OrgID = orgID

	if err := h.Svc.UpdateContract(c.Request().Context(), identity.ID, &contract); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, contract)
}

func (h *RecordHTTP) DeleteContract(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	contractID, ok := pathID(c, "contractID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid contract id")
	}

	if err := h.Svc.DeleteContract(c.Request().Context(), identity.ID, orgID, contractID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecordHTTP) CreateCampaign(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	var campaign models.Campaign
	if err := c.Bind(&campaign); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	campaign.ID = 0
	campaign.OrgID = orgID

	if err := h.Svc.CreateCampaign(c.Request().Context(), identity.ID, &campaign); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, campaign)
}

func (h *RecordHTTP) ListCampaigns(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	campaigns, err := h.Svc.ListCampaigns(c.Request().Context(), identity.ID, orgID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": campaigns})
}

func (h *RecordHTTP) GetCampaign(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	campaignID, ok := pathID(c, "campaignID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid campaign id")
	}

	campaign, err := h.Svc.GetCampaign(c.Request().Context(), identity.ID, orgID, campaignID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, campaign)
}

func (h *RecordHTTP) UpdateCampaign(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	campaignID, ok := pathID(c, "campaignID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid campaign id")
	}

	var campaign models.Campaign
	if err := c.Bind(&campaign); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	campaign.ID = campaignID
	campaign.OrgID = orgID

	if err := h.Svc.UpdateCampaign(c.Request().Context(), identity.ID, &campaign); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, campaign)
}

func (h *RecordHTTP) DeleteCampaign(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}
	campaignID, ok := pathID(c, "campaignID")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid campaign id")
	}

	if err := h.Svc.DeleteCampaign(c.Request().Context(), identity.ID, orgID, campaignID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecordHTTP) Search(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	orgID, ok := pathID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid org id")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, docs, err := h.Svc.SearchRecords(c.Request().Context(), identity.ID, orgID, q, from, size)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "results": docs})
}
