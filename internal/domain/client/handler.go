package client

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carewatch/carewatch/internal/platform/auth"
	"github.com/carewatch/carewatch/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	mgr := api.Group("", auth.RequireRole("manager"))
	mgr.POST("/clients", h.CreateClient)
	mgr.GET("/clients", h.ListClients)
	mgr.POST("/clients/:id/deactivate", h.DeactivateClient)
	mgr.POST("/clients/:id/reactivate", h.ReactivateClient)
	mgr.POST("/clients/:id/carers", h.AssignCarer)
	mgr.DELETE("/clients/:id/carers/:carerId", h.UnassignCarer)

	shared := api.Group("", auth.RequireRole("manager", "carer"))
	shared.GET("/clients/assigned", h.ListAssignedClients)
	shared.GET("/clients/:id", h.GetClient)
}

type CreateClientRequest struct {
	DisplayName       string  `json:"display_name"`
	InternalReference *string `json:"internal_reference,omitempty"`
}

type DeactivateClientRequest struct {
	Reason DeactivationReason `json:"reason"`
	Note   *string            `json:"note,omitempty"`
}

type AssignCarerRequest struct {
	CarerID uuid.UUID `json:"carer_id"`
}

func (h *Handler) CreateClient(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}

	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cl, err := h.svc.CreateClient(ctx, agencyID, req.DisplayName, req.InternalReference)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) GetClient(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cl, err := h.svc.GetClient(ctx, agencyID, id)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) ListClients(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	pg := pagination.FromContext(c)

	clients, total, err := h.svc.ListClients(ctx, agencyID, pg.Limit, pg.Offset)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(clients, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListAssignedClients(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	carerID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	clients, err := h.svc.ListClientsForCarer(ctx, agencyID, carerID)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusOK, clients)
}

func (h *Handler) DeactivateClient(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req DeactivateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cl, err := h.svc.Deactivate(ctx, agencyID, id, req.Reason, req.Note)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) ReactivateClient(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cl, err := h.svc.Reactivate(ctx, agencyID, id)
	if err != nil {
		return mapClientError(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) AssignCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req AssignCarerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.AssignCarer(ctx, agencyID, clientID, req.CarerID); err != nil {
		return mapClientError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnassignCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	carerID, err := uuid.Parse(c.Param("carerId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid carer id")
	}

	if err := h.svc.UnassignCarer(ctx, agencyID, clientID, carerID); err != nil {
		return mapClientError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapClientError(err error) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
