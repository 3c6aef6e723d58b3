package identity

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
	mgr.POST("/carers", h.CreateCarer)
	mgr.GET("/carers", h.ListCarers)
	mgr.GET("/carers/:id", h.GetCarer)
	mgr.POST("/carers/:id/activate", h.ActivateCarer)
	mgr.POST("/carers/:id/deactivate", h.DeactivateCarer)
}

type CreateCarerRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type DeactivateCarerRequest struct {
	Reason DeactivationReason `json:"reason"`
}

func (h *Handler) CreateCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}

	var req CreateCarerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.CreateCarer(ctx, agencyID, req.Email, req.FullName)
	if err != nil {
		return mapIdentityError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) GetCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	u, err := h.svc.GetUser(ctx, agencyID, id)
	if err != nil {
		return mapIdentityError(err)
	}
	if u.Role != RoleCarer {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListCarers(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	pg := pagination.FromContext(c)
	status := Status(c.QueryParam("status"))

	carers, total, err := h.svc.ListCarers(ctx, agencyID, status, pg.Limit, pg.Offset)
	if err != nil {
		return mapIdentityError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(carers, total, pg.Limit, pg.Offset))
}

func (h *Handler) ActivateCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	u, err := h.svc.ActivateCarer(ctx, agencyID, id)
	if err != nil {
		return mapIdentityError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeactivateCarer(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req DeactivateCarerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.svc.DeactivateCarer(ctx, agencyID, id, req.Reason)
	if err != nil {
		return mapIdentityError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func mapIdentityError(err error) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "email already in use")
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
