package alert

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
	g := api.Group("", auth.RequireRole("manager"))
	g.GET("/alerts", h.ListAlerts)
	g.GET("/alerts/unreviewed-count", h.UnreviewedCount)
	g.GET("/alerts/:id", h.GetAlert)
	g.POST("/alerts/:id/review", h.ReviewAlert)
}

type ReviewRequest struct {
	ActionTaken ActionTaken `json:"action_taken"`
	ManagerNote *string     `json:"manager_note,omitempty"`
}

func (h *Handler) ListAlerts(c echo.Context) error {
	agencyID := auth.AgencyIDFromContext(c.Request().Context())
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	pg := pagination.FromContext(c)

	filter := Filter(c.QueryParam("filter"))
	alerts, total, err := h.svc.ListAlerts(c.Request().Context(), agencyID, filter, pg.Limit, pg.Offset)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(alerts, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetAlert(c echo.Context) error {
	agencyID := auth.AgencyIDFromContext(c.Request().Context())
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAlert(c.Request().Context(), agencyID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "alert not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UnreviewedCount(c echo.Context) error {
	agencyID := auth.AgencyIDFromContext(c.Request().Context())
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	count, err := h.svc.CountUnreviewed(c.Request().Context(), agencyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"count": count})
}

func (h *Handler) ReviewAlert(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	reviewerID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.ReviewAlert(ctx, agencyID, id, reviewerID, req.ActionTaken, req.ManagerNote)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "alert not found")
		case errors.Is(err, ErrAlreadyReviewed):
			return echo.NewHTTPError(http.StatusConflict, "alert already reviewed")
		case errors.As(err, &verr):
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, a)
}
