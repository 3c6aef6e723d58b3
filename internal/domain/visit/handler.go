package visit

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carewatch/carewatch/internal/domain/scoring"
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
	g := api.Group("", auth.RequireRole("carer", "manager"))
	g.POST("/visits", h.RecordVisit)
	g.GET("/visits", h.ListVisits)
	g.GET("/visits/:id", h.GetVisit)
	g.POST("/visits/:id/correction-notes", h.AddCorrectionNote)
}

type RecordVisitRequest struct {
	ClientID   uuid.UUID      `json:"client_id"`
	SymptomIDs []string       `json:"symptom_ids"`
	Vitals     scoring.Vitals `json:"vitals"`
	Note       *string        `json:"note,omitempty"`
}

type CorrectionNoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) RecordVisit(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	carerID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}

	var req RecordVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v, err := h.svc.RecordVisit(ctx, req.ClientID, carerID, agencyID, req.SymptomIDs, req.Vitals, req.Note)
	if err != nil {
		return mapVisitError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetVisit(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	v, err := h.svc.GetVisit(ctx, agencyID, id)
	if err != nil {
		return mapVisitError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	clientID, err := uuid.Parse(c.QueryParam("client_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
	}
	pg := pagination.FromContext(c)

	visits, total, err := h.svc.ListVisitsForClient(ctx, agencyID, clientID, pg.Limit, pg.Offset)
	if err != nil {
		return mapVisitError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, pg.Limit, pg.Offset))
}

func (h *Handler) AddCorrectionNote(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}
	carerID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user context")
	}
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req CorrectionNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	n, err := h.svc.AddCorrectionNote(ctx, agencyID, visitID, carerID, req.Note)
	if err != nil {
		return mapVisitError(err)
	}
	return c.JSON(http.StatusCreated, n)
}

func mapVisitError(err error) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit record not found")
	case errors.Is(err, ErrClientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	case errors.Is(err, ErrCarerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "carer not found")
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
