package agency

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carewatch/carewatch/internal/domain/identity"
	"github.com/carewatch/carewatch/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the agency endpoints. Registration is public; it is
// how an agency gets its first credentials.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/agencies/register", h.Register)

	mgr := api.Group("", auth.RequireRole("manager"))
	mgr.GET("/agencies/me", h.GetOwnAgency)
}

type RegisterRequest struct {
	Name         string `json:"name"`
	ManagerEmail string `json:"manager_email"`
	ManagerName  string `json:"manager_name"`
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reg, err := h.svc.Register(c.Request().Context(), req.Name, req.ManagerEmail, req.ManagerName)
	if err != nil {
		return mapAgencyError(err)
	}
	return c.JSON(http.StatusCreated, reg)
}

func (h *Handler) GetOwnAgency(c echo.Context) error {
	ctx := c.Request().Context()
	agencyID := auth.AgencyIDFromContext(ctx)
	if agencyID == uuid.Nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing agency context")
	}

	a, err := h.svc.GetAgency(ctx, agencyID)
	if err != nil {
		return mapAgencyError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func mapAgencyError(err error) error {
	var verr *ValidationError
	var iverr *identity.ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "agency not found")
	case errors.Is(err, identity.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, "email already in use")
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.As(err, &iverr):
		return echo.NewHTTPError(http.StatusBadRequest, iverr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
