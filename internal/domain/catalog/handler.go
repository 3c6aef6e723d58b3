package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the symptom catalog to clients building visit entry forms.
type Handler struct {
	cat *Catalog
}

func NewHandler(cat *Catalog) *Handler {
	return &Handler{cat: cat}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog/symptoms", h.ListSymptoms)
	api.GET("/catalog/categories", h.ListCategories)
}

// ListSymptoms returns every symptom flattened, in definition order.
func (h *Handler) ListSymptoms(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cat.Symptoms())
}

// ListCategories returns the catalog grouped by category, the shape visit
// entry forms render directly.
func (h *Handler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cat.Categories())
}
