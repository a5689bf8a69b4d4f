package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const adminPageSize = 50

// AdminHandler manages catalog entries. Routes are guarded by RBAC("admin").
type AdminHandler struct {
	catalog ports.CatalogService
}

func NewAdminHandler(catalog ports.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// List returns the catalog in full-detail pages for the admin table.
//
// @Summary      Admin: list destinations
// @Tags         admin
// @Produce      json
// @Param        page  query     int  false  "1-based page number"
// @Success      200   {array}   destinationResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/destinations [get]
func (h *AdminHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	res, err := h.catalog.List(c.Request().Context(), ports.ListDestinationsInput{
		Page:  page,
		Limit: adminPageSize,
	})
	if err != nil {
		return err
	}

	items := make([]destinationResponse, 0, len(res.Items))
	for _, d := range res.Items {
		items = append(items, toDestinationResponse(d))
	}
	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(res.Total, 10))
	return c.JSON(http.StatusOK, items)
}

// Create adds a destination.
//
// @Summary      Admin: create destination
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      destinationRequest  true  "Destination"
// @Success      201   {object}  destinationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/destinations [post]
func (h *AdminHandler) Create(c echo.Context) error {
	var req destinationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.catalog.Create(c.Request().Context(), toDestinationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDestinationResponse(d))
}

// Update replaces a destination.
//
// @Summary      Admin: update destination
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Destination ID"
// @Param        body  body      destinationRequest  true  "Destination"
// @Success      200   {object}  destinationResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/destinations/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	var req destinationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.catalog.Update(c.Request().Context(), c.Param("id"), toDestinationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDestinationResponse(d))
}

// Delete removes a destination.
//
// @Summary      Admin: delete destination
// @Tags         admin
// @Param        id   path  string  true  "Destination ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/destinations/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
