package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/api/metrics"
	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const homeItems = 6

// CatalogHandler serves the public pages: home, destination list and detail.
type CatalogHandler struct {
	catalog  ports.CatalogService
	feedback ports.FeedbackService
	log      zerolog.Logger
}

func NewCatalogHandler(catalog ports.CatalogService, feedback ports.FeedbackService, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, feedback: feedback, log: log}
}

// Home returns the featured destinations and the latest visitor feedback.
//
// @Summary      Home page
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  homeResponse
// @Failure      500  {object}  errorResponse
// @Router       / [get]
func (h *CatalogHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	featured, err := h.catalog.Featured(ctx, homeItems)
	if err != nil {
		return err
	}

	resp := homeResponse{Featured: toDestinationSummaries(featured), Feedback: []feedbackResponse{}}
	recent, err := h.feedback.Recent(ctx, homeItems)
	if err != nil {
		h.log.Warn().Err(err).Msg("home: recent feedback unavailable")
	} else {
		resp.Feedback = toFeedbackResponses(recent)
	}
	return c.JSON(http.StatusOK, resp)
}

// List returns one page of destinations.
//
// @Summary      List destinations
// @Tags         catalog
// @Produce      json
// @Param        category  query     string  false  "Region, or Semua for all"
// @Param        search    query     string  false  "Case-insensitive match on place name"
// @Param        page      query     int     false  "1-based page number"
// @Success      200       {object}  listDestinationsResponse
// @Failure      400       {object}  errorResponse
// @Router       /destinations [get]
func (h *CatalogHandler) List(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		page = n
	}
	category := c.QueryParam("category")

	res, err := h.catalog.List(c.Request().Context(), ports.ListDestinationsInput{
		Category: category,
		Search:   c.QueryParam("search"),
		Page:     page,
	})
	if err != nil {
		return err
	}
	metrics.CatalogQueriesTotal.WithLabelValues(categoryLabel(category)).Inc()

	return c.JSON(http.StatusOK, listDestinationsResponse{
		Items:      toDestinationSummaries(res.Items),
		Categories: append([]string{domain.CategoryAll}, domain.Categories...),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	})
}

// Get returns a single destination with its highlights.
//
// @Summary      Destination detail
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Destination ID"
// @Success      200  {object}  destinationResponse
// @Failure      404  {object}  errorResponse
// @Router       /destinations/{id} [get]
func (h *CatalogHandler) Get(c echo.Context) error {
	d, err := h.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDestinationResponse(d))
}

// categoryLabel bounds the metric's label set to the known regions.
func categoryLabel(category string) string {
	switch {
	case category == "" || category == domain.CategoryAll:
		return domain.CategoryAll
	case domain.IsCategory(category):
		return category
	default:
		return "other"
	}
}
