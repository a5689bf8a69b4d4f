package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

// ContactHandler accepts contact-form messages.
type ContactHandler struct {
	queue ports.FeedbackQueue
	log   zerolog.Logger
}

func NewContactHandler(queue ports.FeedbackQueue, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{queue: queue, log: log}
}

// Submit queues a message; it is stored asynchronously.
//
// @Summary      Send a contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest     true  "Message"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.queue.Enqueue(c.Request().Context(), ports.FeedbackInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("contact message not queued")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "contact form temporarily unavailable")
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}
