package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-marketplace/internal/service"
)

// ReviewHandler lets couples review their reservations.
type ReviewHandler struct {
	Reviews *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: s}
}

// Store creates the review of reservation :id.
func (h *ReviewHandler) Store(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return notFound(c)
	}
	var in service.CreateReviewInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	rv, err := h.Reviews.Create(c.Request().Context(), a, id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"review": rv})
}
