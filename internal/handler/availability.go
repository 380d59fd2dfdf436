package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/service"
	"github.com/iliyamo/wedding-marketplace/internal/validation"
)

// AvailabilityHandler manages the signed-in vendor's slots.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

func NewAvailabilityHandler(s *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: s}
}

// Index lists the vendor's slots between ?from= and ?to= (both optional).
func (h *AvailabilityHandler) Index(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	errs := validation.Errors{}
	from := dateQuery(c, "from", errs)
	to := dateQuery(c, "to", errs)
	if len(errs) > 0 {
		return fail(c, &service.ValidationError{Fields: errs})
	}
	slots, err := h.Availability.List(c.Request().Context(), a, from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"availability": slots})
}

// Store adds a slot.
func (h *AvailabilityHandler) Store(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var in service.AddAvailabilityInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	slot, err := h.Availability.Add(c.Request().Context(), a, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"availability": slot})
}

func dateQuery(c echo.Context, name string, errs validation.Errors) model.Date {
	raw := c.QueryParam(name)
	if raw == "" {
		return model.Date{}
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		errs.Add(name, validation.Message(name, "date", "", 0))
	}
	return d
}
