package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-marketplace/internal/service"
)

// ReservationHandler serves the reservation pages of couples and vendors.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

func NewReservationHandler(s *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{Reservations: s}
}

// Index lists the signed-in user's reservations, optionally filtered by
// ?status=.
func (h *ReservationHandler) Index(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	list, err := h.Reservations.List(c.Request().Context(), a, service.ListReservationsInput{
		Page:   pageParam(c),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return fail(c, err)
	}
	return render(c, "reservations/index", echo.Map{
		"reservations": list,
		"status":       c.QueryParam("status"),
	})
}

// Create renders the booking form for
// ?vendor_profile_id=&service_id=.
func (h *ReservationHandler) Create(c echo.Context) error {
	vendorID, err1 := strconv.ParseUint(c.QueryParam("vendor_profile_id"), 10, 64)
	serviceID, err2 := strconv.ParseUint(c.QueryParam("service_id"), 10, 64)
	if err1 != nil || err2 != nil {
		return notFound(c)
	}
	return h.bookingForm(c, vendorID, serviceID)
}

// Book renders the booking form for /vendors/:id/services/:service/book.
func (h *ReservationHandler) Book(c echo.Context) error {
	vendorID, ok1 := idParam(c, "id")
	serviceID, ok2 := idParam(c, "service")
	if !ok1 || !ok2 {
		return notFound(c)
	}
	return h.bookingForm(c, vendorID, serviceID)
}

func (h *ReservationHandler) bookingForm(c echo.Context, vendorID, serviceID uint64) error {
	vendor, svc, err := h.Reservations.BookingContext(c.Request().Context(), vendorID, serviceID)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "reservations/create", echo.Map{
		"vendor":  vendor,
		"service": svc,
	})
}

// Store books a service and redirects to the new reservation.
func (h *ReservationHandler) Store(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var in service.CreateReservationInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.Reservations.Create(c.Request().Context(), a, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(http.StatusSeeOther, reservationURL(res.ID))
}

// Show renders one reservation.
func (h *ReservationHandler) Show(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return notFound(c)
	}
	res, err := h.Reservations.Get(c.Request().Context(), a, id)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "reservations/show", echo.Map{"reservation": res})
}

// Update records the vendor's decision and redirects back to the
// reservation.
func (h *ReservationHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := idParam(c, "id")
	if !ok {
		return notFound(c)
	}
	var in service.UpdateStatusInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.Reservations.UpdateStatus(c.Request().Context(), a, id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Redirect(http.StatusSeeOther, reservationURL(res.ID))
}

func reservationURL(id uint64) string {
	return fmt.Sprintf("/reservations/%d", id)
}
