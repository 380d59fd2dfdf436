package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-marketplace/internal/service"
)

// DirectoryHandler serves the public browsing pages.
type DirectoryHandler struct {
	Directory *service.DirectoryService
}

func NewDirectoryHandler(d *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Directory: d}
}

// Welcome renders the landing page.
func (h *DirectoryHandler) Welcome(c echo.Context) error {
	landing, err := h.Directory.Landing(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return render(c, "welcome", landing)
}

// Category renders one page of a category's active vendors.
func (h *DirectoryHandler) Category(c echo.Context) error {
	page, err := h.Directory.Category(c.Request().Context(), c.Param("slug"), pageParam(c))
	if err != nil {
		return fail(c, err)
	}
	return render(c, "vendors/category", page)
}

// Vendor renders a vendor profile.
func (h *DirectoryHandler) Vendor(c echo.Context) error {
	id, ok := idParam(c, "id")
	if !ok {
		return notFound(c)
	}
	page, err := h.Directory.Vendor(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return render(c, "vendors/show", page)
}

// Dashboard renders the signed-in landing page.
func Dashboard(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	return render(c, "dashboard", echo.Map{"user_id": a.UserID, "role": a.Role})
}
