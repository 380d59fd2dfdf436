// Package handler turns HTTP requests into service calls and renders the
// results as page documents: {component, props, url}.  The client-side UI
// picks the component and renders it with the props.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/wedding-marketplace/internal/logging"
	"github.com/iliyamo/wedding-marketplace/internal/middleware"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/service"
)

// Page is the document returned for every page route.
type Page struct {
	Component string `json:"component"`
	Props     any    `json:"props"`
	URL       string `json:"url"`
}

func render(c echo.Context, component string, props any) error {
	return c.JSON(http.StatusOK, Page{Component: component, Props: props, URL: c.Request().URL.RequestURI()})
}

// fail maps service and repository errors onto HTTP responses.  Anything
// unexpected is logged and answered with a bare 500.
func fail(c echo.Context, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"message": "The given data was invalid.",
			"errors":  verr.Fields,
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrDuplicate), errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error().Err(err).
		Str(logging.REQUEST_ID, middleware.RequestIDOf(c)).
		Str("path", c.Path()).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// actor builds the service actor from the identity set by JWTAuth.
func actor(c echo.Context) (service.Actor, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		return service.Actor{}, false
	}
	role, ok := model.ParseRole(middleware.Role(c))
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: id, Role: role}, true
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
}

// idParam parses a positive numeric path parameter.  Malformed ids are
// reported as not found, the same as unknown ones.
func idParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func notFound(c echo.Context) error {
	return fail(c, repository.ErrNotFound)
}
