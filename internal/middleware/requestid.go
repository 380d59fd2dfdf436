package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextRequestID is the context key of the request id.
const ContextRequestID = "request_id"

// RequestID propagates an incoming X-Request-ID or assigns a fresh UUID,
// and echoes it back on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Set(ContextRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// RequestIDOf returns the id assigned by RequestID, or "".
func RequestIDOf(c echo.Context) string {
	id, _ := c.Get(ContextRequestID).(string)
	return id
}
