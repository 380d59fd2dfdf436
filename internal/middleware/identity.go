package middleware

// identity.go reads back what JWTAuth stored on the context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated user id, if any.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok && id > 0
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}

// identity is the user id as a string, "anon" for guests.  Rate limit keys
// and request logs use it.
func identity(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}
