package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/wedding-marketplace/internal/logging"
	"github.com/iliyamo/wedding-marketplace/internal/metrics"
)

// RequestLogger writes one structured line per request and feeds the HTTP
// metrics.  m may be nil.
func RequestLogger(logger zerolog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(v.Method, route, v.Status, v.Latency)

			ev := logger.Info()
			switch {
			case v.Status >= 500:
				ev = logger.Error().Err(v.Error)
			case v.Status >= 400:
				ev = logger.Warn()
			}
			ev.Str(logging.REQUEST_ID, RequestIDOf(c)).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int(logging.STATUS, v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Str(logging.USER_ID, identity(c)).
				Msg("request")
			return nil
		},
	})
}
