package middleware

import (
	"time"

	applogger "FolioPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests at debug level.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			l.Debug("http request",
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", req.RemoteAddr),
				applogger.Int("status", res.Status),
				applogger.Duration("duration_ms", time.Since(start)),
			)

			return err
		}
	}
}
