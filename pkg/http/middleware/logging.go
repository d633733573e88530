package middleware

import (
	"time"

	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs every HTTP request with method, path, status, and latency.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			start := time.Now()

			err := next(c)

			l.Info("http request",
				applogger.String("method", req.Method),
				applogger.String("path", req.RequestURI),
				applogger.String("remote", req.RemoteAddr),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("latency", time.Since(start)),
			)

			return err
		}
	}
}
