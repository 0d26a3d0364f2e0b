package logger

import (
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger returns an Echo middleware that logs each completed request
// with method, path, status, and latency through the global zerolog logger.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			L().Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0).
				Str("client_ip", c.RealIP()).
				Msg("request completed")

			return nil
		}
	}
}
