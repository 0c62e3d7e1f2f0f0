// Package loggingmw attaches a request-scoped slog.Logger to the echo context
// and emits one completion event per request.
package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
)

// RequestLogger wires the base logger into the request context so handlers and
// the API client log with method, route and request id attached. Health probes
// are logged at debug to keep the output readable.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"route", c.Path(),
				"remote_ip", c.RealIP(),
			)
			if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			c.SetRequest(c.Request().WithContext(
				logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			status := c.Response().Status

			attrs := []any{
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"bytes_out", c.Response().Size,
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}

			switch {
			case strings.HasPrefix(c.Path(), "/health"):
				l.Debug("request completed", attrs...)
			case err != nil || status >= 500:
				l.Error("request completed", attrs...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", attrs...)
			}
			return nil
		}
	}
}
