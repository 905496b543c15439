package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/tuannha-ct/merch-bot/pkg/ctxval"
)

// ContextStorage makes the request context writable through ctxval, so
// handlers can attach fields that the request log reads back afterwards.
func ContextStorage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(ctxval.Wrap(req.Context())))
			return next(c)
		}
	}
}
