package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Finanzas-api/pkg/logger"
)

// RequestLogger access log estructurado con el tenant resuelto (si lo hay).
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		if scope, ok := GetScope(c); ok {
			ev = ev.Str("company_id", scope.TenantID.String())
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
