package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// RequestLogger emits one structured log line per request and feeds the
// request counters. It must run outside the error-mapping middleware so the
// status it records is the one actually sent to the client.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		// Copy method/path: fiber's zero-allocation strings alias the request
		// buffer, which is recycled after the handler returns.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Path())
		metrics.RecordRequest(method, path, status, duration)

		logger.Info("request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		)
		return err
	}
}
