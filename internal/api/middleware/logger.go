package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Logger logs one line per request. The frame endpoints fire at camera rate,
// so their successful posts are demoted to Debug to keep station logs
// readable.
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		case isFrameEndpoint(c.Path()):
			level = slog.LevelDebug
		}

		logger.Log(c.Context(), level, "http request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.String("request_id", requestID(c)),
			slog.String("ip", c.IP()),
		)

		return err
	}
}

func isFrameEndpoint(path string) bool {
	return strings.HasSuffix(path, "/recognition/frames") ||
		strings.HasSuffix(path, "/capture/frames")
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
