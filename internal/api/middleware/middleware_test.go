package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedApp(buf *bytes.Buffer) *fiber.App {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	app := fiber.New()
	app.Use(Recover(logger))
	app.Use(Logger(logger))
	app.Post("/v1/recognition/frames", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tracks": []string{}})
	})
	app.Get("/v1/students", func(c *fiber.Ctx) error {
		return c.JSON([]string{})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("frame buffer gone")
	})
	app.Get("/rejected", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "bad frame"})
	})
	return app
}

func TestLogger_DemotesFrameEndpoints(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/recognition/frames", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, "level=DEBUG")
	assert.Contains(t, line, "path=/v1/recognition/frames")
}

func TestLogger_InfoForRegularEndpoints(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/students", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, "level=INFO")
	assert.Contains(t, line, "path=/v1/students")
}

func TestLogger_WarnsOnClientError(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/rejected", nil))
	require.NoError(t, err)
	require.Equal(t, 422, resp.StatusCode)

	assert.Contains(t, buf.String(), "level=WARN")
}

func TestRecover_TurnsPanicInto500(t *testing.T) {
	var buf bytes.Buffer
	app := newLoggedApp(&buf)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var result struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "INTERNAL_ERROR", result.Error.Code)

	assert.True(t, strings.Contains(buf.String(), "panic recovered"))
}
