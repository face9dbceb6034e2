package auth_test

import (
	"net/http/httptest"
	"testing"

	"dat-workbench/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	protected := fiber.New()
	protected.Use(auth.New(auth.Config{ApiKey: "secret"}))
	protected.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	open := fiber.New()
	open.Use(auth.New(auth.Config{}))
	open.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	tests := []struct {
		name   string
		app    *fiber.App
		target string
		header string
		want   int
	}{
		{"MissingKey", protected, "/", "", fiber.StatusUnauthorized},
		{"WrongKey", protected, "/", "nope", fiber.StatusUnauthorized},
		{"HeaderKey", protected, "/", "secret", fiber.StatusOK},
		{"QueryKey", protected, "/?api_key=secret", "", fiber.StatusOK},
		{"Disabled", open, "/", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set(auth.Header, tt.header)
			}
			resp, err := tt.app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
