package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newAdminTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin/knowledge", RequireAdminToken(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func TestAdminTokenValid(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "sekrit")
	app := newAdminTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/knowledge?token=sekrit", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("valid token rejected with status %d", resp.StatusCode)
	}
}

func TestAdminTokenMissing(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "sekrit")
	app := newAdminTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/knowledge", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("missing token got status %d, want 401", resp.StatusCode)
	}
}

func TestAdminTokenWrong(t *testing.T) {
	t.Setenv("ADMIN_TOKEN", "sekrit")
	app := newAdminTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/knowledge?token=guess", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("wrong token got status %d, want 403", resp.StatusCode)
	}
}
