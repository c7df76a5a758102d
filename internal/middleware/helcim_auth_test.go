package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "helcim-test-secret"

func newHelcimTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/webhooks/helcim", ValidateHelcimSignature(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	return app
}

func signBody(body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return mac.Sum(nil)
}

func TestHelcimSignatureBase64(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", testSecret)
	app := newHelcimTestApp()

	body := `{"transactionId":"HLC-1","status":"APPROVED"}`
	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-signature", base64.StdEncoding.EncodeToString(signBody([]byte(body))))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("valid base64 signature rejected with status %d", resp.StatusCode)
	}
}

func TestHelcimSignatureHex(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", testSecret)
	app := newHelcimTestApp()

	body := `{"transactionId":"HLC-1","status":"APPROVED"}`
	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-helcim-signature", hex.EncodeToString(signBody([]byte(body))))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("valid hex signature rejected with status %d", resp.StatusCode)
	}
}

func TestHelcimSignatureBearerPrefix(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", testSecret)
	app := newHelcimTestApp()

	body := `{"transactionId":"HLC-1","status":"APPROVED"}`
	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+base64.StdEncoding.EncodeToString(signBody([]byte(body))))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("valid bearer signature rejected with status %d", resp.StatusCode)
	}
}

func TestHelcimSignatureInvalid(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", testSecret)
	app := newHelcimTestApp()

	body := `{"transactionId":"HLC-1","status":"APPROVED"}`
	tampered := signBody([]byte(body + "tamper"))

	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("webhook-signature", base64.StdEncoding.EncodeToString(tampered))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("tampered signature accepted with status %d", resp.StatusCode)
	}
}

func TestHelcimSignatureMissing(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", testSecret)
	app := newHelcimTestApp()

	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("missing signature accepted with status %d", resp.StatusCode)
	}
}

func TestHelcimSecretUnconfigured(t *testing.T) {
	t.Setenv("HELCIM_WEBHOOK_SECRET", "")
	app := newHelcimTestApp()

	req := httptest.NewRequest("POST", "/webhooks/helcim", strings.NewReader(`{}`))
	req.Header.Set("webhook-signature", "anything")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("unconfigured secret returned status %d, want 500", resp.StatusCode)
	}
}
