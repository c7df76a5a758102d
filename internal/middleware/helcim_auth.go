package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Header names Helcim has been observed using for its webhook signature,
// checked in order.
var helcimSignatureHeaders = []string{
	"webhook-signature",
	"x-helcim-signature",
	"x-webhook-signature",
	"authorization",
	"x-authorization",
}

// ValidateHelcimSignature verifies the HMAC-SHA256 signature Helcim sends
// with payment webhooks. The signature may be base64 or hex encoded.
func ValidateHelcimSignature() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("HELCIM_WEBHOOK_SECRET")
		if secret == "" {
			log.Println("ERROR: HELCIM_WEBHOOK_SECRET not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		signature := ""
		for _, header := range helcimSignatureHeaders {
			if value := c.Get(header); value != "" {
				signature = strings.TrimPrefix(value, "Bearer ")
				break
			}
		}
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing webhook signature",
			})
		}

		if !verifyHelcimSignature(secret, signature, c.Body()) {
			log.Println("⚠️ Rejected Helcim webhook with invalid signature")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}

		return c.Next()
	}
}

// verifyHelcimSignature computes HMAC-SHA256 over the raw body and compares
// against the provided signature, trying base64 first, then hex.
func verifyHelcimSignature(secret, signature string, body []byte) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	digest := mac.Sum(nil)

	if decoded, err := base64.StdEncoding.DecodeString(signature); err == nil {
		if hmac.Equal(decoded, digest) {
			return true
		}
	}

	if decoded, err := hex.DecodeString(signature); err == nil {
		if hmac.Equal(decoded, digest) {
			return true
		}
	}

	return false
}
