package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/handlers"
	"github.com/glowdesk/salon-backend/internal/middleware"
)

// Handlers bundles everything SetupRoutes wires up
type Handlers struct {
	SMS     *handlers.SMSHandler
	Voice   *handlers.VoiceHandler
	Payment *handlers.PaymentHandler
	Admin   *handlers.AdminHandler
	Health  *handlers.HealthHandler
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, h Handlers) {
	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to GlowDesk Salon Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":        "/health",
				"sms_webhook":   "/webhook/sms",
				"voice_webhook": "/webhook/voice",
				"payments":      "/payments/initiate",
				"test_sms":      "/test/sms",
				"admin":         "/admin",
			},
		})
	})

	app.Get("/health", h.Health.Check)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	skipValidation := os.Getenv("ENVIRONMENT") == "development" ||
		os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true"

	if skipValidation {
		log.Println("⚠️  Webhook signature validation DISABLED for development")
		webhooks.Post("/sms", h.SMS.HandleWebhook)
		webhooks.Post("/voice", h.Voice.HandleIncomingCall)
		webhooks.Post("/voice/process", h.Voice.HandleProcessSpeech)
		webhooks.Post("/helcim", h.Payment.HandleWebhook)
	} else {
		webhooks.Post("/sms", middleware.ValidateTwilioSignature(), h.SMS.HandleWebhook)
		webhooks.Post("/voice", middleware.ValidateTwilioSignature(), h.Voice.HandleIncomingCall)
		webhooks.Post("/voice/process", middleware.ValidateTwilioSignature(), h.Voice.HandleProcessSpeech)
		webhooks.Post("/helcim", middleware.ValidateHelcimSignature(), h.Payment.HandleWebhook)
	}

	// Status callbacks carry no client content; cleanup only
	webhooks.Post("/voice/status", h.Voice.HandleCallStatus)

	// Helcim probes the endpoint with a GET before accepting it
	webhooks.Get("/helcim", h.Payment.VerifyWebhook)

	// ========== VOICE MONITORING ==========
	app.Get("/voice/status/:call_sid", h.Voice.GetCallStatus)

	// ========== PAYMENTS ==========
	app.Post("/payments/initiate", h.Payment.InitiatePayment)

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/sms", h.SMS.HandleTestWebhook)

	// ========== ADMIN ROUTES ==========
	admin := app.Group("/admin", middleware.RequireAdminToken())
	admin.Get("/knowledge", h.Admin.GetKnowledge)
	admin.Put("/knowledge/business", h.Admin.UpdateBusiness)
	admin.Post("/knowledge/faqs", h.Admin.AddFAQ)
	admin.Post("/knowledge/promotions", h.Admin.AddPromotion)
	admin.Get("/conversations/:phone", h.Admin.GetConversation)
	admin.Delete("/conversations/:phone", h.Admin.ClearConversation)
}
