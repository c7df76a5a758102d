package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/services"
)

// PaymentHandler handles payment initiation and Helcim webhooks
type PaymentHandler struct {
	paymentService *services.PaymentService
	twilioService  *services.TwilioService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, twilioService *services.TwilioService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		twilioService:  twilioService,
	}
}

// InitiatePaymentRequest starts a terminal payment for a booking
type InitiatePaymentRequest struct {
	BookingID   string  `json:"booking_id"`
	TerminalID  string  `json:"terminal_id"`
	Amount      float64 `json:"amount"`
	ClientPhone string  `json:"client_phone,omitempty"`
}

// InitiatePayment starts a payment on a Helcim terminal
func (h *PaymentHandler) InitiatePayment(c *fiber.Ctx) error {
	var req InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.paymentService.InitiatePayment(req.BookingID, req.TerminalID, req.Amount)
	if err != nil {
		log.Printf("❌ Payment initiation failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if h.twilioService != nil && req.ClientPhone != "" {
		msg := fmt.Sprintf("Your payment of $%.2f is ready on the terminal. Please follow the prompts to complete it.", req.Amount)
		if err := h.twilioService.SendSMS(req.ClientPhone, msg); err != nil {
			log.Printf("⚠️  Could not notify client about payment: %v", err)
		}
	}

	return c.JSON(result)
}

// VerifyWebhook answers Helcim's endpoint validation probe
func (h *PaymentHandler) VerifyWebhook(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// HandleWebhook settles a transaction from a signature-verified Helcim webhook
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	event, err := h.paymentService.ProcessWebhook(c.Body())
	if err != nil {
		log.Printf("❌ Helcim webhook failed: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("💳 Helcim webhook processed: %s (%s)", event.TransactionID, event.Status)

	return c.JSON(fiber.Map{
		"success":        true,
		"transaction_id": event.TransactionID,
	})
}
