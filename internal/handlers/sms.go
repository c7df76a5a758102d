package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/glowdesk/salon-backend/internal/models"
	"github.com/glowdesk/salon-backend/internal/services"
	"github.com/glowdesk/salon-backend/internal/storage"
)

// SMSHandler handles inbound Twilio SMS webhooks
type SMSHandler struct {
	store         storage.Store
	flow          *services.BookingFlow
	conversations *services.ConversationStore
	llm           *services.LLMService
	twilioService *services.TwilioService
}

// NewSMSHandler creates a new SMS handler
func NewSMSHandler(store storage.Store, flow *services.BookingFlow, conversations *services.ConversationStore, llm *services.LLMService, twilioService *services.TwilioService) *SMSHandler {
	return &SMSHandler{
		store:         store,
		flow:          flow,
		conversations: conversations,
		llm:           llm,
		twilioService: twilioService,
	}
}

// TwilioSMSPayload represents an incoming SMS message from Twilio
type TwilioSMSPayload struct {
	MessageSid string `form:"MessageSid"`
	AccountSid string `form:"AccountSid"`
	From       string `form:"From"` // Client's phone number
	To         string `form:"To"`   // The salon's Twilio number
	Body       string `form:"Body"` // Message text
	NumMedia   string `form:"NumMedia"`
}

// HandleWebhook processes incoming SMS messages
func (h *SMSHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioSMSPayload

	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing SMS webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.From == "" || payload.Body == "" {
		// Status callbacks and media-only messages are acknowledged silently
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("📱 SMS from %s: %s", payload.From, payload.Body)

	reply := h.respond(c, payload.From, payload.Body)

	if h.twilioService != nil && reply != "" {
		if err := h.twilioService.SendSMS(payload.From, reply); err != nil {
			log.Printf("❌ Failed to send SMS response: %v", err)
		}
	} else if reply != "" {
		log.Printf("📤 Response (not sent - Twilio not configured): %s", reply)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": reply,
	})
}

// respond runs one inbound message through the booking flow, falling back to
// the LLM when the flow defers, and returns the outbound reply text.
func (h *SMSHandler) respond(c *fiber.Ctx, from, body string) string {
	var clientInfo *models.ClientInfo
	if h.store != nil {
		info, err := h.store.GetClientInfo(from)
		if err == nil {
			clientInfo = info
		}
	}

	result := h.flow.Process(from, body, clientInfo)

	reply := result.Reply
	if result.Deferred() {
		reply = h.generalReply(c, from, body, clientInfo)
	}

	// A finished booking starts the next message from a clean slate
	if result.Step == models.StepCompleted {
		h.conversations.Clear(from)
	}

	return reply
}

// generalReply handles non-booking conversation through the LLM
func (h *SMSHandler) generalReply(c *fiber.Ctx, from, body string, clientInfo *models.ClientInfo) string {
	if h.llm == nil {
		return "Thank you for your message. Please call us directly for assistance."
	}

	reply, err := h.llm.GenerateReply(c.Context(), body, clientInfo, h.conversations.Summary(from))
	if err != nil {
		log.Printf("LLM reply failed for %s: %v", from, err)
		return h.llm.FallbackReply()
	}
	return reply
}

// TestSMSPayload is the JSON body for the development test endpoint
type TestSMSPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test SMS messages (for development)
func (h *SMSHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestSMSPayload

	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}
	if payload.From == "" || payload.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "from and message are required",
		})
	}

	log.Printf("🧪 Test SMS received from %s: %s", payload.From, payload.Message)

	reply := h.respond(c, payload.From, payload.Message)

	return c.JSON(fiber.Map{
		"success":     true,
		"message_sid": fmt.Sprintf("TEST-%s", uuid.NewString()),
		"response":    reply,
	})
}
