package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/services"
)

// VoiceHandler handles inbound Twilio voice webhooks
type VoiceHandler struct {
	voiceService *services.VoiceService
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(voiceService *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService}
}

// TwilioVoicePayload represents an incoming call event from Twilio
type TwilioVoicePayload struct {
	CallSid      string `form:"CallSid"`
	From         string `form:"From"`
	To           string `form:"To"`
	CallStatus   string `form:"CallStatus"`
	SpeechResult string `form:"SpeechResult"`
}

// HandleIncomingCall answers a new call with the greeting TwiML
func (h *VoiceHandler) HandleIncomingCall(c *fiber.Ctx) error {
	var payload TwilioVoicePayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing voice webhook: %v", err)
		return h.sendTwiML(c, h.voiceService.CreateErrorResponse())
	}

	log.Printf("📞 Incoming call %s from %s", payload.CallSid, payload.From)

	doc, err := h.voiceService.CreateInitialResponse(payload.CallSid)
	if err != nil {
		log.Printf("❌ Failed to build initial voice response: %v", err)
		return h.sendTwiML(c, h.voiceService.CreateErrorResponse())
	}
	return h.sendTwiML(c, doc)
}

// HandleProcessSpeech answers the caller's transcribed speech
func (h *VoiceHandler) HandleProcessSpeech(c *fiber.Ctx) error {
	var payload TwilioVoicePayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing voice process webhook: %v", err)
		return h.sendTwiML(c, h.voiceService.CreateErrorResponse())
	}

	callSid := c.Query("call_sid")
	if callSid == "" {
		callSid = payload.CallSid
	}

	if payload.CallStatus == "completed" {
		h.voiceService.CleanupConversation(callSid)
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("🗣️ Call %s said: %s", callSid, payload.SpeechResult)

	doc, err := h.voiceService.CreateProcessingResponse(c.Context(), callSid, payload.SpeechResult)
	if err != nil {
		log.Printf("❌ Failed to build voice response: %v", err)
		return h.sendTwiML(c, h.voiceService.CreateErrorResponse())
	}
	return h.sendTwiML(c, doc)
}

// HandleCallStatus receives Twilio status callbacks and drops the
// transcript when a call ends
func (h *VoiceHandler) HandleCallStatus(c *fiber.Ctx) error {
	var payload TwilioVoicePayload
	if err := c.BodyParser(&payload); err != nil {
		return c.SendStatus(fiber.StatusOK)
	}

	switch payload.CallStatus {
	case "completed", "failed", "busy", "no-answer", "canceled":
		log.Printf("📞 Call %s ended (%s)", payload.CallSid, payload.CallStatus)
		h.voiceService.CleanupConversation(payload.CallSid)
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetCallStatus returns monitoring info for an active call
func (h *VoiceHandler) GetCallStatus(c *fiber.Ctx) error {
	callSid := c.Params("call_sid")

	status, exists := h.voiceService.Status(callSid)
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Call not found",
		})
	}

	return c.JSON(status)
}

func (h *VoiceHandler) sendTwiML(c *fiber.Ctx, doc string) error {
	c.Set("Content-Type", "application/xml")
	return c.SendString(doc)
}
