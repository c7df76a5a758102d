package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/services"
	"github.com/glowdesk/salon-backend/internal/storage"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version       string
	store         storage.Store
	conversations *services.ConversationStore
	voiceService  *services.VoiceService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, store storage.Store, conversations *services.ConversationStore, voiceService *services.VoiceService) *HealthHandler {
	return &HealthHandler{
		Version:       version,
		store:         store,
		conversations: conversations,
		voiceService:  voiceService,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":  "OK",
		"service": "GlowDesk Salon Backend",
		"version": h.Version,
	}

	if h.conversations != nil {
		resp["active_conversations"] = h.conversations.ActiveCount()
	}
	if h.voiceService != nil {
		resp["active_calls"] = h.voiceService.ActiveCalls()
	}

	if h.store != nil {
		clients, appointments, transactions, err := h.store.Counts()
		if err == nil {
			resp["clients"] = clients
			resp["appointments"] = appointments
			resp["transactions"] = transactions
		} else {
			resp["status"] = "DEGRADED"
			resp["storage_error"] = err.Error()
		}
	}

	return c.JSON(resp)
}
