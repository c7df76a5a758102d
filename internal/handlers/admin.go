package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/services"
)

// AdminHandler handles admin operations
type AdminHandler struct {
	knowledge     *services.BusinessKnowledge
	conversations *services.ConversationStore
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(knowledge *services.BusinessKnowledge, conversations *services.ConversationStore) *AdminHandler {
	return &AdminHandler{
		knowledge:     knowledge,
		conversations: conversations,
	}
}

// GetKnowledge returns the full business knowledge document
func (h *AdminHandler) GetKnowledge(c *fiber.Ctx) error {
	return c.JSON(h.knowledge.Snapshot())
}

// UpdateBusiness replaces the business info section
func (h *AdminHandler) UpdateBusiness(c *fiber.Ctx) error {
	var info services.BusinessInfo
	if err := c.BodyParser(&info); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if info.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Business name is required",
		})
	}

	if err := h.knowledge.UpdateBusiness(info); err != nil {
		log.Printf("❌ Failed to update business info: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save business info",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Business info updated",
	})
}

// AddFAQ appends a question/answer pair
func (h *AdminHandler) AddFAQ(c *fiber.Ctx) error {
	var faq services.FAQ
	if err := c.BodyParser(&faq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if faq.Question == "" || faq.Answer == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Question and answer are required",
		})
	}

	if err := h.knowledge.AddFAQ(faq); err != nil {
		log.Printf("❌ Failed to add FAQ: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save FAQ",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "FAQ added",
	})
}

// AddPromotion appends a promotion
func (h *AdminHandler) AddPromotion(c *fiber.Ctx) error {
	var promo services.Promotion
	if err := c.BodyParser(&promo); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if promo.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Promotion title is required",
		})
	}

	if err := h.knowledge.AddPromotion(promo); err != nil {
		log.Printf("❌ Failed to add promotion: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save promotion",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Promotion added",
	})
}

// GetConversation returns the in-flight booking state for a phone number
func (h *AdminHandler) GetConversation(c *fiber.Ctx) error {
	phone := c.Params("phone")

	summary := h.conversations.Summary(phone)
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active conversation for that number",
		})
	}

	return c.JSON(summary)
}

// ClearConversation drops the in-flight booking state for a phone number
func (h *AdminHandler) ClearConversation(c *fiber.Ctx) error {
	phone := c.Params("phone")

	h.conversations.Clear(phone)
	log.Printf("🧹 Admin cleared conversation for %s", phone)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Conversation cleared",
	})
}
