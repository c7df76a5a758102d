package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// BusinessInfo describes the salon itself
type BusinessInfo struct {
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Website     string            `json:"website"`
	Email       string            `json:"email"`
	Hours       map[string]string `json:"hours"`
	Description string            `json:"description"`
}

// FAQ is one admin-curated question/answer pair
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Promotion is a current offer the assistant can mention
type Promotion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ValidUntil  string `json:"valid_until,omitempty"`
}

// KnowledgeData is the serialized business knowledge document
type KnowledgeData struct {
	Business   BusinessInfo `json:"business"`
	FAQs       []FAQ        `json:"faqs"`
	Promotions []Promotion  `json:"promotions"`
}

// BusinessKnowledge is the admin-managed content store folded into the LLM
// prompt. It is separate from the booking catalog, which is fixed.
type BusinessKnowledge struct {
	mu   sync.RWMutex
	path string
	data KnowledgeData
}

// NewBusinessKnowledge loads knowledge from the configured JSON file,
// falling back to defaults when the file does not exist.
func NewBusinessKnowledge() *BusinessKnowledge {
	path := os.Getenv("BUSINESS_KNOWLEDGE_FILE")
	if path == "" {
		path = "business_knowledge.json"
	}

	bk := &BusinessKnowledge{path: path, data: defaultKnowledge()}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("No business knowledge file at %s - using defaults", path)
		return bk
	}

	var data KnowledgeData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Printf("Failed to parse business knowledge file: %v - using defaults", err)
		return bk
	}

	bk.data = data
	log.Printf("Loaded business knowledge from %s", path)
	return bk
}

func defaultKnowledge() KnowledgeData {
	return KnowledgeData{
		Business: BusinessInfo{
			Name:    "Your Salon & Spa",
			Address: "123 Main Street, Anytown, USA",
			Phone:   "(555) 123-4567",
			Website: "www.yoursalon.com",
			Email:   "info@yoursalon.com",
			Hours: map[string]string{
				"monday":    "9:00 AM - 7:00 PM",
				"tuesday":   "9:00 AM - 7:00 PM",
				"wednesday": "9:00 AM - 7:00 PM",
				"thursday":  "9:00 AM - 7:00 PM",
				"friday":    "9:00 AM - 7:00 PM",
				"saturday":  "9:00 AM - 7:00 PM",
				"sunday":    "10:00 AM - 5:00 PM",
			},
			Description: "A full-service salon and spa offering hair, nail, and skin services.",
		},
	}
}

// Snapshot returns a copy of the current knowledge document
func (bk *BusinessKnowledge) Snapshot() KnowledgeData {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return bk.data
}

// UpdateBusiness replaces the business info section and persists
func (bk *BusinessKnowledge) UpdateBusiness(info BusinessInfo) error {
	bk.mu.Lock()
	defer bk.mu.Unlock()
	bk.data.Business = info
	return bk.save()
}

// AddFAQ appends a FAQ and persists
func (bk *BusinessKnowledge) AddFAQ(faq FAQ) error {
	bk.mu.Lock()
	defer bk.mu.Unlock()
	bk.data.FAQs = append(bk.data.FAQs, faq)
	return bk.save()
}

// AddPromotion appends a promotion and persists
func (bk *BusinessKnowledge) AddPromotion(promo Promotion) error {
	bk.mu.Lock()
	defer bk.mu.Unlock()
	bk.data.Promotions = append(bk.data.Promotions, promo)
	return bk.save()
}

// save writes the document back to disk; callers hold the lock
func (bk *BusinessKnowledge) save() error {
	raw, err := json.MarshalIndent(bk.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize knowledge: %w", err)
	}
	if err := os.WriteFile(bk.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write knowledge file: %w", err)
	}
	return nil
}

// PromptContext renders the knowledge for the LLM system prompt
func (bk *BusinessKnowledge) PromptContext() string {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	var b strings.Builder
	biz := bk.data.Business
	fmt.Fprintf(&b, "Business: %s\nAddress: %s\nPhone: %s\n", biz.Name, biz.Address, biz.Phone)
	if biz.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", biz.Description)
	}

	if len(biz.Hours) > 0 {
		b.WriteString("Hours:\n")
		for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
			if hours, ok := biz.Hours[day]; ok {
				fmt.Fprintf(&b, "  %s: %s\n", strings.ToUpper(day[:1])+day[1:], hours)
			}
		}
	}

	if len(bk.data.FAQs) > 0 {
		b.WriteString("\nFrequently asked questions:\n")
		for _, faq := range bk.data.FAQs {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", faq.Question, faq.Answer)
		}
	}

	if len(bk.data.Promotions) > 0 {
		b.WriteString("\nCurrent promotions:\n")
		for _, promo := range bk.data.Promotions {
			fmt.Fprintf(&b, "- %s: %s\n", promo.Title, promo.Description)
		}
	}

	return b.String()
}
