package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Client represents a salon client reachable by phone
type Client struct {
	gorm.Model

	Name        string `json:"name"`
	Phone       string `json:"phone" gorm:"uniqueIndex"` // SMS number - unique
	Email       string `json:"email"`
	Preferences string `json:"preferences"` // free-form JSON blob, e.g. preferred stylist

	// Relationships
	Appointments []Appointment `json:"appointments,omitempty" gorm:"foreignKey:ClientID"`
}

// BeforeCreate hook to normalize client data
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	c.Phone = NormalizePhone(c.Phone)
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(strings.ToLower(c.Email))
	return nil
}

// NormalizePhone strips formatting and ensures a leading country code
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if strings.HasPrefix(phone, "+") {
		return "+" + cleaned
	}
	if len(cleaned) == 10 {
		return "+1" + cleaned
	}
	return "+" + cleaned
}

// PhoneVariations returns the formats a number may be stored under
func PhoneVariations(phone string) []string {
	normalized := NormalizePhone(phone)
	withoutCountry := strings.TrimPrefix(normalized, "+1")
	return []string{normalized, strings.TrimPrefix(normalized, "+"), withoutCountry}
}

// ClientInfo is the read-only client projection handed to the booking flow
// and the LLM prompt builder.
type ClientInfo struct {
	ID                   uint           `json:"id"`
	Name                 string         `json:"name"`
	Phone                string         `json:"phone"`
	Email                string         `json:"email"`
	TotalAppointments    int            `json:"total_appointments"`
	LastAppointment      *time.Time     `json:"last_appointment,omitempty"`
	UpcomingAppointments []*Appointment `json:"upcoming_appointments,omitempty"`
}
