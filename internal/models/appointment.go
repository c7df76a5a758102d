package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment represents a booked salon appointment
type Appointment struct {
	gorm.Model

	ClientID uint      `json:"client_id" gorm:"index"`
	Date     time.Time `json:"date" gorm:"index"`
	Service  string    `json:"service"`
	Duration int       `json:"duration"` // minutes
	Status   string    `json:"status"`   // "scheduled", "completed", "cancelled", "no_show"
	Notes    string    `json:"notes"`
}

// AppointmentStatus constants
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusNoShow    = "no_show"
)

// BeforeCreate hook to default the status
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = AppointmentStatusScheduled
	}
	return nil
}
