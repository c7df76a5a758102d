package models

import "time"

// Step is a stage in the appointment booking flow.
type Step string

const (
	StepGreeting         Step = "greeting"
	StepServiceSelection Step = "service_selection"
	StepTimeSelection    Step = "time_selection"
	StepClientInfo       Step = "client_info"
	StepConfirmation     Step = "confirmation"
	StepCompleted        Step = "completed"
	StepError            Step = "error"
)

// ConversationRecord tracks booking progress for one phone number.
// Steps only advance forward; the only ways back to greeting are an
// explicit cancel or a reset after a terminal step.
type ConversationRecord struct {
	PhoneNumber     string      `json:"phone_number"`
	Step            Step        `json:"step"`
	SelectedService string      `json:"selected_service"` // catalog key
	SelectedDate    string      `json:"selected_date"`    // raw client text, e.g. "tomorrow"
	SelectedTime    string      `json:"selected_time"`    // e.g. "2:00 PM"
	ClientName      string      `json:"client_name"`
	ClientEmail     string      `json:"client_email"`
	NameCaptured    bool        `json:"name_captured"`
	EmailCaptured   bool        `json:"email_captured"`
	ClientInfo      *ClientInfo `json:"client_info,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	LastActivityAt  time.Time   `json:"last_activity_at"`
}

// Reset returns the record to a fresh greeting state, keeping the phone
// number and creation time.
func (r *ConversationRecord) Reset() {
	r.Step = StepGreeting
	r.SelectedService = ""
	r.SelectedDate = ""
	r.SelectedTime = ""
	r.ClientName = ""
	r.ClientEmail = ""
	r.NameCaptured = false
	r.EmailCaptured = false
	r.LastActivityAt = time.Now()
}
