package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/glowdesk/salon-backend/internal/models"
	"github.com/glowdesk/salon-backend/internal/storage"
)

// BookingFlow decides, for each inbound message, whether the deterministic
// booking conversation handles it or the caller should fall back to the LLM.
type BookingFlow struct {
	store         storage.Store
	catalog       *Catalog
	conversations *ConversationStore
}

// ProcessResult is the structured outcome of one inbound message. An empty
// Reply means the flow has nothing deterministic to say and the caller must
// generate a reply via the LLM instead.
type ProcessResult struct {
	Reply            string      `json:"reply,omitempty"`
	Step             models.Step `json:"step"`
	RequiresBooking  bool        `json:"requires_booking"`
	BookingConfirmed bool        `json:"booking_confirmed,omitempty"`
	BookingCancelled bool        `json:"booking_cancelled,omitempty"`
	AppointmentID    uint        `json:"appointment_id,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// Deferred reports whether the caller must fall back to the LLM
func (r ProcessResult) Deferred() bool {
	return r.Reply == ""
}

// Messages that signal booking intent anywhere in the text
var bookingKeywords = []string{
	"book", "appointment", "schedule", "make appointment", "book me",
	"haircut", "color", "style", "service", "price", "cost",
}

// Narrower set that starts the flow from a greeting
var bookingIntentKeywords = []string{
	"book", "appointment", "schedule", "make appointment", "book me",
}

var confirmWords = map[string]bool{
	"yes": true, "confirm": true, "book it": true, "ok": true, "sure": true,
}

var cancelWords = map[string]bool{
	"no": true, "cancel": true, "nevermind": true,
}

// NewBookingFlow creates the booking state machine. The store may be nil
// when the booking system is unavailable; confirmation then fails politely.
func NewBookingFlow(store storage.Store, catalog *Catalog, conversations *ConversationStore) *BookingFlow {
	return &BookingFlow{
		store:         store,
		catalog:       catalog,
		conversations: conversations,
	}
}

// Process evaluates one inbound message against the sender's conversation.
// It never returns an error and never panics out: every failure becomes a
// structured result with a polite reply.
func (b *BookingFlow) Process(phone, message string, clientInfo *models.ClientInfo) (result ProcessResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Booking flow panic for %s (message %q): %v", phone, message, r)
			result = ProcessResult{
				Reply: "I apologize, something went wrong on our end. Please call us directly and we'll get you booked.",
				Step:  models.StepError,
				Error: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	unlock := b.conversations.LockPhone(phone)
	defer unlock()

	state := b.conversations.GetOrCreate(phone)
	if clientInfo != nil {
		state.ClientInfo = clientInfo
	}

	log.Printf("Processing message from %s at step %q: %q", phone, state.Step, message)

	// Outside an active flow, only booking-flavored messages are ours.
	// Everything else is general conversation for the LLM.
	if state.Step == models.StepGreeting && !containsAny(message, bookingKeywords) {
		return ProcessResult{Step: models.StepGreeting}
	}

	switch state.Step {
	case models.StepGreeting:
		return b.handleGreeting(state, message)
	case models.StepServiceSelection:
		return b.handleServiceSelection(state, message)
	case models.StepTimeSelection:
		return b.handleTimeSelection(state, message)
	case models.StepClientInfo:
		return b.handleClientInfo(state, message)
	case models.StepConfirmation:
		return b.handleConfirmation(state, message)
	case models.StepCompleted, models.StepError:
		// Terminal steps recover into a fresh conversation
		state.Reset()
		if containsAny(message, bookingKeywords) {
			return b.handleGreeting(state, message)
		}
		return ProcessResult{Step: models.StepGreeting}
	default:
		state.Reset()
		return b.handleGreeting(state, message)
	}
}

// handleGreeting starts the booking flow on explicit intent; greetings and
// anything else stay with the LLM.
func (b *BookingFlow) handleGreeting(state *models.ConversationRecord, message string) ProcessResult {
	if containsAny(message, bookingIntentKeywords) {
		state.Step = models.StepServiceSelection
		return ProcessResult{
			Reply: "Great! I'd be happy to help you book an appointment. Here are our services:\n\n" +
				b.catalog.FormatList() +
				"\n\nPlease reply with the service you'd like to book.",
			Step:            models.StepServiceSelection,
			RequiresBooking: true,
		}
	}

	// Plain greetings and service/price questions read more naturally from
	// the LLM, which has the full catalog in its prompt.
	return ProcessResult{Step: models.StepGreeting}
}

func (b *BookingFlow) handleServiceSelection(state *models.ConversationRecord, message string) ProcessResult {
	service, ok := b.catalog.Resolve(message)
	if !ok {
		return ProcessResult{
			Reply: "I didn't recognize that service. Here are our available services:\n\n" +
				b.catalog.FormatList() +
				"\n\nPlease reply with the service you'd like to book.",
			Step:            models.StepServiceSelection,
			RequiresBooking: true,
		}
	}

	state.SelectedService = service.Key
	state.Step = models.StepTimeSelection

	return ProcessResult{
		Reply: fmt.Sprintf("Perfect! You've selected %s (%s).\n\n", service.Name, service.Price) +
			"What day would you like to come in? You can say:\n" +
			"• Tomorrow\n" +
			"• Next Tuesday\n" +
			"• March 15\n" +
			"• Or any specific date",
		Step:            models.StepTimeSelection,
		RequiresBooking: true,
	}
}

// handleTimeSelection parses the requested day and offers the first open
// slot from the scheduling lookup. Parse failures re-prompt without
// advancing.
func (b *BookingFlow) handleTimeSelection(state *models.ConversationRecord, message string) ProcessResult {
	date, err := ParseDate(message, time.Now())
	if err != nil {
		return ProcessResult{
			Reply: "I couldn't understand that date. You can say \"tomorrow\", \"next Tuesday\", or a date like \"March 15\".\n\nWhat day works for you?",
			Step:            models.StepTimeSelection,
			RequiresBooking: true,
		}
	}

	slot := "2:00 PM"
	if b.store != nil {
		slots, err := b.store.AvailableSlots(date, state.SelectedService)
		if err != nil {
			log.Printf("Slot lookup failed for %s: %v", state.PhoneNumber, err)
			return ProcessResult{
				Reply: "I'm having trouble checking our schedule right now. Could you try another day, or call us directly?",
				Step:            models.StepTimeSelection,
				RequiresBooking: true,
			}
		}
		if len(slots) == 0 {
			return ProcessResult{
				Reply: "I'm sorry, we're fully booked that day. Is there another day that works for you?",
				Step:            models.StepTimeSelection,
				RequiresBooking: true,
			}
		}
		slot = slots[0]
	}

	state.SelectedDate = strings.TrimSpace(message)
	state.SelectedTime = slot
	state.Step = models.StepClientInfo

	return ProcessResult{
		Reply: fmt.Sprintf("Great! I have %s available on %s.\n\n", state.SelectedTime, state.SelectedDate) +
			"To complete your booking, I need a few details:\n\n" +
			"What's your name?",
		Step:            models.StepClientInfo,
		RequiresBooking: true,
	}
}

// handleClientInfo captures the name then the email, each verbatim
func (b *BookingFlow) handleClientInfo(state *models.ConversationRecord, message string) ProcessResult {
	if !state.NameCaptured {
		state.ClientName = message
		state.NameCaptured = true
		return ProcessResult{
			Reply:           fmt.Sprintf("Nice to meet you, %s! What's your email address?", message),
			Step:            models.StepClientInfo,
			RequiresBooking: true,
		}
	}

	state.ClientEmail = message
	state.EmailCaptured = true
	state.Step = models.StepConfirmation

	service, _ := b.catalog.Get(state.SelectedService)
	return ProcessResult{
		Reply: "Perfect! Let me confirm your appointment:\n\n" +
			fmt.Sprintf("Service: %s\n", service.Name) +
			fmt.Sprintf("Date: %s\n", state.SelectedDate) +
			fmt.Sprintf("Time: %s\n", state.SelectedTime) +
			fmt.Sprintf("Name: %s\n", state.ClientName) +
			fmt.Sprintf("Email: %s\n\n", state.ClientEmail) +
			fmt.Sprintf("Total: %s\n\n", service.Price) +
			"Reply 'YES' to confirm your booking, or 'NO' to cancel.",
		Step:            models.StepConfirmation,
		RequiresBooking: true,
	}
}

func (b *BookingFlow) handleConfirmation(state *models.ConversationRecord, message string) ProcessResult {
	normalized := strings.ToLower(strings.TrimSpace(message))

	switch {
	case confirmWords[normalized]:
		return b.confirmBooking(state)

	case cancelWords[normalized]:
		state.Reset()
		return ProcessResult{
			Reply:            "No problem! Your booking has been cancelled. Feel free to text us anytime to book a new appointment.",
			Step:             models.StepGreeting,
			BookingCancelled: true,
		}

	default:
		return ProcessResult{
			Reply:           "I didn't understand. Please reply 'YES' to confirm your booking, or 'NO' to cancel.",
			Step:            models.StepConfirmation,
			RequiresBooking: true,
		}
	}
}

// confirmBooking upserts the client and creates the appointment. Persistence
// failures end in the Error step with a polite hand-off, never an exception.
func (b *BookingFlow) confirmBooking(state *models.ConversationRecord) ProcessResult {
	if b.store == nil {
		log.Printf("Booking system unavailable for %s", state.PhoneNumber)
		state.Step = models.StepError
		return ProcessResult{
			Reply: "I apologize, but I'm having trouble accessing our booking system. Please call us directly to book your appointment.",
			Step:  models.StepError,
			Error: "booking system unavailable",
		}
	}

	client, err := b.store.GetClientByPhone(state.PhoneNumber)
	if err != nil {
		client, err = b.store.CreateClient(&models.Client{
			Name:  state.ClientName,
			Email: state.ClientEmail,
			Phone: state.PhoneNumber,
		})
	} else {
		client.Name = state.ClientName
		client.Email = state.ClientEmail
		err = b.store.UpdateClient(client)
	}
	if err != nil {
		log.Printf("Client upsert failed for %s: %v", state.PhoneNumber, err)
		state.Step = models.StepError
		return ProcessResult{
			Reply: "I apologize, but there was an error booking your appointment. Please call us directly to book.",
			Step:  models.StepError,
			Error: err.Error(),
		}
	}

	when, err := CombineDateTime(state.SelectedDate, state.SelectedTime, time.Now())
	if err != nil {
		log.Printf("Datetime resolution failed for %s (%q %q): %v",
			state.PhoneNumber, state.SelectedDate, state.SelectedTime, err)
		state.Step = models.StepError
		return ProcessResult{
			Reply: "I apologize, but there was an error booking your appointment. Please call us directly to book.",
			Step:  models.StepError,
			Error: err.Error(),
		}
	}

	service, _ := b.catalog.Get(state.SelectedService)
	notes := fmt.Sprintf("Booked via SMS on %s", time.Now().Format("2006-01-02 15:04:05"))

	appointmentID, err := b.store.CreateAppointment(client.ID, when, service.Name, service.Duration, notes)
	if err != nil {
		log.Printf("Appointment creation failed for %s: %v", state.PhoneNumber, err)
		state.Step = models.StepError
		return ProcessResult{
			Reply: "I apologize, but there was an error booking your appointment. Please call us directly to book.",
			Step:  models.StepError,
			Error: err.Error(),
		}
	}

	state.Step = models.StepCompleted
	return ProcessResult{
		Reply: fmt.Sprintf("Excellent! Your appointment is confirmed for %s at %s.\n\n",
			state.SelectedDate, state.SelectedTime) +
			"You'll receive a confirmation email shortly. We look forward to seeing you!\n\n" +
			"If you need to make any changes, just text us back.",
		Step:             models.StepCompleted,
		BookingConfirmed: true,
		AppointmentID:    appointmentID,
	}
}

func containsAny(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, word := range keywords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
