package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/glowdesk/salon-backend/internal/models"
	"github.com/glowdesk/salon-backend/internal/storage"
)

// PaymentService handles Helcim terminal payments: initiation records a
// pending transaction, the webhook settles it.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new payment service
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// InitiateResult is returned to the caller that started a terminal payment
type InitiateResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// HelcimWebhookEvent is the payload Helcim posts when a terminal
// transaction settles
type HelcimWebhookEvent struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"` // "APPROVED" or "DECLINED"
	Type          string `json:"type,omitempty"`
}

// InitiatePayment starts a payment on a terminal and records it as pending
func (p *PaymentService) InitiatePayment(bookingID, terminalID string, amount float64) (*InitiateResult, error) {
	if bookingID == "" || terminalID == "" {
		return nil, fmt.Errorf("booking ID and terminal ID are required")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	transactionID := fmt.Sprintf("HLC-%s", uuid.NewString())

	if _, err := p.store.CreatePendingTransaction(bookingID, transactionID, amount); err != nil {
		return nil, fmt.Errorf("failed to record pending transaction: %w", err)
	}

	log.Printf("Initiated payment %s for booking %s on terminal %s (%.2f)",
		transactionID, bookingID, terminalID, amount)

	return &InitiateResult{
		Success:       true,
		TransactionID: transactionID,
		Status:        "processing",
		Message:       "Payment initiated on terminal.",
	}, nil
}

// ProcessWebhook settles a transaction from a verified Helcim webhook body
func (p *PaymentService) ProcessWebhook(payload []byte) (*HelcimWebhookEvent, error) {
	var event HelcimWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.TransactionID == "" {
		return nil, fmt.Errorf("webhook payload missing transactionId")
	}

	status := models.TransactionStatusFailed
	if event.Status == "APPROVED" {
		status = models.TransactionStatusCompleted
	}

	if err := p.store.UpdateTransactionStatus(event.TransactionID, status); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", event.TransactionID, err)
	}

	if status == models.TransactionStatusCompleted {
		log.Printf("Transaction %s status updated to COMPLETED", event.TransactionID)
	} else {
		log.Printf("Transaction %s status updated to FAILED", event.TransactionID)
	}

	return &event, nil
}
