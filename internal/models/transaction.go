package models

import "gorm.io/gorm"

// PaymentTransaction tracks a Helcim terminal payment from initiation to
// the webhook confirmation that settles it.
type PaymentTransaction struct {
	gorm.Model

	BookingID     string  `json:"booking_id" gorm:"index"`
	TransactionID string  `json:"transaction_id" gorm:"uniqueIndex"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"` // "pending", "completed", "failed"
}

// Transaction status constants
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)
