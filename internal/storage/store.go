package storage

import (
	"sync"
	"time"

	"github.com/glowdesk/salon-backend/internal/models"
)

var (
	storeInstance Store
	storeMu       sync.RWMutex
)

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// Client operations
	CreateClient(client *models.Client) (*models.Client, error)
	GetClientByPhone(phone string) (*models.Client, error)
	UpdateClient(client *models.Client) error
	GetClientInfo(phone string) (*models.ClientInfo, error)

	// Appointment operations
	CreateAppointment(clientID uint, date time.Time, service string, duration int, notes string) (uint, error)
	GetAppointment(id uint) (*models.Appointment, error)
	GetUpcomingAppointments(clientID uint) ([]*models.Appointment, error)
	UpdateAppointmentStatus(id uint, status string) error

	// Scheduling lookup
	AvailableSlots(date time.Time, service string) ([]string, error)

	// Payment transaction operations
	CreatePendingTransaction(bookingID, transactionID string, amount float64) (*models.PaymentTransaction, error)
	GetTransactionByID(transactionID string) (*models.PaymentTransaction, error)
	UpdateTransactionStatus(transactionID, status string) error

	// Counts for the health endpoint
	Counts() (clients, appointments, transactions int64, err error)
}
