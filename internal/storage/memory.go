package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/glowdesk/salon-backend/internal/models"
)

// MemoryStore holds all data in memory for development and tests
type MemoryStore struct {
	clients      map[uint]*models.Client
	appointments map[uint]*models.Appointment
	transactions map[string]*models.PaymentTransaction

	// Mutexes for thread safety
	clientMu      sync.RWMutex
	appointmentMu sync.RWMutex
	transactionMu sync.RWMutex

	// Counters for ID generation
	clientCounter      uint
	appointmentCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients:      make(map[uint]*models.Client),
		appointments: make(map[uint]*models.Appointment),
		transactions: make(map[string]*models.PaymentTransaction),
	}
}

// Client operations

func (m *MemoryStore) CreateClient(client *models.Client) (*models.Client, error) {
	m.clientMu.Lock()
	defer m.clientMu.Unlock()

	phone := models.NormalizePhone(client.Phone)
	for _, existing := range m.clients {
		if existing.Phone == phone {
			return nil, fmt.Errorf("phone already registered")
		}
	}

	m.clientCounter++
	client.ID = m.clientCounter
	client.Phone = phone
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	m.clients[client.ID] = client
	return client, nil
}

func (m *MemoryStore) GetClientByPhone(phone string) (*models.Client, error) {
	m.clientMu.RLock()
	defer m.clientMu.RUnlock()

	for _, variation := range models.PhoneVariations(phone) {
		for _, client := range m.clients {
			if client.Phone == variation || client.Phone == models.NormalizePhone(variation) {
				return client, nil
			}
		}
	}
	return nil, fmt.Errorf("client not found")
}

func (m *MemoryStore) UpdateClient(client *models.Client) error {
	m.clientMu.Lock()
	defer m.clientMu.Unlock()

	if _, exists := m.clients[client.ID]; !exists {
		return fmt.Errorf("client not found")
	}
	client.UpdatedAt = time.Now()
	m.clients[client.ID] = client
	return nil
}

func (m *MemoryStore) GetClientInfo(phone string) (*models.ClientInfo, error) {
	client, err := m.GetClientByPhone(phone)
	if err != nil {
		return nil, err
	}

	info := &models.ClientInfo{
		ID:    client.ID,
		Name:  client.Name,
		Phone: client.Phone,
		Email: client.Email,
	}

	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	now := time.Now()
	for _, appt := range m.appointments {
		if appt.ClientID != client.ID {
			continue
		}
		info.TotalAppointments++
		if info.LastAppointment == nil || appt.Date.After(*info.LastAppointment) {
			d := appt.Date
			info.LastAppointment = &d
		}
		if appt.Date.After(now) && appt.Status == models.AppointmentStatusScheduled {
			info.UpcomingAppointments = append(info.UpcomingAppointments, appt)
		}
	}

	return info, nil
}

// Appointment operations

func (m *MemoryStore) CreateAppointment(clientID uint, date time.Time, service string, duration int, notes string) (uint, error) {
	m.clientMu.RLock()
	_, exists := m.clients[clientID]
	m.clientMu.RUnlock()
	if !exists {
		return 0, fmt.Errorf("client not found")
	}

	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	m.appointmentCounter++
	appt := &models.Appointment{
		ClientID: clientID,
		Date:     date,
		Service:  service,
		Duration: duration,
		Status:   models.AppointmentStatusScheduled,
		Notes:    notes,
	}
	appt.ID = m.appointmentCounter
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = time.Now()

	m.appointments[appt.ID] = appt
	return appt.ID, nil
}

func (m *MemoryStore) GetAppointment(id uint) (*models.Appointment, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	appt, exists := m.appointments[id]
	if !exists {
		return nil, fmt.Errorf("appointment not found")
	}
	return appt, nil
}

func (m *MemoryStore) GetUpcomingAppointments(clientID uint) ([]*models.Appointment, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	var upcoming []*models.Appointment
	now := time.Now()
	for _, appt := range m.appointments {
		if appt.ClientID == clientID && appt.Date.After(now) && appt.Status == models.AppointmentStatusScheduled {
			upcoming = append(upcoming, appt)
		}
	}
	return upcoming, nil
}

func (m *MemoryStore) UpdateAppointmentStatus(id uint, status string) error {
	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	appt, exists := m.appointments[id]
	if !exists {
		return fmt.Errorf("appointment not found")
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()
	return nil
}

// AvailableSlots returns the open hourly slots for a given day
func (m *MemoryStore) AvailableSlots(date time.Time, service string) ([]string, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	booked := make(map[string]bool)
	for _, appt := range m.appointments {
		if appt.Status != models.AppointmentStatusScheduled {
			continue
		}
		if sameDay(appt.Date, date) {
			booked[appt.Date.Format("3:04 PM")] = true
		}
	}

	var open []string
	for _, slot := range BusinessSlots(date) {
		if !booked[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// Payment transaction operations

func (m *MemoryStore) CreatePendingTransaction(bookingID, transactionID string, amount float64) (*models.PaymentTransaction, error) {
	m.transactionMu.Lock()
	defer m.transactionMu.Unlock()

	if _, exists := m.transactions[transactionID]; exists {
		return nil, fmt.Errorf("transaction already exists")
	}

	txn := &models.PaymentTransaction{
		BookingID:     bookingID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        models.TransactionStatusPending,
	}
	txn.CreatedAt = time.Now()
	txn.UpdatedAt = time.Now()

	m.transactions[transactionID] = txn
	return txn, nil
}

func (m *MemoryStore) GetTransactionByID(transactionID string) (*models.PaymentTransaction, error) {
	m.transactionMu.RLock()
	defer m.transactionMu.RUnlock()

	txn, exists := m.transactions[transactionID]
	if !exists {
		return nil, fmt.Errorf("transaction not found")
	}
	return txn, nil
}

func (m *MemoryStore) UpdateTransactionStatus(transactionID, status string) error {
	m.transactionMu.Lock()
	defer m.transactionMu.Unlock()

	txn, exists := m.transactions[transactionID]
	if !exists {
		return fmt.Errorf("transaction not found")
	}
	txn.Status = status
	txn.UpdatedAt = time.Now()
	return nil
}

// Counts returns record totals for the health endpoint
func (m *MemoryStore) Counts() (int64, int64, int64, error) {
	m.clientMu.RLock()
	clients := int64(len(m.clients))
	m.clientMu.RUnlock()

	m.appointmentMu.RLock()
	appointments := int64(len(m.appointments))
	m.appointmentMu.RUnlock()

	m.transactionMu.RLock()
	transactions := int64(len(m.transactions))
	m.transactionMu.RUnlock()

	return clients, appointments, transactions, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
