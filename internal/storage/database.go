package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/glowdesk/salon-backend/internal/models"
)

// DatabaseStore implements Store backed by PostgreSQL via GORM
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed store
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Client operations

func (s *DatabaseStore) CreateClient(client *models.Client) (*models.Client, error) {
	if err := s.db.Create(client).Error; err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *DatabaseStore) GetClientByPhone(phone string) (*models.Client, error) {
	var client models.Client
	variations := models.PhoneVariations(phone)
	err := s.db.Where("phone IN ?", variations).First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client not found")
		}
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	return &client, nil
}

func (s *DatabaseStore) UpdateClient(client *models.Client) error {
	if err := s.db.Save(client).Error; err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}
	return nil
}

func (s *DatabaseStore) GetClientInfo(phone string) (*models.ClientInfo, error) {
	client, err := s.GetClientByPhone(phone)
	if err != nil {
		return nil, err
	}

	info := &models.ClientInfo{
		ID:    client.ID,
		Name:  client.Name,
		Phone: client.Phone,
		Email: client.Email,
	}

	var total int64
	if err := s.db.Model(&models.Appointment{}).Where("client_id = ?", client.ID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	info.TotalAppointments = int(total)

	var last models.Appointment
	err = s.db.Where("client_id = ?", client.ID).Order("date DESC").First(&last).Error
	if err == nil {
		info.LastAppointment = &last.Date
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load last appointment: %w", err)
	}

	upcoming, err := s.GetUpcomingAppointments(client.ID)
	if err != nil {
		return nil, err
	}
	info.UpcomingAppointments = upcoming

	return info, nil
}

// Appointment operations

func (s *DatabaseStore) CreateAppointment(clientID uint, date time.Time, service string, duration int, notes string) (uint, error) {
	appt := &models.Appointment{
		ClientID: clientID,
		Date:     date,
		Service:  service,
		Duration: duration,
		Notes:    notes,
	}
	if err := s.db.Create(appt).Error; err != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appt.ID, nil
}

func (s *DatabaseStore) GetAppointment(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment not found")
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	return &appt, nil
}

func (s *DatabaseStore) GetUpcomingAppointments(clientID uint) ([]*models.Appointment, error) {
	var appts []*models.Appointment
	err := s.db.
		Where("client_id = ? AND date > ? AND status = ?", clientID, time.Now(), models.AppointmentStatusScheduled).
		Order("date ASC").
		Limit(5).
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming appointments: %w", err)
	}
	return appts, nil
}

func (s *DatabaseStore) UpdateAppointmentStatus(id uint, status string) error {
	result := s.db.Model(&models.Appointment{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

// AvailableSlots returns open hourly slots for a day, excluding times
// already taken by scheduled appointments.
func (s *DatabaseStore) AvailableSlots(date time.Time, service string) ([]string, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var appts []models.Appointment
	err := s.db.
		Where("date >= ? AND date < ? AND status = ?", dayStart, dayEnd, models.AppointmentStatusScheduled).
		Find(&appts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	booked := make(map[string]bool)
	for _, appt := range appts {
		booked[appt.Date.Format("3:04 PM")] = true
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

func (s *DatabaseStore) CreatePendingTransaction(bookingID, transactionID string, amount float64) (*models.PaymentTransaction, error) {
	txn := &models.PaymentTransaction{
		BookingID:     bookingID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        models.TransactionStatusPending,
	}
	if err := s.db.Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

func (s *DatabaseStore) GetTransactionByID(transactionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := s.db.Where("transaction_id = ?", transactionID).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction not found")
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	return &txn, nil
}

func (s *DatabaseStore) UpdateTransactionStatus(transactionID, status string) error {
	result := s.db.Model(&models.PaymentTransaction{}).
		Where("transaction_id = ?", transactionID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// Counts returns record totals for the health endpoint
func (s *DatabaseStore) Counts() (int64, int64, int64, error) {
	var clients, appointments, transactions int64
	if err := s.db.Model(&models.Client{}).Count(&clients).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := s.db.Model(&models.Appointment{}).Count(&appointments).Error; err != nil {
		return 0, 0, 0, err
	}
	if err := s.db.Model(&models.PaymentTransaction{}).Count(&transactions).Error; err != nil {
		return 0, 0, 0, err
	}
	return clients, appointments, transactions, nil
}
