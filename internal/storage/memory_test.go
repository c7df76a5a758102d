package storage

import (
	"testing"
	"time"

	"github.com/glowdesk/salon-backend/internal/models"
)

func TestMemoryStoreClientLookupVariations(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.CreateClient(&models.Client{
		Name:  "Jane Doe",
		Phone: "(555) 123-4567",
		Email: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	if created.Phone != "+15551234567" {
		t.Errorf("stored phone = %q, want normalized +15551234567", created.Phone)
	}

	for _, lookup := range []string{"+15551234567", "15551234567", "5551234567", "(555) 123-4567"} {
		client, err := store.GetClientByPhone(lookup)
		if err != nil {
			t.Errorf("GetClientByPhone(%q) failed: %v", lookup, err)
			continue
		}
		if client.ID != created.ID {
			t.Errorf("GetClientByPhone(%q) returned client %d, want %d", lookup, client.ID, created.ID)
		}
	}
}

func TestMemoryStoreDuplicatePhoneRejected(t *testing.T) {
	store := NewMemoryStore()

	if _, err := store.CreateClient(&models.Client{Name: "A", Phone: "5551234567"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateClient(&models.Client{Name: "B", Phone: "+15551234567"}); err == nil {
		t.Error("duplicate phone was accepted")
	}
}

func TestMemoryStoreClientInfo(t *testing.T) {
	store := NewMemoryStore()

	client, err := store.CreateClient(&models.Client{Name: "Jane", Phone: "5551234567"})
	if err != nil {
		t.Fatal(err)
	}

	past := time.Now().AddDate(0, -1, 0)
	future := time.Now().AddDate(0, 0, 7)
	if _, err := store.CreateAppointment(client.ID, past, "Haircut", 60, ""); err != nil {
		t.Fatal(err)
	}
	futureID, err := store.CreateAppointment(client.ID, future, "Balayage", 180, "")
	if err != nil {
		t.Fatal(err)
	}

	info, err := store.GetClientInfo("5551234567")
	if err != nil {
		t.Fatalf("GetClientInfo failed: %v", err)
	}
	if info.TotalAppointments != 2 {
		t.Errorf("TotalAppointments = %d, want 2", info.TotalAppointments)
	}
	if len(info.UpcomingAppointments) != 1 || info.UpcomingAppointments[0].ID != futureID {
		t.Errorf("UpcomingAppointments = %+v", info.UpcomingAppointments)
	}

	// Cancelled appointments drop out of upcoming
	if err := store.UpdateAppointmentStatus(futureID, models.AppointmentStatusCancelled); err != nil {
		t.Fatal(err)
	}
	info, err = store.GetClientInfo("5551234567")
	if err != nil {
		t.Fatal(err)
	}
	if len(info.UpcomingAppointments) != 0 {
		t.Error("cancelled appointment still listed as upcoming")
	}
}

func TestMemoryStoreAvailableSlots(t *testing.T) {
	store := NewMemoryStore()

	day := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	slots, err := store.AvailableSlots(day, "haircut")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 8 {
		t.Fatalf("empty day has %d slots, want 8", len(slots))
	}
	if slots[0] != "9:00 AM" || slots[len(slots)-1] != "4:00 PM" {
		t.Errorf("slot range = %q .. %q", slots[0], slots[len(slots)-1])
	}

	client, err := store.CreateClient(&models.Client{Name: "Jane", Phone: "5551234567"})
	if err != nil {
		t.Fatal(err)
	}
	nineAM := time.Date(2025, time.June, 5, 9, 0, 0, 0, time.UTC)
	apptID, err := store.CreateAppointment(client.ID, nineAM, "Haircut", 60, "")
	if err != nil {
		t.Fatal(err)
	}

	slots, err = store.AvailableSlots(day, "haircut")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 7 {
		t.Errorf("day with one booking has %d slots, want 7", len(slots))
	}
	for _, slot := range slots {
		if slot == "9:00 AM" {
			t.Error("booked 9:00 AM slot still offered")
		}
	}

	// Cancelling frees the slot
	if err := store.UpdateAppointmentStatus(apptID, models.AppointmentStatusCancelled); err != nil {
		t.Fatal(err)
	}
	slots, err = store.AvailableSlots(day, "haircut")
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 8 {
		t.Errorf("day after cancellation has %d slots, want 8", len(slots))
	}
}

func TestMemoryStoreTransactions(t *testing.T) {
	store := NewMemoryStore()

	txn, err := store.CreatePendingTransaction("booking-1", "HLC-abc", 45.00)
	if err != nil {
		t.Fatal(err)
	}
	if txn.Status != models.TransactionStatusPending {
		t.Errorf("new transaction status = %q", txn.Status)
	}

	if _, err := store.CreatePendingTransaction("booking-2", "HLC-abc", 10.00); err == nil {
		t.Error("duplicate transaction ID was accepted")
	}

	if err := store.UpdateTransactionStatus("HLC-abc", models.TransactionStatusCompleted); err != nil {
		t.Fatal(err)
	}
	fetched, err := store.GetTransactionByID("HLC-abc")
	if err != nil {
		t.Fatal(err)
	}
	if fetched.Status != models.TransactionStatusCompleted {
		t.Errorf("updated status = %q", fetched.Status)
	}

	if err := store.UpdateTransactionStatus("HLC-missing", models.TransactionStatusFailed); err == nil {
		t.Error("updating a missing transaction succeeded")
	}
}

func TestMemoryStoreCounts(t *testing.T) {
	store := NewMemoryStore()

	client, err := store.CreateClient(&models.Client{Name: "Jane", Phone: "5551234567"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateAppointment(client.ID, time.Now(), "Haircut", 60, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreatePendingTransaction("b", "t", 1); err != nil {
		t.Fatal(err)
	}

	clients, appointments, transactions, err := store.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if clients != 1 || appointments != 1 || transactions != 1 {
		t.Errorf("Counts = %d/%d/%d, want 1/1/1", clients, appointments, transactions)
	}
}
