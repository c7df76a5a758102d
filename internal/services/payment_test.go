package services

import (
	"strings"
	"testing"

	"github.com/glowdesk/salon-backend/internal/models"
	"github.com/glowdesk/salon-backend/internal/storage"
)

func TestInitiatePayment(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewPaymentService(store)

	result, err := svc.InitiatePayment("booking-1", "terminal-1", 45.00)
	if err != nil {
		t.Fatalf("InitiatePayment failed: %v", err)
	}
	if !result.Success || result.Status != "processing" {
		t.Errorf("result = %+v", result)
	}
	if !strings.HasPrefix(result.TransactionID, "HLC-") {
		t.Errorf("transaction ID %q missing HLC prefix", result.TransactionID)
	}

	txn, err := store.GetTransactionByID(result.TransactionID)
	if err != nil {
		t.Fatalf("pending transaction not recorded: %v", err)
	}
	if txn.Status != models.TransactionStatusPending || txn.Amount != 45.00 {
		t.Errorf("recorded transaction = %+v", txn)
	}
}

func TestInitiatePaymentValidation(t *testing.T) {
	svc := NewPaymentService(storage.NewMemoryStore())

	cases := []struct {
		bookingID  string
		terminalID string
		amount     float64
	}{
		{"", "terminal-1", 45},
		{"booking-1", "", 45},
		{"booking-1", "terminal-1", 0},
		{"booking-1", "terminal-1", -5},
	}
	for _, tc := range cases {
		if _, err := svc.InitiatePayment(tc.bookingID, tc.terminalID, tc.amount); err == nil {
			t.Errorf("InitiatePayment(%q, %q, %v) succeeded, want error", tc.bookingID, tc.terminalID, tc.amount)
		}
	}
}

func TestProcessWebhookApproved(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewPaymentService(store)

	result, err := svc.InitiatePayment("booking-1", "terminal-1", 45.00)
	if err != nil {
		t.Fatal(err)
	}

	payload := []byte(`{"transactionId":"` + result.TransactionID + `","status":"APPROVED"}`)
	event, err := svc.ProcessWebhook(payload)
	if err != nil {
		t.Fatalf("ProcessWebhook failed: %v", err)
	}
	if event.TransactionID != result.TransactionID {
		t.Errorf("event transaction = %q", event.TransactionID)
	}

	txn, err := store.GetTransactionByID(result.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if txn.Status != models.TransactionStatusCompleted {
		t.Errorf("approved transaction status = %q, want completed", txn.Status)
	}
}

func TestProcessWebhookDeclined(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewPaymentService(store)

	result, err := svc.InitiatePayment("booking-1", "terminal-1", 45.00)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ProcessWebhook([]byte(`{"transactionId":"` + result.TransactionID + `","status":"DECLINED"}`)); err != nil {
		t.Fatalf("ProcessWebhook failed: %v", err)
	}

	txn, err := store.GetTransactionByID(result.TransactionID)
	if err != nil {
		t.Fatal(err)
	}
	if txn.Status != models.TransactionStatusFailed {
		t.Errorf("declined transaction status = %q, want failed", txn.Status)
	}
}

func TestProcessWebhookBadPayload(t *testing.T) {
	svc := NewPaymentService(storage.NewMemoryStore())

	for _, payload := range []string{"not json", `{}`, `{"status":"APPROVED"}`} {
		if _, err := svc.ProcessWebhook([]byte(payload)); err == nil {
			t.Errorf("ProcessWebhook(%q) succeeded, want error", payload)
		}
	}
}
