package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/glowdesk/salon-backend/internal/services"
	"github.com/glowdesk/salon-backend/internal/storage"
)

func newSMSTestApp(t *testing.T, store storage.Store) *fiber.App {
	t.Helper()

	conversations := services.NewConversationStore(time.Minute)
	t.Cleanup(conversations.Stop)
	flow := services.NewBookingFlow(store, services.NewCatalog(), conversations)

	// No Twilio and no LLM: replies come back in the JSON response and
	// general conversation falls back to the canned message
	handler := NewSMSHandler(store, flow, conversations, nil, nil)

	app := fiber.New()
	app.Post("/webhook/sms", handler.HandleWebhook)
	app.Post("/test/sms", handler.HandleTestWebhook)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, form url.Values) map[string]any {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("POST %s returned status %d", path, resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestSMSWebhookBookingIntent(t *testing.T) {
	app := newSMSTestApp(t, storage.NewMemoryStore())

	body := postForm(t, app, "/webhook/sms", url.Values{
		"MessageSid": {"SM123"},
		"From":       {"+15551234567"},
		"To":         {"+15559990000"},
		"Body":       {"I want to book an appointment"},
	})

	reply, _ := body["message"].(string)
	if !strings.Contains(reply, "Haircut") {
		t.Errorf("booking intent reply %q does not list services", reply)
	}
}

func TestSMSWebhookGeneralConversationFallsBack(t *testing.T) {
	app := newSMSTestApp(t, storage.NewMemoryStore())

	body := postForm(t, app, "/webhook/sms", url.Values{
		"MessageSid": {"SM124"},
		"From":       {"+15551234567"},
		"Body":       {"what are your hours?"},
	})

	reply, _ := body["message"].(string)
	if !strings.Contains(reply, "call us directly") {
		t.Errorf("fallback reply = %q", reply)
	}
}

func TestSMSWebhookIgnoresStatusCallbacks(t *testing.T) {
	app := newSMSTestApp(t, storage.NewMemoryStore())

	req := httptest.NewRequest("POST", "/webhook/sms", strings.NewReader(url.Values{
		"MessageSid": {"SM125"},
		"From":       {"+15551234567"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("empty-body callback got status %d", resp.StatusCode)
	}
}

func TestSMSTestEndpointFullBooking(t *testing.T) {
	store := storage.NewMemoryStore()
	app := newSMSTestApp(t, store)

	send := func(message string) string {
		payload, _ := json.Marshal(TestSMSPayload{From: "+15551234567", Message: message})
		req := httptest.NewRequest("POST", "/test/sms", strings.NewReader(string(payload)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		reply, _ := body["response"].(string)
		return reply
	}

	send("book me in")
	send("haircut")
	send("tomorrow")
	send("Jane Doe")
	send("jane@example.com")
	reply := send("yes")

	if !strings.Contains(reply, "confirmed") {
		t.Errorf("final reply = %q, want confirmation", reply)
	}

	client, err := store.GetClientByPhone("+15551234567")
	if err != nil {
		t.Fatalf("client not persisted: %v", err)
	}
	if client.Name != "Jane Doe" {
		t.Errorf("persisted client name = %q", client.Name)
	}

	// A completed booking leaves no lingering conversation state, so the
	// next message starts fresh
	reply = send("hello again")
	if !strings.Contains(reply, "call us directly") {
		t.Errorf("post-booking chitchat reply = %q", reply)
	}
}

func TestSMSTestEndpointValidation(t *testing.T) {
	app := newSMSTestApp(t, storage.NewMemoryStore())

	req := httptest.NewRequest("POST", "/test/sms", strings.NewReader(`{"from":""}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("empty test payload got status %d, want 400", resp.StatusCode)
	}
}
