package services

import (
	"log"
	"sync"
	"time"

	"github.com/glowdesk/salon-backend/internal/models"
)

// ConversationStore holds in-flight booking conversations keyed by phone
// number. It is a cache, not a system of record: records are created lazily
// on the first inbound message and evicted after an idle TTL or an explicit
// clear. Durable client and appointment data lives in storage.Store.
type ConversationStore struct {
	mu      sync.RWMutex
	records map[string]*models.ConversationRecord
	locks   map[string]*sync.Mutex
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// ConversationSummary is the read-only projection used to build LLM context
type ConversationSummary struct {
	Step            models.Step `json:"step"`
	SelectedService string      `json:"selected_service,omitempty"`
	SelectedDate    string      `json:"selected_date,omitempty"`
	SelectedTime    string      `json:"selected_time,omitempty"`
	ClientName      string      `json:"client_name,omitempty"`
	ClientEmail     string      `json:"client_email,omitempty"`
}

// DefaultConversationTTL is how long an idle conversation survives
const DefaultConversationTTL = 30 * time.Minute

// NewConversationStore creates a conversation store and starts its cleanup
// routine. Call Stop on shutdown.
func NewConversationStore(ttl time.Duration) *ConversationStore {
	if ttl <= 0 {
		ttl = DefaultConversationTTL
	}
	cs := &ConversationStore{
		records: make(map[string]*models.ConversationRecord),
		locks:   make(map[string]*sync.Mutex),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	go cs.cleanupExpired()

	return cs
}

// GetOrCreate fetches the conversation for a phone number, creating a fresh
// record on first contact, and stamps the activity time.
func (cs *ConversationStore) GetOrCreate(phone string) *models.ConversationRecord {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	record, exists := cs.records[phone]
	if !exists {
		now := time.Now()
		record = &models.ConversationRecord{
			PhoneNumber:    phone,
			Step:           models.StepGreeting,
			CreatedAt:      now,
			LastActivityAt: now,
		}
		cs.records[phone] = record
	} else {
		record.LastActivityAt = time.Now()
	}

	return record
}

// Get returns the record for a phone number without creating one
func (cs *ConversationStore) Get(phone string) (*models.ConversationRecord, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	record, exists := cs.records[phone]
	return record, exists
}

// Clear removes the conversation for a phone number
func (cs *ConversationStore) Clear(phone string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.records, phone)
}

// Summary returns the read-only projection for LLM prompt context, or nil
// if there is no conversation for the number.
func (cs *ConversationStore) Summary(phone string) *ConversationSummary {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	record, exists := cs.records[phone]
	if !exists {
		return nil
	}

	return &ConversationSummary{
		Step:            record.Step,
		SelectedService: record.SelectedService,
		SelectedDate:    record.SelectedDate,
		SelectedTime:    record.SelectedTime,
		ClientName:      record.ClientName,
		ClientEmail:     record.ClientEmail,
	}
}

// ActiveCount returns the number of live conversations
func (cs *ConversationStore) ActiveCount() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	return len(cs.records)
}

// LockPhone serializes processing per phone number so two messages from the
// same sender cannot interleave a read-modify-write. Returns the unlock func.
func (cs *ConversationStore) LockPhone(phone string) func() {
	cs.mu.Lock()
	lock, exists := cs.locks[phone]
	if !exists {
		lock = &sync.Mutex{}
		cs.locks[phone] = lock
	}
	cs.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Stop terminates the cleanup routine
func (cs *ConversationStore) Stop() {
	cs.once.Do(func() { close(cs.done) })
}

// cleanupExpired evicts conversations idle past the TTL
func (cs *ConversationStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired := cs.evictExpired()
			if expired > 0 {
				log.Printf("Cleaned up %d expired conversations", expired)
			}
		case <-cs.done:
			return
		}
	}
}

func (cs *ConversationStore) evictExpired() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	expired := 0
	cutoff := time.Now().Add(-cs.ttl)
	for phone, record := range cs.records {
		if record.LastActivityAt.Before(cutoff) {
			delete(cs.records, phone)
			delete(cs.locks, phone)
			expired++
		}
	}
	return expired
}
