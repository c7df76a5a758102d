package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/twilio/twilio-go/twiml"
)

const (
	voiceName     = "alice"
	voiceLanguage = "en-US"
	maxVoiceTurns = 10
)

// voiceTurn is one exchange in a call's running transcript
type voiceTurn struct {
	Role    string
	Content string
}

// callRecord tracks an active phone call
type callRecord struct {
	CallSid   string
	StartedAt time.Time
	Turns     []voiceTurn
}

// CallStatus is the monitoring view of one call
type CallStatus struct {
	CallSid              string    `json:"call_sid"`
	StartedAt            time.Time `json:"started_at"`
	ConversationMessages int       `json:"conversation_messages"`
}

// VoiceService builds TwiML for inbound calls and keeps a short per-call
// transcript so the LLM can answer follow-up questions in context.
type VoiceService struct {
	mu          sync.RWMutex
	llm         *LLMService
	calls       map[string]*callRecord
	webhookBase string
}

// NewVoiceService creates a new voice service. The LLM may be nil, in which
// case callers get a polite hand-off to staff.
func NewVoiceService(llm *LLMService) *VoiceService {
	return &VoiceService{
		llm:         llm,
		calls:       make(map[string]*callRecord),
		webhookBase: strings.TrimRight(os.Getenv("WEBHOOK_BASE_URL"), "/"),
	}
}

// CreateInitialResponse greets the caller and gathers speech
func (v *VoiceService) CreateInitialResponse(callSid string) (string, error) {
	v.mu.Lock()
	if _, exists := v.calls[callSid]; !exists {
		v.calls[callSid] = &callRecord{CallSid: callSid, StartedAt: time.Now()}
	}
	v.mu.Unlock()

	greeting := &twiml.VoiceSay{
		Message:  "Hello! Welcome to our salon. I'm your assistant. How can I help you today?",
		Voice:    voiceName,
		Language: voiceLanguage,
	}

	gather := &twiml.VoiceGather{
		Input:         "speech",
		Action:        v.processURL(callSid),
		Method:        "POST",
		SpeechTimeout: "auto",
		SpeechModel:   "phone_call",
		Enhanced:      "true",
		Language:      voiceLanguage,
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{
				Message:  "I didn't catch that. Could you please repeat your request?",
				Voice:    voiceName,
				Language: voiceLanguage,
			},
		},
	}

	stillHere := &twiml.VoiceSay{
		Message:  "I'm still here to help. Please let me know what you need.",
		Voice:    voiceName,
		Language: voiceLanguage,
	}

	doc, err := twiml.Voice([]twiml.Element{greeting, gather, stillHere})
	if err != nil {
		return "", fmt.Errorf("failed to build initial TwiML: %w", err)
	}
	return doc, nil
}

// CreateProcessingResponse answers the caller's speech and re-gathers
func (v *VoiceService) CreateProcessingResponse(ctx context.Context, callSid, speech string) (string, error) {
	reply := v.generateReply(ctx, callSid, speech)

	answer := &twiml.VoiceSay{Message: reply, Voice: voiceName, Language: voiceLanguage}
	anythingElse := &twiml.VoiceSay{
		Message:  "Is there anything else I can help you with?",
		Voice:    voiceName,
		Language: voiceLanguage,
	}

	gather := &twiml.VoiceGather{
		Input:         "speech",
		Action:        v.processURL(callSid),
		Method:        "POST",
		SpeechTimeout: "auto",
		SpeechModel:   "phone_call",
		Enhanced:      "true",
		Language:      voiceLanguage,
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{
				Message:  "I didn't hear anything. Please let me know if you need further assistance.",
				Voice:    voiceName,
				Language: voiceLanguage,
			},
		},
	}

	goodbye := &twiml.VoiceSay{
		Message:  "Thank you for calling our salon. Have a wonderful day!",
		Voice:    voiceName,
		Language: voiceLanguage,
	}

	doc, err := twiml.Voice([]twiml.Element{answer, anythingElse, gather, goodbye, &twiml.VoiceHangup{}})
	if err != nil {
		return "", fmt.Errorf("failed to build processing TwiML: %w", err)
	}
	return doc, nil
}

// CreateErrorResponse is the fallback TwiML for any handler failure
func (v *VoiceService) CreateErrorResponse() string {
	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message:  "I'm sorry, an error occurred. Please try again later.",
			Voice:    voiceName,
			Language: voiceLanguage,
		},
		&twiml.VoiceHangup{},
	})
	if err != nil {
		// Last resort: hand-written minimal document
		return `<?xml version="1.0" encoding="UTF-8"?><Response><Say>I'm sorry, an error occurred. Please try again later.</Say><Hangup/></Response>`
	}
	return doc
}

// CleanupConversation drops the transcript when a call ends
func (v *VoiceService) CleanupConversation(callSid string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.calls, callSid)
}

// Status returns monitoring info for a call
func (v *VoiceService) Status(callSid string) (*CallStatus, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	call, exists := v.calls[callSid]
	if !exists {
		return nil, false
	}
	return &CallStatus{
		CallSid:              call.CallSid,
		StartedAt:            call.StartedAt,
		ConversationMessages: len(call.Turns),
	}, true
}

// ActiveCalls returns the number of calls with live transcripts
func (v *VoiceService) ActiveCalls() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.calls)
}

// generateReply runs the caller's speech through the LLM with the recent
// transcript as context
func (v *VoiceService) generateReply(ctx context.Context, callSid, speech string) string {
	v.mu.Lock()
	call, exists := v.calls[callSid]
	if !exists {
		call = &callRecord{CallSid: callSid, StartedAt: time.Now()}
		v.calls[callSid] = call
	}
	call.Turns = append(call.Turns, voiceTurn{Role: "caller", Content: speech})
	if len(call.Turns) > maxVoiceTurns {
		call.Turns = call.Turns[len(call.Turns)-maxVoiceTurns:]
	}
	transcript := v.formatTranscript(call)
	v.mu.Unlock()

	if v.llm == nil {
		return "I'm sorry, I'm having trouble processing your request. Let me connect you to our staff."
	}

	reply, err := v.llm.GenerateReply(ctx, transcript, nil, nil)
	if err != nil {
		log.Printf("Voice LLM reply failed for call %s: %v", callSid, err)
		return "I'm sorry, I'm having trouble processing your request. Let me connect you to our staff."
	}

	v.mu.Lock()
	call.Turns = append(call.Turns, voiceTurn{Role: "assistant", Content: reply})
	v.mu.Unlock()

	return reply
}

func (v *VoiceService) formatTranscript(call *callRecord) string {
	if len(call.Turns) == 1 {
		return call.Turns[0].Content
	}

	var b strings.Builder
	b.WriteString("Phone call transcript so far:\n")
	for _, turn := range call.Turns {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	b.WriteString("\nRespond to the caller's last message.")
	return b.String()
}

func (v *VoiceService) processURL(callSid string) string {
	path := fmt.Sprintf("/webhook/voice/process?call_sid=%s", callSid)
	if v.webhookBase != "" {
		return v.webhookBase + path
	}
	return path
}
