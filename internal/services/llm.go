package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/glowdesk/salon-backend/internal/models"
)

const (
	defaultChatModel  = "gpt-4o-mini"
	chatTimeout       = 15 * time.Second
	chatMaxRetries    = 2
	replyMaxTokens    = 150
	replyTemperature  = 0.7
	fallbackChatReply = "Thank you for your message. Please call us directly for assistance."
)

const systemPromptBase = `You are an AI assistant for a professional salon. Your role is to help clients with appointment-related inquiries via SMS.

Key responsibilities:
- Guide clients through the appointment booking process
- Provide information about services and pricing
- Answer questions about salon policies and hours
- Be friendly, professional, and concise
- Keep responses under 160 characters when possible
- If you can't handle a request, offer to have someone call them

Important guidelines:
- Always be polite and professional
- Ask one question at a time to avoid overwhelming
- Don't make up information about services or pricing
- If unsure about availability, verify before confirming`

// LLMService generates conversational replies when the booking flow defers
type LLMService struct {
	client    openaigo.Client
	model     string
	knowledge *BusinessKnowledge
}

// NewLLMService creates the LLM client from environment configuration
func NewLLMService(knowledge *BusinessKnowledge) (*LLMService, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY in environment variables")
	}

	model := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if model == "" {
		model = defaultChatModel
	}

	client := openaigo.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(chatMaxRetries),
		option.WithRequestTimeout(chatTimeout),
	)

	return &LLMService{
		client:    client,
		model:     model,
		knowledge: knowledge,
	}, nil
}

// GenerateReply produces a freeform reply for a message the booking flow
// declined to handle. Client context and the conversation summary keep the
// model grounded in what the caller already told us.
func (l *LLMService) GenerateReply(ctx context.Context, userMessage string, clientInfo *models.ClientInfo, summary *ConversationSummary) (string, error) {
	resp, err := l.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(l.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(l.systemPrompt()),
			openaigo.UserMessage(l.buildPrompt(userMessage, clientInfo, summary)),
		},
		MaxTokens:   openaigo.Int(replyMaxTokens),
		Temperature: openaigo.Float(replyTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("chat completion returned an empty reply")
	}
	return reply, nil
}

// FallbackReply is what the caller sends when the LLM is unavailable
func (l *LLMService) FallbackReply() string {
	return fallbackChatReply
}

func (l *LLMService) systemPrompt() string {
	prompt := systemPromptBase
	if l.knowledge != nil {
		prompt += "\n\nBusiness information:\n" + l.knowledge.PromptContext()
	}
	return prompt
}

func (l *LLMService) buildPrompt(userMessage string, clientInfo *models.ClientInfo, summary *ConversationSummary) string {
	var b strings.Builder

	if clientInfo != nil {
		b.WriteString("Client context:\n")
		if clientInfo.Name != "" {
			fmt.Fprintf(&b, "- Name: %s\n", clientInfo.Name)
		}
		fmt.Fprintf(&b, "- Total past appointments: %d\n", clientInfo.TotalAppointments)
		if clientInfo.LastAppointment != nil {
			fmt.Fprintf(&b, "- Last appointment: %s\n", clientInfo.LastAppointment.Format("January 2, 2006"))
		}
		for _, appt := range clientInfo.UpcomingAppointments {
			fmt.Fprintf(&b, "- Upcoming: %s on %s\n", appt.Service, appt.Date.Format("January 2 at 3:04 PM"))
		}
		b.WriteString("\n")
	}

	if summary != nil && summary.Step != models.StepGreeting {
		fmt.Fprintf(&b, "Booking in progress (step: %s)", summary.Step)
		if summary.SelectedService != "" {
			fmt.Fprintf(&b, ", service: %s", summary.SelectedService)
		}
		if summary.SelectedDate != "" {
			fmt.Fprintf(&b, ", date: %s %s", summary.SelectedDate, summary.SelectedTime)
		}
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Client message: %s", userMessage)
	return b.String()
}
