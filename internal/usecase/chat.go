package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-server/internal/domain"
)

// LLMClient is the chat-completion interface the chat proxy depends on.
type LLMClient interface {
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// WeatherReporter supplies the current-conditions line embedded in the
// real-time context block.
type WeatherReporter interface {
	Current(ctx context.Context) domain.WeatherReport
}

// ApologyReply is the fixed substitute returned to the visitor when the
// provider fails or returns no completion.
const ApologyReply = "Sorry, I couldn't generate a response."

// manilaTZ is the portfolio owner's timezone; timestamps in the prompt
// are always local to it.
const manilaTZ = "Asia/Manila"

// ChatService assembles the persona prompt plus live time/weather
// context, forwards the conversation to the language-model provider, and
// returns the single reply text.
type ChatService struct {
	llm     LLMClient
	persona *Persona
	weather WeatherReporter
	now     func() time.Time
}

func NewChatService(llm LLMClient, persona *Persona, weather WeatherReporter) (*ChatService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if persona == nil {
		return nil, errors.New("usecase: persona must not be nil")
	}
	if weather == nil {
		return nil, errors.New("usecase: weather reporter must not be nil")
	}
	return &ChatService{
		llm:     llm,
		persona: persona,
		weather: weather,
		now:     time.Now,
	}, nil
}

// Reply forwards the supplied history, prefixed with the system prompt,
// and returns the completion text. The provider is called exactly once;
// failures come back as typed upstream/internal errors for the handler
// to map.
func (s *ChatService) Reply(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", newError(ErrorInvalidInput, "empty_messages", nil)
	}

	system, err := s.persona.SystemPrompt(ctx)
	if err != nil {
		return "", newError(ErrorInternal, "persona_load_error", err)
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, domain.ChatMessage{
		Role:    domain.RoleSystem,
		Content: system + s.realTimeContext(ctx),
	})
	for _, m := range history {
		messages = append(messages, domain.ChatMessage{
			Role:    domain.NormalizeRole(m.Role),
			Content: m.Content,
		})
	}

	reply, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", newError(ErrorUpstream, "llm_error", err)
	}
	if strings.TrimSpace(reply) == "" {
		return ApologyReply, nil
	}
	return reply, nil
}

// realTimeContext renders the dynamic block appended to the system
// prompt: local date/time, current weather, and location.
func (s *ChatService) realTimeContext(ctx context.Context) string {
	report := s.weather.Current(ctx)

	weatherLine := report.Line()
	if report.Fallback {
		weatherLine = "Weather data unavailable"
	}

	return fmt.Sprintf(`

## REAL-TIME INFORMATION (Always use this data when relevant!)
- **Current Date & Time:** %s (Philippines Time)
- **Current Weather in GenSan:** %s
- **Archilles' Location:** General Santos City, Philippines`,
		s.localTime(), weatherLine)
}

func (s *ChatService) localTime() string {
	return s.now().In(manilaLocation()).Format("Monday, January 2, 2006, 3:04 PM")
}

// manilaLocation falls back to a fixed UTC+8 zone on hosts without
// tzdata; the Philippines does not observe DST.
func manilaLocation() *time.Location {
	if loc, err := time.LoadLocation(manilaTZ); err == nil {
		return loc
	}
	return time.FixedZone("PHT", 8*60*60)
}
