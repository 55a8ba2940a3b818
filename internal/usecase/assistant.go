package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"portfolio-server/internal/domain"
)

const (
	// Greeting is the fixed first transcript turn of every session.
	Greeting = "Hello! 👋 I'm AI'k, Archilles' AI assistant. I can tell you about his skills, experience, and projects. If you'd like to contact him, just let me know!"

	// maxHistoryTurns bounds how much transcript is forwarded to the
	// chat proxy per turn.
	maxHistoryTurns = 10
)

// ChatReplier is the chat-proxy interface the assistant falls through to
// when the wizard does not consume a turn.
type ChatReplier interface {
	Reply(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// session is one visitor's transcript plus wizard. Transcripts are
// in-memory only and die with the session; nothing is persisted.
type session struct {
	mu         sync.Mutex
	transcript []domain.ConversationTurn
	wizard     *ContactWizard
}

// AssistantService routes each visitor turn through the contact wizard
// first and the chat proxy second, maintaining the session transcript.
type AssistantService struct {
	chat       ChatReplier
	dispatcher EmailDispatcher

	mu       sync.Mutex
	sessions map[string]*session
}

type AssistantInput struct {
	SessionID string
	Message   string
}

type AssistantOutput struct {
	SessionID string
	Reply     string
}

func NewAssistantService(chat ChatReplier, dispatcher EmailDispatcher) (*AssistantService, error) {
	if chat == nil {
		return nil, errors.New("usecase: chat replier must not be nil")
	}
	if dispatcher == nil {
		return nil, errors.New("usecase: email dispatcher must not be nil")
	}
	return &AssistantService{
		chat:       chat,
		dispatcher: dispatcher,
		sessions:   make(map[string]*session),
	}, nil
}

// HandleMessage processes one visitor turn. Unknown or blank session IDs
// start a fresh session. Chat-proxy failure never surfaces as an error:
// the visitor gets the connection-trouble turn with the manual contact
// address and the session stays usable.
func (s *AssistantService) HandleMessage(ctx context.Context, in AssistantInput) (AssistantOutput, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return AssistantOutput{}, newError(ErrorInvalidInput, "empty_message", nil)
	}

	id, sess := s.lookup(in.SessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.transcript = append(sess.transcript, domain.ConversationTurn{
		Speaker: domain.RoleUser,
		Text:    msg,
	})

	if reply, consumed := sess.wizard.Step(ctx, msg); consumed {
		sess.transcript = append(sess.transcript, domain.ConversationTurn{
			Speaker: domain.RoleAssistant,
			Text:    reply,
		})
		return AssistantOutput{SessionID: id, Reply: reply}, nil
	}

	reply, err := s.chat.Reply(ctx, recentHistory(sess.transcript))
	if err != nil {
		slog.Error("chat proxy call failed", "session", id, "err", err)
		reply = fmt.Sprintf("I'm having trouble connecting. You can reach Archilles directly at %s", FallbackContactEmail)
	}

	sess.transcript = append(sess.transcript, domain.ConversationTurn{
		Speaker: domain.RoleAssistant,
		Text:    reply,
	})
	return AssistantOutput{SessionID: id, Reply: reply}, nil
}

// Transcript returns a copy of a session's transcript, or nil for an
// unknown session.
func (s *AssistantService) Transcript(sessionID string) []domain.ConversationTurn {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.ConversationTurn, len(sess.transcript))
	copy(out, sess.transcript)
	return out
}

func (s *AssistantService) lookup(sessionID string) (string, *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		if sess, ok := s.sessions[sessionID]; ok {
			return sessionID, sess
		}
	}

	id := newSessionID()
	sess := &session{
		transcript: []domain.ConversationTurn{{Speaker: domain.RoleAssistant, Text: Greeting}},
		wizard:     NewContactWizard(s.dispatcher),
	}
	s.sessions[id] = sess
	return id, sess
}

// recentHistory maps a transcript to provider chat messages. The newest
// turn is always forwarded; only the turns before it are capped at
// maxHistoryTurns, so the provider sees at most maxHistoryTurns+1
// messages per call.
func recentHistory(transcript []domain.ConversationTurn) []domain.ChatMessage {
	start := 0
	if prior := len(transcript) - 1; prior > maxHistoryTurns {
		start = prior - maxHistoryTurns
	}
	out := make([]domain.ChatMessage, 0, len(transcript)-start)
	for _, t := range transcript[start:] {
		out = append(out, domain.ChatMessage{Role: t.Speaker, Content: t.Text})
	}
	return out
}

var newSessionID = func() string {
	return uuid.NewString()
}
