package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-server/internal/domain"
)

type mockChat struct {
	reply    string
	err      error
	calls    int
	captured []domain.ChatMessage
}

func (m *mockChat) Reply(_ context.Context, history []domain.ChatMessage) (string, error) {
	m.calls++
	m.captured = history
	return m.reply, m.err
}

func newTestAssistant(t *testing.T, chat ChatReplier, d EmailDispatcher) *AssistantService {
	t.Helper()
	svc, err := NewAssistantService(chat, d)
	require.NoError(t, err)
	return svc
}

func TestNewAssistantService_ValidatesDependencies(t *testing.T) {
	_, err := NewAssistantService(nil, &mockDispatcher{})
	require.Error(t, err)
	_, err = NewAssistantService(&mockChat{}, nil)
	require.Error(t, err)
}

func TestHandleMessage_EmptyMessage(t *testing.T) {
	svc := newTestAssistant(t, &mockChat{}, &mockDispatcher{})
	_, err := svc.HandleMessage(context.Background(), AssistantInput{Message: "  "})
	require.Error(t, err)
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, ErrorInvalidInput, ucErr.Code)
}

func TestHandleMessage_NewSessionStartsWithGreeting(t *testing.T) {
	chat := &mockChat{reply: "He's a full stack dev!"}
	svc := newTestAssistant(t, chat, &mockDispatcher{})

	out, err := svc.HandleMessage(context.Background(), AssistantInput{Message: "tell me about his skills"})
	require.NoError(t, err)
	require.NotEmpty(t, out.SessionID)

	transcript := svc.Transcript(out.SessionID)
	require.Len(t, transcript, 3)
	require.Equal(t, Greeting, transcript[0].Text)
	require.Equal(t, domain.RoleAssistant, transcript[0].Speaker)
	require.Equal(t, "tell me about his skills", transcript[1].Text)
	require.Equal(t, "He's a full stack dev!", transcript[2].Text)
}

func TestHandleMessage_ContactIntentNeverReachesChat(t *testing.T) {
	chat := &mockChat{reply: "should not be used"}
	svc := newTestAssistant(t, chat, &mockDispatcher{})

	out, err := svc.HandleMessage(context.Background(), AssistantInput{Message: "I want to hire you"})
	require.NoError(t, err)
	require.Contains(t, out.Reply, "what's your name")
	require.Zero(t, chat.calls, "contact-intent input must not be forwarded to the chat proxy")
}

func TestHandleMessage_SessionReuseKeepsWizardState(t *testing.T) {
	d := &mockDispatcher{}
	svc := newTestAssistant(t, &mockChat{}, d)
	ctx := context.Background()

	out, err := svc.HandleMessage(ctx, AssistantInput{Message: "I want to hire you for a project"})
	require.NoError(t, err)
	id := out.SessionID

	out, err = svc.HandleMessage(ctx, AssistantInput{SessionID: id, Message: "Jane"})
	require.NoError(t, err)
	require.Contains(t, out.Reply, "email")
	require.Equal(t, id, out.SessionID)

	out, err = svc.HandleMessage(ctx, AssistantInput{SessionID: id, Message: "jane@example.com"})
	require.NoError(t, err)
	require.Contains(t, out.Reply, "message")

	out, err = svc.HandleMessage(ctx, AssistantInput{SessionID: id, Message: "Need a site"})
	require.NoError(t, err)
	require.Contains(t, out.Reply, "has been sent")

	require.Equal(t, 1, d.calls)
	require.Equal(t, "Jane", d.params.FromName)
	require.Equal(t, "jane@example.com", d.params.FromEmail)
	require.Contains(t, d.params.Message, "Need a site")
}

func TestHandleMessage_ChatFailureYieldsFallbackTurn(t *testing.T) {
	chat := &mockChat{err: errors.New("provider down")}
	svc := newTestAssistant(t, chat, &mockDispatcher{})

	out, err := svc.HandleMessage(context.Background(), AssistantInput{Message: "tell me about his skills"})
	require.NoError(t, err, "chat failure must not surface as an error")
	require.Contains(t, out.Reply, FallbackContactEmail)

	// Session stays usable after the failure.
	out2, err := svc.HandleMessage(context.Background(), AssistantInput{SessionID: out.SessionID, Message: "I want to hire you"})
	require.NoError(t, err)
	require.Contains(t, out2.Reply, "what's your name")
}

func TestHandleMessage_HistoryBounded(t *testing.T) {
	chat := &mockChat{reply: "ok"}
	svc := newTestAssistant(t, chat, &mockDispatcher{})
	ctx := context.Background()

	out, err := svc.HandleMessage(ctx, AssistantInput{Message: "tell me about his skills"})
	require.NoError(t, err)
	for i := 0; i < 9; i++ {
		_, err = svc.HandleMessage(ctx, AssistantInput{SessionID: out.SessionID, Message: "more about his skills please"})
		require.NoError(t, err)
	}
	_, err = svc.HandleMessage(ctx, AssistantInput{SessionID: out.SessionID, Message: "and what about his projects?"})
	require.NoError(t, err)

	// Bounded history plus the newest input on top.
	require.Len(t, chat.captured, maxHistoryTurns+1)
	require.Equal(t, "and what about his projects?", chat.captured[len(chat.captured)-1].Content)
	require.Equal(t, domain.RoleUser, chat.captured[len(chat.captured)-1].Role)
}

func TestHandleMessage_UnknownSessionIDStartsFresh(t *testing.T) {
	chat := &mockChat{reply: "ok"}
	svc := newTestAssistant(t, chat, &mockDispatcher{})

	out, err := svc.HandleMessage(context.Background(), AssistantInput{SessionID: "nonexistent", Message: "tell me about his skills"})
	require.NoError(t, err)
	require.NotEqual(t, "nonexistent", out.SessionID)
}
