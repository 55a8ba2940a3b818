package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"portfolio-server/internal/domain"
	"portfolio-server/internal/integrations/emailrelay"
)

// contactKeywords is the fixed contact-intent vocabulary. Matching is
// case-insensitive substring with no negation handling, so "don't
// contact me" still starts the flow; that false-positive is a known
// limit of the fixed vocabulary, kept as-is pending a product decision.
var contactKeywords = []string{
	"contact",
	"email",
	"hire",
	"reach",
	"message",
	"get in touch",
	"talk to",
	"project",
	"work with",
	"services",
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// EmailDispatcher is the relay interface the wizard dispatches completed
// drafts through.
type EmailDispatcher interface {
	Send(ctx context.Context, params emailrelay.TemplateParams) error
}

// ContactWizard walks a visitor from free-text chat input to a validated
// name/email/message submission, then triggers exactly one dispatch
// attempt. One wizard instance belongs to one session; the caller
// serializes turns.
type ContactWizard struct {
	dispatcher EmailDispatcher
	state      domain.WizardState
	draft      domain.ContactDraft
}

func NewContactWizard(dispatcher EmailDispatcher) *ContactWizard {
	return &ContactWizard{dispatcher: dispatcher, state: domain.StateIdle}
}

// State exposes the current wizard state.
func (w *ContactWizard) State() domain.WizardState {
	return w.state
}

// Draft exposes a copy of the collected fields.
func (w *ContactWizard) Draft() domain.ContactDraft {
	return w.draft
}

// WantsToContact classifies free-text input as contact intent against
// the fixed vocabulary.
func WantsToContact(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range contactKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractEmail returns the first email-shaped substring of text, or ""
// when none is present.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// Step advances the wizard with one visitor turn. It returns the
// assistant reply and whether the wizard consumed the turn; an
// unconsumed turn in the idle state belongs to the chat proxy. At most
// one draft field mutates per call.
func (w *ContactWizard) Step(ctx context.Context, input string) (reply string, consumed bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	switch w.state {
	case domain.StateIdle:
		if !WantsToContact(input) {
			return "", false
		}
		w.state = domain.StateAwaitingName
		return "Great! I'd be happy to help you get in touch with Archilles. 📝 First, what's your name?", true

	case domain.StateAwaitingName:
		w.draft.Name = input
		w.state = domain.StateAwaitingEmail
		return fmt.Sprintf("Nice to meet you, %s! 📧 What's your email address so Archilles can get back to you?", input), true

	case domain.StateAwaitingEmail:
		// The full local@domain.tld shape is required, not just an "@".
		email := ExtractEmail(input)
		if email == "" {
			return "That doesn't look like a valid email. Please provide a valid email address:", true
		}
		w.draft.Email = email
		w.state = domain.StateAwaitingMessage
		return "Got it! ✍️ What would you like to tell Archilles? Type your message:", true

	case domain.StateAwaitingMessage:
		w.draft.Body = input
		reply := w.dispatch(ctx)
		w.draft.Reset()
		w.state = domain.StateIdle
		return reply, true
	}

	return "", false
}

// dispatch sends the completed draft through the relay once. Failure is
// reported as a single assistant turn with the manual fallback address;
// there is no retry and no re-queue.
func (w *ContactWizard) dispatch(ctx context.Context) string {
	err := w.dispatcher.Send(ctx, emailrelay.TemplateParams{
		FromName:  w.draft.Name,
		FromEmail: w.draft.Email,
		Message:   fmt.Sprintf("New inquiry from %s (%s):\n\n%s", w.draft.Name, w.draft.Email, w.draft.Body),
		Subject:   fmt.Sprintf("🚀 New Contact from %s via AI'k", w.draft.Name),
	})
	if err != nil {
		slog.Error("contact dispatch failed", "err", err)
		return fmt.Sprintf("❌ Sorry, there was an issue sending your message. Please try emailing directly at %s", FallbackContactEmail)
	}
	return fmt.Sprintf("✅ Done! Your message has been sent to Archilles! He'll get back to you at %s soon. Is there anything else you'd like to know?", w.draft.Email)
}
