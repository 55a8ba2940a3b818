package domain

// ConversationTurn is one entry in a session transcript. Transcripts are
// append-only and live only for the lifetime of the session; they always
// begin with the assistant greeting.
type ConversationTurn struct {
	Speaker string `json:"speaker"` // RoleAssistant or RoleUser
	Text    string `json:"text"`
}

// ContactDraft holds the fields collected by the contact wizard. Exactly
// one field is writable per turn, determined by the wizard state; the
// draft is cleared after every dispatch attempt.
type ContactDraft struct {
	Name  string
	Email string
	Body  string
}

// Reset clears all collected fields.
func (d *ContactDraft) Reset() {
	d.Name = ""
	d.Email = ""
	d.Body = ""
}

// WizardState enumerates the contact wizard states. StateIdle is both
// the initial and the terminal state.
type WizardState int

const (
	StateIdle WizardState = iota
	StateAwaitingName
	StateAwaitingEmail
	StateAwaitingMessage
)

func (s WizardState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingName:
		return "awaiting_name"
	case StateAwaitingEmail:
		return "awaiting_email"
	case StateAwaitingMessage:
		return "awaiting_message"
	default:
		return "unknown"
	}
}
