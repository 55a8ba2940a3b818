package domain

// ChatMessage is the provider-agnostic chat message shape shared by the
// handler, the prompt builder, and the LLM integration.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles. The browser widget historically sent "ai" for assistant
// turns; NormalizeRole maps it before anything reaches the provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NormalizeRole maps the legacy widget role onto the provider role.
func NormalizeRole(role string) string {
	if role == "ai" {
		return RoleAssistant
	}
	return role
}
