package domain

// Role identifies the author of a chat turn.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// ChatTurn is one message in a document's transcript.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a turn authored by the user.
func UserTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleUser, Content: content}
}

// AssistantTurn builds a turn authored by the assistant.
func AssistantTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleAssistant, Content: content}
}

// ChatResult is the outcome of a single question.
// History is the full transcript after the exchange, or the unchanged
// transcript when the exchange failed.
type ChatResult struct {
	Answer  string     `json:"answer"`
	History []ChatTurn `json:"history"`
}
