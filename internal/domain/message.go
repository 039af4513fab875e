package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationID is the platform-native conversation identifier: a decimal
// chat id on Telegram, a room id on Matrix. It is the unit of history
// isolation.
type ConversationID string

// Message is one half of a turn. Immutable once appended.
type Message struct {
	Role    string
	Content string
}
