package domain

// ConversationStore keeps the per-conversation message history for the
// lifetime of the process. Insertion order defines the prompt context order
// sent to the model. Histories are never persisted; a restart resets all
// conversations.
type ConversationStore interface {
	Append(id ConversationID, msg Message)
	History(id ConversationID) []Message
	Reset(id ConversationID)
}
