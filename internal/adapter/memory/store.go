package memory

import (
	"sync"

	"mcbot/internal/domain"
)

// Store is an in-memory conversation history map. Entries are created lazily
// on first append and live until the process exits.
type Store struct {
	mu            sync.Mutex
	conversations map[domain.ConversationID][]domain.Message
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[domain.ConversationID][]domain.Message),
	}
}

func (s *Store) Append(id domain.ConversationID, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[id] = append(s.conversations[id], msg)
}

// History returns a copy of the conversation in insertion order.
func (s *Store) History(id domain.ConversationID) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.conversations[id]...)
}

// Reset clears the conversation but keeps its entry.
func (s *Store) Reset(id domain.ConversationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok {
		s.conversations[id] = s.conversations[id][:0:0]
	}
}
