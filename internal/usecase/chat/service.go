package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"mcbot/internal/domain"
)

// Fixed user-visible texts. End users never see structured errors, only
// these strings.
const (
	GreetingText = "I'm a bot, please talk to me!"
	HelpText     = "Use /start to begin, /reset to clear history."
	ResetText    = "Chat context has been reset."
	ThinkingText = "Thinking..."
	ApologyText  = "Sorry, I'm having trouble connecting to my brain right now."
)

// Completer produces an assistant reply from the full ordered history.
type Completer interface {
	Complete(ctx context.Context, model string, messages []domain.Message) (string, error)
}

// MessageRef identifies a previously sent platform message so it can be
// replaced later. Opaque to the relay.
type MessageRef string

// Platform is the slice of a chat platform the dispatcher and relay need.
// Replace either edits the message in place (Telegram) or redacts it and
// sends a fresh one (Matrix); the relay does not care which.
type Platform interface {
	SendTyping(ctx context.Context, conv domain.ConversationID) error
	Send(ctx context.Context, conv domain.ConversationID, text string) (MessageRef, error)
	Replace(ctx context.Context, conv domain.ConversationID, ref MessageRef, text string) (MessageRef, error)
}

// Service routes inbound text to command handlers or the relay. One Service
// is owned by one platform adapter; the history store is injected so tests
// and adapters share no process-wide state.
type Service struct {
	store    domain.ConversationStore
	llm      Completer
	platform Platform
	model    string

	mu    sync.Mutex
	locks map[domain.ConversationID]*sync.Mutex
}

func NewService(store domain.ConversationStore, llm Completer, platform Platform, model string) *Service {
	return &Service{
		store:    store,
		llm:      llm,
		platform: platform,
		model:    model,
		locks:    make(map[domain.ConversationID]*sync.Mutex),
	}
}

// HandleText dispatches one inbound message. Matching is case-sensitive and
// prefix-based, first match wins. Unknown slash commands are deliberately
// relayed as ordinary text rather than rejected.
func (s *Service) HandleText(ctx context.Context, conv domain.ConversationID, text string) {
	switch {
	case strings.HasPrefix(text, "/start"):
		s.send(ctx, conv, GreetingText)
	case strings.HasPrefix(text, "/help"):
		s.send(ctx, conv, HelpText)
	case strings.HasPrefix(text, "/reset"):
		s.store.Reset(conv)
		s.send(ctx, conv, ResetText)
	default:
		s.relay(ctx, conv, text)
	}
}

// relay forwards one user turn to the inference server and replaces the
// placeholder with the outcome. Turns for the same conversation are
// serialized so a user sending twice before the first reply lands cannot
// interleave history appends.
func (s *Service) relay(ctx context.Context, conv domain.ConversationID, text string) {
	lock := s.conversationLock(conv)
	lock.Lock()
	defer lock.Unlock()

	if err := s.platform.SendTyping(ctx, conv); err != nil {
		log.Debug().Err(err).Str("conversation", string(conv)).Msg("typing indicator failed")
	}

	placeholder, err := s.platform.Send(ctx, conv, ThinkingText)
	if err != nil {
		log.Error().Err(err).Str("conversation", string(conv)).Msg("failed to send placeholder")
		return
	}

	s.store.Append(conv, domain.Message{Role: domain.RoleUser, Content: text})

	reply, err := s.llm.Complete(ctx, s.model, s.store.History(conv))
	if err != nil {
		// The user turn stays recorded; only the assistant append is skipped.
		log.Error().Err(err).
			Str("conversation", string(conv)).
			Str("model", s.model).
			Msg("inference call failed")
		if _, err := s.platform.Replace(ctx, conv, placeholder, ApologyText); err != nil {
			log.Error().Err(err).Str("conversation", string(conv)).Msg("failed to deliver apology")
		}
		return
	}

	s.store.Append(conv, domain.Message{Role: domain.RoleAssistant, Content: reply})

	if _, err := s.platform.Replace(ctx, conv, placeholder, reply); err != nil {
		log.Error().Err(err).Str("conversation", string(conv)).Msg("failed to deliver reply")
	}
}

func (s *Service) send(ctx context.Context, conv domain.ConversationID, text string) {
	if _, err := s.platform.Send(ctx, conv, text); err != nil {
		log.Error().Err(err).Str("conversation", string(conv)).Msg("failed to send reply")
	}
}

func (s *Service) conversationLock(conv domain.ConversationID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[conv]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conv] = lock
	}
	return lock
}
