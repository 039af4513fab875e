package matrix

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"mcbot/internal/domain"
	"mcbot/internal/usecase/chat"
)

const typingTimeout = 30 * time.Second

// Bot drives the sync loop and implements chat.Platform for Matrix. The
// protocol has no edit that rewrites a message for everyone, so placeholder
// replacement is a redaction followed by a fresh send.
type Bot struct {
	client  *mautrix.Client
	started time.Time
}

func NewBot(homeserver string) (*Bot, error) {
	client, err := mautrix.NewClient(homeserver, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "create matrix client")
	}
	return &Bot{client: client}, nil
}

func (b *Bot) Login(ctx context.Context, userID, password string) error {
	_, err := b.client.Login(ctx, &mautrix.ReqLogin{
		Type: mautrix.AuthTypePassword,
		Identifier: mautrix.UserIdentifier{
			Type: mautrix.IdentifierTypeUser,
			User: userID,
		},
		Password:         password,
		StoreCredentials: true,
	})
	return errors.Wrap(err, "matrix login")
}

func (b *Bot) UserID() id.UserID {
	return b.client.UserID
}

// Run syncs until ctx is cancelled, handing each fresh text message to
// handle. The initial sync replays room history, so events from before
// startup are dropped, as are our own messages.
func (b *Bot) Run(ctx context.Context, handle func(ctx context.Context, conv domain.ConversationID, text string)) error {
	b.started = time.Now()

	syncer := b.client.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, func(ctx context.Context, evt *event.Event) {
		if evt.Sender == b.client.UserID {
			return
		}
		if time.UnixMilli(evt.Timestamp).Before(b.started) {
			return
		}
		msg := evt.Content.AsMessage()
		if msg == nil || msg.MsgType != event.MsgText {
			return
		}
		go handle(ctx, domain.ConversationID(evt.RoomID), msg.Body)
	})

	err := b.client.SyncWithContext(ctx)
	if err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "matrix sync")
	}
	return err
}

func (b *Bot) SendTyping(ctx context.Context, conv domain.ConversationID) error {
	_, err := b.client.UserTyping(ctx, id.RoomID(conv), true, typingTimeout)
	return err
}

func (b *Bot) Send(ctx context.Context, conv domain.ConversationID, text string) (chat.MessageRef, error) {
	resp, err := b.client.SendText(ctx, id.RoomID(conv), text)
	if err != nil {
		return "", err
	}
	return chat.MessageRef(resp.EventID), nil
}

func (b *Bot) Replace(ctx context.Context, conv domain.ConversationID, ref chat.MessageRef, text string) (chat.MessageRef, error) {
	if _, err := b.client.RedactEvent(ctx, id.RoomID(conv), id.EventID(ref)); err != nil {
		log.Warn().Err(err).Str("conversation", string(conv)).Msg("failed to redact placeholder")
	}
	resp, err := b.client.SendText(ctx, id.RoomID(conv), text)
	if err != nil {
		return "", err
	}
	return chat.MessageRef(resp.EventID), nil
}
