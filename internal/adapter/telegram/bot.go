package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"mcbot/internal/domain"
	"mcbot/internal/usecase/chat"
)

// Bot drives the long-polling update loop and implements chat.Platform for
// Telegram. Placeholder replacement is a native message edit here.
type Bot struct {
	api *tgbotapi.BotAPI
}

func NewBot(token string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "telegram auth")
	}
	return &Bot{api: api}, nil
}

func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run polls for updates until ctx is cancelled, handing each text message to
// handle. Handlers run in their own goroutine; ordering within a
// conversation is the relay's job, not ours.
func (b *Bot) Run(ctx context.Context, handle func(ctx context.Context, conv domain.ConversationID, text string)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			conv := domain.ConversationID(strconv.FormatInt(msg.Chat.ID, 10))
			go handle(ctx, conv, msg.Text)
		}
	}
}

func (b *Bot) SendTyping(_ context.Context, conv domain.ConversationID) error {
	chatID, err := chatIDFrom(conv)
	if err != nil {
		return err
	}
	_, err = b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
	return err
}

func (b *Bot) Send(_ context.Context, conv domain.ConversationID, text string) (chat.MessageRef, error) {
	chatID, err := chatIDFrom(conv)
	if err != nil {
		return "", err
	}
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return "", err
	}
	return chat.MessageRef(strconv.Itoa(sent.MessageID)), nil
}

func (b *Bot) Replace(_ context.Context, conv domain.ConversationID, ref chat.MessageRef, text string) (chat.MessageRef, error) {
	chatID, err := chatIDFrom(conv)
	if err != nil {
		return "", err
	}
	msgID, err := strconv.Atoi(string(ref))
	if err != nil {
		return "", errors.Wrapf(err, "bad message ref %q", ref)
	}
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, msgID, text)); err != nil {
		return "", err
	}
	return ref, nil
}

func chatIDFrom(conv domain.ConversationID) (int64, error) {
	chatID, err := strconv.ParseInt(string(conv), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad conversation id %q", conv)
	}
	return chatID, nil
}
