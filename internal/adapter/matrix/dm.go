package matrix

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"
)

// CreateDirectRoom creates a private direct room and invites target.
func (b *Bot) CreateDirectRoom(ctx context.Context, target string) (id.RoomID, error) {
	resp, err := b.client.CreateRoom(ctx, &mautrix.ReqCreateRoom{
		Visibility: "private",
		Name:       "McBot-DM",
		Invite:     []id.UserID{id.UserID(target)},
		IsDirect:   true,
	})
	if err != nil {
		return "", errors.Wrap(err, "create direct room")
	}
	return resp.RoomID, nil
}

// IsForbidden reports whether err is the homeserver refusing with
// M_FORBIDDEN, the case worth a power-level diagnostic.
func IsForbidden(err error) bool {
	return errors.Is(err, mautrix.MForbidden)
}

// ExplainSendPermission fetches the room's power levels and describes the
// bot's level versus the level required to send m.room.message.
func (b *Bot) ExplainSendPermission(ctx context.Context, room id.RoomID) (string, error) {
	var levels event.PowerLevelsEventContent
	if err := b.client.StateEvent(ctx, room, event.StatePowerLevels, "", &levels); err != nil {
		return "", errors.Wrap(err, "fetch power levels")
	}

	have := levels.GetUserLevel(b.client.UserID)
	need := levels.GetEventLevel(event.EventMessage)
	return fmt.Sprintf("your power level is %d, required for sending m.room.message is %d", have, need), nil
}
