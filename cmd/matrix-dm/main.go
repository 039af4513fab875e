// One-shot utility: make sure the bot has a direct-message room with the
// configured target user and drop a greeting in it. The room id is persisted
// so reruns reuse the room instead of creating a fresh one.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"maunium.net/go/mautrix/id"

	"mcbot/internal/adapter/matrix"
	"mcbot/internal/config"
	"mcbot/internal/domain"
	"mcbot/internal/state"
)

const greeting = "Hello from McBot!"

func main() {
	confPath := flag.String("config", config.DefaultPath, "path to bot.conf")
	flag.Parse()

	cfg := config.Load(*confPath)
	setupLogging(cfg.LogLevel)

	if cfg.MatrixPassword == "" || cfg.MatrixPassword == "your_matrix_password_here" {
		log.Error().Msg("matrix password not found in bot.conf or MATRIX_PASSWORD environment variable")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("dm bootstrap failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	bot, err := matrix.NewBot(cfg.MatrixHomeserver)
	if err != nil {
		return err
	}
	if err := bot.Login(ctx, cfg.MatrixUserID, cfg.MatrixPassword); err != nil {
		return err
	}
	log.Info().Str("user", string(bot.UserID())).Msg("login successful")

	st, err := state.Load(cfg.StatePath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.StatePath).Msg("could not read state file")
		st = map[string]any{}
	}

	if saved, _ := st[state.KeyDMRoomID].(string); saved != "" {
		ref, err := bot.Send(ctx, domain.ConversationID(saved), greeting)
		if err == nil {
			log.Info().Str("room", saved).Str("event", string(ref)).
				Msg("direct message sent using saved room")
			return nil
		}
		log.Warn().Err(err).Str("room", saved).
			Msg("failed to send using saved room, creating a new one")
		explainIfForbidden(ctx, bot, saved, err)
	}

	if cfg.TargetUser == "" {
		return errors.New("target_user is not configured")
	}

	room, err := bot.CreateDirectRoom(ctx, cfg.TargetUser)
	if err != nil {
		return err
	}

	if _, err := state.Update(cfg.StatePath, map[string]any{state.KeyDMRoomID: string(room)}); err != nil {
		log.Warn().Err(err).Msg("failed to persist dm room id")
	} else {
		log.Info().Str("path", cfg.StatePath).Msg("stored dm room id")
	}

	ref, err := bot.Send(ctx, domain.ConversationID(room), greeting)
	if err != nil {
		explainIfForbidden(ctx, bot, string(room), err)
		return errors.Wrap(err, "send direct message")
	}
	log.Info().Str("room", string(room)).Str("event", string(ref)).
		Msg("direct message sent")
	return nil
}

// explainIfForbidden prints a required-vs-actual power level diagnostic when
// the homeserver refused the send. Diagnostic only, no corrective action.
func explainIfForbidden(ctx context.Context, bot *matrix.Bot, room string, err error) {
	if !matrix.IsForbidden(err) {
		return
	}
	diag, derr := bot.ExplainSendPermission(ctx, id.RoomID(room))
	if derr != nil {
		log.Warn().Err(derr).Str("room", room).Msg("failed to fetch power levels")
		return
	}
	log.Error().Str("room", room).Msgf("permission denied: %s", diag)
	log.Info().Msg("ask a room admin to lower the required send level or raise the bot's power level, or use a room where the bot can send")
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
