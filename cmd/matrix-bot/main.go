package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mcbot/internal/adapter/matrix"
	"mcbot/internal/adapter/memory"
	ollamaadapter "mcbot/internal/adapter/ollama"
	openaiadapter "mcbot/internal/adapter/openai"
	"mcbot/internal/config"
	"mcbot/internal/usecase/chat"
)

func main() {
	confPath := flag.String("config", config.DefaultPath, "path to bot.conf")
	flag.Parse()

	cfg := config.Load(*confPath)
	setupLogging(cfg.LogLevel)

	if cfg.MatrixPassword == "" || cfg.MatrixPassword == "your_matrix_password_here" {
		log.Error().Msg("matrix password not found in bot.conf or MATRIX_PASSWORD environment variable")
		os.Exit(1)
	}
	if cfg.MatrixHomeserver == "" || cfg.MatrixUserID == "" {
		log.Error().Msg("matrix_homeserver and matrix_user_id must be set in bot.conf")
		os.Exit(1)
	}

	llm, err := newCompleter(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init inference client")
	}

	bot, err := matrix.NewBot(cfg.MatrixHomeserver)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init matrix client")
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := bot.Login(ctx, cfg.MatrixUserID, cfg.MatrixPassword); err != nil {
		log.Fatal().Err(err).Msg("login failed")
	}

	store := memory.NewStore()
	svc := chat.NewService(store, llm, bot, cfg.Model)

	log.Info().
		Str("user", string(bot.UserID())).
		Str("model", cfg.Model).
		Str("server", cfg.OllamaURL).
		Msg("bot started")

	if err := bot.Run(ctx, svc.HandleText); err != nil {
		if ctx.Err() != nil {
			log.Info().Msg("shutting down")
			return
		}
		log.Fatal().Err(err).Msg("bot stopped with error")
	}
}

func newCompleter(cfg config.Config) (chat.Completer, error) {
	if cfg.Backend == "openai" {
		return openaiadapter.NewClient(cfg.APIKey, cfg.OllamaURL), nil
	}
	return ollamaadapter.NewClient(cfg.OllamaURL)
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
