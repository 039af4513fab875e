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

	"mcbot/internal/adapter/memory"
	ollamaadapter "mcbot/internal/adapter/ollama"
	openaiadapter "mcbot/internal/adapter/openai"
	"mcbot/internal/adapter/telegram"
	"mcbot/internal/config"
	"mcbot/internal/usecase/chat"
)

func main() {
	confPath := flag.String("config", config.DefaultPath, "path to bot.conf")
	flag.Parse()

	cfg := config.Load(*confPath)
	setupLogging(cfg.LogLevel)

	if cfg.TelegramToken == "" || cfg.TelegramToken == "your_telegram_token_here" {
		log.Error().Msg("telegram API token not found in bot.conf or TELEGRAM_API environment variable")
		os.Exit(1)
	}

	llm, err := newCompleter(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init inference client")
	}

	bot, err := telegram.NewBot(cfg.TelegramToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init telegram bot")
	}

	store := memory.NewStore()
	svc := chat.NewService(store, llm, bot, cfg.Model)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("bot", bot.Username()).
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
