package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultPath is where the bots look for their configuration file.
const DefaultPath = "bot.conf"

// Config holds every setting the bots and the DM utility understand. Loaded
// once at startup, immutable for the process lifetime.
type Config struct {
	TelegramToken    string
	OllamaURL        string
	Model            string
	Backend          string
	APIKey           string
	MatrixHomeserver string
	MatrixUserID     string
	MatrixPassword   string
	TargetUser       string
	StatePath        string
	LogLevel         string
}

// Load reads bot.conf at path. The file is parsed as JSON first and as the
// legacy INI layout ([bot] section, key=value) second; a missing or
// unparseable file is never fatal, defaults and environment variables still
// apply. Secrets fall back to TELEGRAM_API and MATRIX_PASSWORD. Mandatory
// credential checks are the callers' job, before any connection is made.
func Load(path string) Config {
	v := viper.New()
	setDefaults(v)

	// Environment variables act as defaults so a value in the file still
	// wins, matching the loader this replaces.
	if tok := os.Getenv("TELEGRAM_API"); tok != "" {
		v.SetDefault("telegram_api", tok)
	}
	if pw := os.Getenv("MATRIX_PASSWORD"); pw != "" {
		v.SetDefault("matrix_password", pw)
	}

	if err := readFile(v, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not read config, using defaults")
	}

	return Config{
		TelegramToken:    get(v, "telegram_api"),
		OllamaURL:        get(v, "ollama_url"),
		Model:            get(v, "model"),
		Backend:          get(v, "backend"),
		APIKey:           get(v, "api_key"),
		MatrixHomeserver: get(v, "matrix_homeserver"),
		MatrixUserID:     get(v, "matrix_user_id"),
		MatrixPassword:   get(v, "matrix_password"),
		TargetUser:       get(v, "target_user"),
		StatePath:        get(v, "state_path"),
		LogLevel:         get(v, "log_level"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ollama_url", "http://localhost:11434")
	v.SetDefault("model", "qwen2.5-coder:7b")
	v.SetDefault("backend", "ollama")
	v.SetDefault("api_key", "ollama")
	v.SetDefault("state_path", "./config/state.json")
	v.SetDefault("log_level", "info")
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	jsonErr := v.ReadInConfig()
	if jsonErr == nil {
		return nil
	}

	v.SetConfigType("ini")
	if iniErr := v.ReadInConfig(); iniErr != nil {
		return errors.Wrapf(jsonErr, "parse %s", path)
	}
	return nil
}

// get resolves a key, preferring the legacy [bot] section when the file was
// INI. Unknown keys in either format are simply never looked up.
func get(v *viper.Viper, key string) string {
	if s := v.GetString("bot." + key); s != "" {
		return s
	}
	return v.GetString(key)
}
