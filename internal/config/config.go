// Package config provides configuration for the interview service.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use "__",
// e.g. INTERVIEW_OPENAI__API_KEY sets openai.api_key.
const EnvPrefix = "INTERVIEW_"

// Config holds the service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Engines   EnginesConfig   `koanf:"engines"`
	OpenAI    OpenAIConfig    `koanf:"openai"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	WebSocket WebSocketConfig `koanf:"websocket"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN string `koanf:"dsn"`
}

// EnginesConfig controls dialogue engine selection.
type EnginesConfig struct {
	Order           []string      `koanf:"order"`
	Disabled        []string      `koanf:"disabled"`
	PolicyFile      string        `koanf:"policy_file"`
	ProviderTimeout time.Duration `koanf:"provider_timeout"`
}

type OpenAIConfig struct {
	APIKey             string  `koanf:"api_key"`
	BaseURL            string  `koanf:"base_url"`
	Model              string  `koanf:"model"`
	Temperature        float64 `koanf:"temperature"`
	MaxTokens          int     `koanf:"max_tokens"`
	TranscriptionModel string  `koanf:"transcription_model"`
}

type GeminiConfig struct {
	APIKey      string  `koanf:"api_key"`
	BaseURL     string  `koanf:"base_url"`
	Model       string  `koanf:"model"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `koanf:"ping_interval"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	MaxMessageSize int64         `koanf:"max_message_size"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

var defaults = map[string]interface{}{
	"server.port":                8080,
	"server.shutdown_timeout":    "10s",
	"database.dsn":               "file:interview.db?cache=shared&mode=rwc",
	"engines.order":              []string{"gemini", "openai", "scripted"},
	"engines.provider_timeout":   "60s",
	"openai.model":               "gpt-4o-mini",
	"openai.temperature":         0.7,
	"openai.max_tokens":          300,
	"openai.transcription_model": "whisper-1",
	"gemini.model":               "gemini-1.5-flash",
	"gemini.temperature":         0.7,
	"gemini.max_tokens":          300,
	"websocket.ping_interval":    "30s",
	"websocket.read_timeout":     "60s",
	"websocket.write_timeout":    "10s",
	"websocket.max_message_size": 65536,
	"log.level":                  "info",
	"log.format":                 "console",
	"telemetry.enabled":          false,
}

// Load reads .env (if present), the YAML file at path (if present) and INTERVIEW_* variables,
// in increasing order of precedence.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		path = "interview.yaml"
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Conventional provider variables.
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return &cfg, nil
}
