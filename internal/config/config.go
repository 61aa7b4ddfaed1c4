package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые провайдеры чата.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderStub      = "stub"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` // Режим дебага: development-логгер zap
	HTTPAddr  string `env:"HTTP_ADDR"`  // Адрес HTTP-сервера, напр. :8080

	Chat   ChatConfig
	Fetch  FetchConfig
	Server ServerConfig
}

// ChatConfig выбор и параметры бэкенда чата.
type ChatConfig struct {
	Provider  string `env:"CHAT_PROVIDER"`   // openai|anthropic|gemini|stub
	Model     string `env:"CHAT_MODEL"`      // Пусто - модель провайдера по умолчанию
	MaxTokens int64  `env:"CHAT_MAX_TOKENS"` // Лимит ответа (Anthropic требует явно)

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL"`
	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
}

// FetchConfig параметры загрузки картинок по http(s).
type FetchConfig struct {
	ConnectTimeout time.Duration `env:"FETCH_CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `env:"FETCH_READ_TIMEOUT"` // Таймаут на каждое чтение из сокета
	MaxImageBytes  int64         `env:"MAX_IMAGE_BYTES"`    // 0 - без ограничения
}

// ServerConfig таймауты и лимиты HTTP-сервера.
type ServerConfig struct {
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"`
	MaxRequestBytes int64         `env:"MAX_REQUEST_BYTES"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		HTTPAddr:  ":8080",
		Chat: ChatConfig{
			Provider:  ProviderOpenAI,
			MaxTokens: 1024,
		},
		Fetch: FetchConfig{
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    10 * time.Second,
			MaxImageBytes:  20 << 20,
		},
		Server: ServerConfig{
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second, // ответ модели может идти долго
			ShutdownTimeout: 5 * time.Second,
			MaxRequestBytes: 32 << 20,
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и os.Args.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	return Load(os.Args[1:])
}

// Load собирает конфигурацию: дефолты -> окружение -> флаги, затем валидирует.
func Load(args []string) (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("chat-gateway", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага (подробные логи)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "адрес HTTP-сервера, напр. :8080")
	fs.StringVar(&cfg.Chat.Provider, "chat-provider", cfg.Chat.Provider, "провайдер чата: openai|anthropic|gemini|stub")
	fs.StringVar(&cfg.Chat.Model, "chat-model", cfg.Chat.Model, "модель чата; пусто - модель провайдера по умолчанию")
	fs.Int64Var(&cfg.Chat.MaxTokens, "chat-max-tokens", cfg.Chat.MaxTokens, "максимум токенов в ответе")
	fs.DurationVar(&cfg.Fetch.ConnectTimeout, "fetch-connect-timeout", cfg.Fetch.ConnectTimeout, "таймаут соединения при загрузке картинки по URL")
	fs.DurationVar(&cfg.Fetch.ReadTimeout, "fetch-read-timeout", cfg.Fetch.ReadTimeout, "таймаут чтения при загрузке картинки по URL")
	fs.Int64Var(&cfg.Fetch.MaxImageBytes, "max-image-bytes", cfg.Fetch.MaxImageBytes, "максимальный размер картинки по URL в байтах (0 - без ограничения)")
	fs.Int64Var(&cfg.Server.MaxRequestBytes, "max-request-bytes", cfg.Server.MaxRequestBytes, "максимальный размер тела запроса в байтах")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "таймаут graceful shutdown")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Chat.Provider = strings.ToLower(strings.TrimSpace(cfg.Chat.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Chat.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.Chat.OpenAIAPIKey) == "" {
			return errors.New("OPENAI_API_KEY is required for provider openai")
		}
	case ProviderAnthropic:
		if strings.TrimSpace(c.Chat.AnthropicAPIKey) == "" {
			return errors.New("ANTHROPIC_API_KEY is required for provider anthropic")
		}
	case ProviderGemini:
		if strings.TrimSpace(c.Chat.GeminiAPIKey) == "" {
			return errors.New("GEMINI_API_KEY is required for provider gemini")
		}
	case ProviderStub:
	default:
		return fmt.Errorf("unknown chat provider %q", c.Chat.Provider)
	}

	if c.Fetch.ConnectTimeout <= 0 || c.Fetch.ReadTimeout <= 0 {
		return errors.New("fetch timeouts must be positive")
	}
	if c.Fetch.MaxImageBytes < 0 {
		return errors.New("max image bytes must not be negative")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	if c.Server.MaxRequestBytes < 0 {
		return errors.New("max request bytes must not be negative")
	}
	if c.Chat.MaxTokens <= 0 {
		return errors.New("chat max tokens must be positive")
	}
	return nil
}
