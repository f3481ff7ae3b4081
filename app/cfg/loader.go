package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./wb_reviews.db" description:"Path to the SQLite database file"`

	// Wildberries API
	WBAPIKey string `long:"wb-api-key" env:"WB_API_KEY" description:"Wildberries supplier API key (required)" required:"true"`
	WBAPIURL string `long:"wb-api-url" env:"WB_API_URL" default:"https://suppliers-api.wildberries.ru" description:"Wildberries API base URL"`

	// OpenRouter API
	OpenRouterAPIKey string `long:"openrouter-api-key" env:"OPENROUTER_API_KEY" description:"OpenRouter API key (required)" required:"true"`
	OpenRouterModel  string `long:"openrouter-model" env:"OPENROUTER_MODEL" default:"openai/gpt-4o-mini" description:"Model used for reply generation"`
	OpenRouterAPIURL string `long:"openrouter-api-url" env:"OPENROUTER_API_URL" default:"https://openrouter.ai/api/v1/chat/completions" description:"OpenRouter chat completions URL"`

	// Telegram bot
	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token (required)" required:"true"`
	TelegramChatID   string `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat for operator cards (required)" required:"true"`
	TelegramAPIURL   string `long:"telegram-api-url" env:"TELEGRAM_API_URL" default:"https://api.telegram.org" description:"Telegram Bot API base URL"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for review processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"3600" description:"Review check interval in seconds"`
	LookbackHours     int    `long:"lookback-hours" env:"LOOKBACK_HOURS" default:"2" description:"Initial fetch window in hours when the database is empty"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	RedisAddr         string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for edit-session state (optional, in-process fallback when unset)"`
	PromptFile        string `long:"prompt-file" env:"PROMPT_FILE" description:"YAML file overriding the built-in reply prompt (optional)"`
	EditTTLMinutes    int    `long:"edit-ttl-minutes" env:"EDIT_TTL_MINUTES" default:"30" description:"How long a manual-edit session stays open"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"WB Reviews Agent/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Moscow)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		WBAPIKey:          raw.WBAPIKey,
		WBAPIURL:          raw.WBAPIURL,
		OpenRouterAPIKey:  raw.OpenRouterAPIKey,
		OpenRouterModel:   raw.OpenRouterModel,
		OpenRouterAPIURL:  raw.OpenRouterAPIURL,
		TelegramBotToken:  raw.TelegramBotToken,
		TelegramChatID:    raw.TelegramChatID,
		TelegramAPIURL:    raw.TelegramAPIURL,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		LookbackHours:     raw.LookbackHours,
		APIAccessKey:      raw.APIAccessKey,
		RedisAddr:         raw.RedisAddr,
		PromptFile:        raw.PromptFile,
		EditTTLMinutes:    raw.EditTTLMinutes,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
