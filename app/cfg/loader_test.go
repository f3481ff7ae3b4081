package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./test.db",
		WBAPIKey:          "wb-key",
		WBAPIURL:          "https://suppliers-api.wildberries.ru",
		OpenRouterAPIKey:  "or-key",
		OpenRouterModel:   "openai/gpt-4o-mini",
		TelegramBotToken:  "bot-token",
		TelegramChatID:    "12345",
		Port:              "8080",
		WorkerCount:       2,
		SchedulerInterval: 3600,
		LookbackHours:     2,
		EditTTLMinutes:    30,
		Version:           "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 2 {
		t.Errorf("Expected worker count 2, got %d", cfg.WorkerCount)
	}
	if cfg.SchedulerInterval != 3600 {
		t.Errorf("Expected scheduler interval 3600, got %d", cfg.SchedulerInterval)
	}
	if cfg.LookbackHours != 2 {
		t.Errorf("Expected lookback hours 2, got %d", cfg.LookbackHours)
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("UTC should be a valid timezone: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}
