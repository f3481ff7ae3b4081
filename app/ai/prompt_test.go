package ai

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

func TestBuildPrompt(t *testing.T) {
	prompt := DefaultPromptConfig().BuildPrompt(review.GenerationRequest{
		Text:   "Товар не подошёл",
		Rating: 2,
		Pros:   "Быстрая доставка",
		Cons:   "Маломерит",
	})

	for _, want := range []string{
		"Рейтинг отзыва: 2/5",
		"Быстрая доставка",
		"Маломерит",
		"Товар не подошёл",
		"Требования к ответу:",
		"Напиши ответ на отзыв:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt is missing %q", want)
		}
	}
}

func TestBuildPromptSkipsEmptySections(t *testing.T) {
	prompt := DefaultPromptConfig().BuildPrompt(review.GenerationRequest{
		Text:   "Нормально",
		Rating: 4,
	})

	if strings.Contains(prompt, "Плюсы") {
		t.Error("Expected no pros section for empty pros")
	}
	if strings.Contains(prompt, "Минусы") {
		t.Error("Expected no cons section for empty cons")
	}
}

func TestLoadPromptConfigDefaults(t *testing.T) {
	cfg, err := LoadPromptConfig("")
	if err != nil {
		t.Fatalf("LoadPromptConfig failed: %v", err)
	}
	if cfg.System == "" || cfg.Intro == "" || len(cfg.Requirements) == 0 {
		t.Errorf("Expected populated defaults, got %+v", cfg)
	}
}

func TestLoadPromptConfigOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	content := "system: custom system\nrequirements:\n  - only one rule\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write prompt file: %v", err)
	}

	cfg, err := LoadPromptConfig(path)
	if err != nil {
		t.Fatalf("LoadPromptConfig failed: %v", err)
	}

	if cfg.System != "custom system" {
		t.Errorf("Expected overridden system prompt, got %q", cfg.System)
	}
	if len(cfg.Requirements) != 1 || cfg.Requirements[0] != "only one rule" {
		t.Errorf("Expected overridden requirements, got %v", cfg.Requirements)
	}
	// Fields absent from the file keep their defaults
	if cfg.Intro != DefaultPromptConfig().Intro {
		t.Errorf("Expected default intro to survive, got %q", cfg.Intro)
	}
}

func TestLoadPromptConfigMissingFile(t *testing.T) {
	if _, err := LoadPromptConfig("/nonexistent/prompt.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
