package ai

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

// PromptConfig shapes the reply prompt. Defaults reproduce the built-in
// customer-care prompt; a YAML file can override any part of it.
type PromptConfig struct {
	System       string   `yaml:"system"`
	Intro        string   `yaml:"intro"`
	Requirements []string `yaml:"requirements"`
}

func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		System: "Ты профессиональный менеджер по работе с клиентами. " +
			"Ты пишешь вежливые и полезные ответы на отзывы покупателей.",
		Intro: "Ты - профессиональный менеджер по работе с клиентами интернет-магазина Wildberries.\n\n" +
			"Твоя задача - написать вежливый, профессиональный и полезный ответ на отзыв покупателя.",
		Requirements: []string{
			"Будь вежливым и профессиональным",
			"Благодари за отзыв",
			"Если есть проблемы (низкий рейтинг) - извинись и предложи решение",
			"Если отзыв положительный - поблагодари и пригласи оставить еще отзывы",
			"Ответ должен быть кратким (2-4 предложения)",
			"Используй деловой, но дружелюбный тон",
			"Не используй эмодзи в ответе",
		},
	}
}

// LoadPromptConfig reads a YAML override. Missing fields fall back to
// the defaults.
func LoadPromptConfig(path string) (*PromptConfig, error) {
	cfg := DefaultPromptConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var override PromptConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if override.System != "" {
		cfg.System = override.System
	}
	if override.Intro != "" {
		cfg.Intro = override.Intro
	}
	if len(override.Requirements) > 0 {
		cfg.Requirements = override.Requirements
	}

	return cfg, nil
}

// BuildPrompt assembles the user message for one review.
func (p *PromptConfig) BuildPrompt(req review.GenerationRequest) string {
	var b strings.Builder

	b.WriteString(p.Intro)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Рейтинг отзыва: %d/5\n\n", req.Rating)

	if req.Pros != "" {
		fmt.Fprintf(&b, "Плюсы, которые отметил покупатель:\n%s\n\n", req.Pros)
	}
	if req.Cons != "" {
		fmt.Fprintf(&b, "Минусы, которые отметил покупатель:\n%s\n\n", req.Cons)
	}

	fmt.Fprintf(&b, "Текст отзыва:\n%s\n\n", req.Text)

	b.WriteString("Требования к ответу:\n")
	for i, r := range p.Requirements {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}

	b.WriteString("\nНапиши ответ на отзыв:")

	return b.String()
}
