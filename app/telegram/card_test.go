package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

func TestFormatCard(t *testing.T) {
	date := time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC)
	text := formatCard(review.Card{
		ReviewID:        7,
		Rating:          2,
		Author:          "Иван",
		Date:            &date,
		SupplierArticle: "SKU-1",
		NmID:            "654321",
		Text:            "Пришёл брак",
		Cons:            "Сломан",
		DraftText:       "Приносим извинения",
	})

	for _, want := range []string{
		"⭐ Рейтинг: 2/5",
		"👤 Иван",
		"10.07.2025 09:30",
		"📦 Артикул: SKU-1",
		"🆔 nmId: 654321",
		"❌ Минусы:\nСломан",
		"Пришёл брак",
		"💬 Черновик ответа:\nПриносим извинения",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Card is missing %q:\n%s", want, text)
		}
	}
}

func TestFormatCardEmptyFields(t *testing.T) {
	text := formatCard(review.Card{ReviewID: 1, Rating: 5})

	if !strings.Contains(text, "Неизвестно") {
		t.Error("Expected placeholder author")
	}
	if !strings.Contains(text, "Нет текста") {
		t.Error("Expected placeholder for empty review body")
	}
	if !strings.Contains(text, "Артикул: N/A") {
		t.Error("Expected placeholder article")
	}
}

func TestOutcomeMessage(t *testing.T) {
	outcomes := []review.Outcome{
		review.OutcomePublished,
		review.OutcomeRegenerated,
		review.OutcomeSkipped,
		review.OutcomeAlreadyResolved,
		review.OutcomeAwaitingText,
		review.OutcomeManualSaved,
	}

	seen := make(map[string]bool)
	for _, outcome := range outcomes {
		msg := outcomeMessage(outcome)
		if msg == "" || msg == "Готово." {
			t.Errorf("Expected dedicated message for outcome %v", outcome)
		}
		if seen[msg] {
			t.Errorf("Duplicate message %q for outcome %v", msg, outcome)
		}
		seen[msg] = true
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{review.ErrReviewNotFound, "Отзыв не найден"},
		{review.ErrNoReply, "Ответ не найден"},
		{review.ErrGenerationFailed, "❌ Ошибка при генерации ответа"},
		{review.ErrPublishFailed, "❌ Ошибка при публикации ответа"},
		{errors.New("boom"), "❌ Внутренняя ошибка, попробуйте позже"},
	}

	for _, tt := range tests {
		if got := errorMessage(tt.err); got != tt.want {
			t.Errorf("errorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
