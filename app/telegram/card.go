package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

// formatCard renders the operator-facing summary of a review and its
// current draft.
func formatCard(card review.Card) string {
	date := ""
	if card.Date != nil {
		date = card.Date.Format("02.01.2006 15:04")
	}

	author := card.Author
	if author == "" {
		author = "Неизвестно"
	}

	article := card.SupplierArticle
	if article == "" {
		article = "N/A"
	}
	nmID := card.NmID
	if nmID == "" {
		nmID = "N/A"
	}

	var parts []string
	if card.Pros != "" {
		parts = append(parts, fmt.Sprintf("✅ Плюсы:\n%s", card.Pros))
	}
	if card.Cons != "" {
		parts = append(parts, fmt.Sprintf("❌ Минусы:\n%s", card.Cons))
	}
	if card.Text != "" {
		parts = append(parts, fmt.Sprintf("📝 Текст:\n%s", card.Text))
	}

	body := "Нет текста"
	if len(parts) > 0 {
		body = strings.Join(parts, "\n\n")
	}

	return fmt.Sprintf(`⭐ Рейтинг: %d/5
👤 %s
📅 %s

📦 Артикул: %s
🆔 nmId: %s

📝 Отзыв:
%s

💬 Черновик ответа:
%s`, card.Rating, author, date, article, nmID, body, card.DraftText)
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

func cardKeyboard(reviewID int64, nmID string) inlineKeyboard {
	return inlineKeyboard{
		InlineKeyboard: [][]inlineButton{
			{
				{Text: "✅ Опубликовать", CallbackData: fmt.Sprintf("publish:%d", reviewID)},
				{Text: "🔁 Перегенерировать", CallbackData: fmt.Sprintf("regenerate:%d", reviewID)},
				{Text: "✍️ Правка вручную", CallbackData: fmt.Sprintf("edit:%d", reviewID)},
			},
			{
				{Text: "🚫 Пропустить", CallbackData: fmt.Sprintf("skip:%d", reviewID)},
				{Text: "📎 Показать товар", CallbackData: fmt.Sprintf("product:%s", nmID)},
			},
		},
	}
}

func outcomeMessage(outcome review.Outcome) string {
	switch outcome {
	case review.OutcomePublished:
		return "✅ Ответ успешно опубликован!"
	case review.OutcomeRegenerated:
		return "🔁 Ответ перегенерирован! Новая карточка отправлена."
	case review.OutcomeSkipped:
		return "🚫 Отзыв пропущен. Переходим к следующему."
	case review.OutcomeAlreadyResolved:
		return "ℹ️ Отзыв уже обработан."
	case review.OutcomeAwaitingText:
		return "✍️ Введите текст ответа, который хотите опубликовать:"
	case review.OutcomeManualSaved:
		return "💾 Текст сохранён. Новая карточка отправлена."
	}
	return "Готово."
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, review.ErrReviewNotFound):
		return "Отзыв не найден"
	case errors.Is(err, review.ErrNoReply):
		return "Ответ не найден"
	case errors.Is(err, review.ErrGenerationFailed):
		return "❌ Ошибка при генерации ответа"
	case errors.Is(err, review.ErrPublishFailed):
		return "❌ Ошибка при публикации ответа"
	}
	return "❌ Внутренняя ошибка, попробуйте позже"
}

func productURL(nmID string) string {
	return fmt.Sprintf("https://www.wildberries.ru/catalog/%s/detail.aspx", nmID)
}
