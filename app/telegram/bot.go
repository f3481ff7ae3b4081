package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FirstTop/wb-reviews-agent/app/review"
)

var _ review.Channel = (*Bot)(nil)

const pollTimeout = 30 // seconds, Telegram long-poll

// Dispatcher receives operator decisions parsed from bot updates.
type Dispatcher interface {
	HandleAction(ctx context.Context, action review.Action, reviewID, operatorID int64) (review.Outcome, error)
	HandleManualText(ctx context.Context, operatorID int64, text string) (bool, error)
}

// Bot is the operator channel: it renders review cards into a Telegram
// chat and feeds button presses and manual text back into the
// dispatcher via long polling.
type Bot struct {
	apiURL     string
	token      string
	chatID     string
	httpClient *http.Client
	dispatcher Dispatcher
	offset     int64
}

func NewBot(apiURL, token, chatID string) *Bot {
	return &Bot{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		chatID: chatID,
		httpClient: &http.Client{
			Timeout: (pollTimeout + 10) * time.Second,
		},
	}
}

// SetDispatcher wires the action handler after construction; the
// lifecycle and the bot reference each other.
func (b *Bot) SetDispatcher(d Dispatcher) {
	b.dispatcher = d
}

func (b *Bot) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", b.apiURL, b.token, method)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (b *Bot) call(ctx context.Context, method string, form url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint(method), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("telegram %s error: %s", method, api.Description)
	}

	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}

	return nil
}

// SendReviewCard posts the card with its action keyboard and returns
// the message id assigned by Telegram.
func (b *Bot) SendReviewCard(ctx context.Context, card review.Card) (string, error) {
	markup, err := json.Marshal(cardKeyboard(card.ReviewID, card.NmID))
	if err != nil {
		return "", fmt.Errorf("marshal keyboard: %w", err)
	}

	form := url.Values{}
	form.Set("chat_id", b.chatID)
	form.Set("text", formatCard(card))
	form.Set("reply_markup", string(markup))

	var message struct {
		MessageID int64 `json:"message_id"`
	}
	if err := b.call(ctx, "sendMessage", form, &message); err != nil {
		return "", err
	}

	return strconv.FormatInt(message.MessageID, 10), nil
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	form := url.Values{}
	form.Set("chat_id", strconv.FormatInt(chatID, 10))
	form.Set("text", text)

	if err := b.call(ctx, "sendMessage", form, nil); err != nil {
		slog.Warn("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		From struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		Text string `json:"text"`
	} `json:"message"`
	CallbackQuery *struct {
		ID   string `json:"id"`
		From struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Data    string `json:"data"`
		Message *struct {
			Chat struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		} `json:"message"`
	} `json:"callback_query"`
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	slog.Info("Telegram bot polling started")

	for {
		select {
		case <-ctx.Done():
			slog.Info("Telegram bot polling stopped")
			return
		default:
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("Failed to get updates", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, u := range updates {
			b.offset = u.UpdateID + 1
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	form := url.Values{}
	form.Set("offset", strconv.FormatInt(b.offset, 10))
	form.Set("timeout", strconv.Itoa(pollTimeout))
	form.Set("allowed_updates", `["message","callback_query"]`)

	var updates []update
	if err := b.call(ctx, "getUpdates", form, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

func (b *Bot) handleUpdate(ctx context.Context, u update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u)
	case u.Message != nil && u.Message.Text != "":
		b.handleText(ctx, u)
	}
}

func (b *Bot) handleCallback(ctx context.Context, u update) {
	cq := u.CallbackQuery
	b.answerCallback(ctx, cq.ID)

	chatID := cq.From.ID
	if cq.Message != nil {
		chatID = cq.Message.Chat.ID
	}

	if nmID, ok := parseProductCallback(cq.Data); ok {
		b.reply(ctx, chatID, "📎 Ссылка на товар:\n"+productURL(nmID))
		return
	}

	action, reviewID, ok := parseActionCallback(cq.Data)
	if !ok {
		slog.Warn("Unknown callback data", "data", cq.Data)
		return
	}

	if b.dispatcher == nil {
		slog.Error("Bot has no dispatcher configured")
		return
	}

	outcome, err := b.dispatcher.HandleAction(ctx, action, reviewID, cq.From.ID)
	if err != nil {
		slog.Warn("Action failed", "action", action.String(), "review_id", reviewID, "error", err)
		b.reply(ctx, chatID, errorMessage(err))
		return
	}

	b.reply(ctx, chatID, outcomeMessage(outcome))
}

func (b *Bot) handleText(ctx context.Context, u update) {
	msg := u.Message
	if strings.HasPrefix(msg.Text, "/") {
		return
	}
	if b.dispatcher == nil {
		return
	}

	handled, err := b.dispatcher.HandleManualText(ctx, msg.From.ID, msg.Text)
	if err != nil {
		slog.Warn("Manual text handling failed", "operator_id", msg.From.ID, "error", err)
		b.reply(ctx, msg.Chat.ID, errorMessage(err))
		return
	}
	if handled {
		b.reply(ctx, msg.Chat.ID, outcomeMessage(review.OutcomeManualSaved))
	}
}

func (b *Bot) answerCallback(ctx context.Context, callbackID string) {
	form := url.Values{}
	form.Set("callback_query_id", callbackID)

	if err := b.call(ctx, "answerCallbackQuery", form, nil); err != nil {
		slog.Debug("Failed to answer callback", "error", err)
	}
}

// parseActionCallback decodes "publish:<id>", "regenerate:<id>",
// "edit:<id>" and "skip:<id>" button payloads.
func parseActionCallback(data string) (review.Action, int64, bool) {
	name, idStr, found := strings.Cut(data, ":")
	if !found {
		return 0, 0, false
	}

	var action review.Action
	switch name {
	case "publish":
		action = review.ActionPublish
	case "regenerate":
		action = review.ActionRegenerate
	case "edit":
		action = review.ActionEdit
	case "skip":
		action = review.ActionSkip
	default:
		return 0, 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, 0, false
	}

	return action, id, true
}

func parseProductCallback(data string) (string, bool) {
	nmID, found := strings.CutPrefix(data, "product:")
	if !found || nmID == "" {
		return "", false
	}
	return nmID, true
}
