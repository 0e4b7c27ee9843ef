// Package telegram adapts the Telegram Bot HTTP API to the chat.Transport
// interface. Channel ids and user ids are both Telegram chat ids.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/modbot/remindersvc/internal/chat"
)

type Bot struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewBot(token string) *Bot {
	return &Bot{
		token:   token,
		baseURL: "https://api.telegram.org/bot" + token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type apiResponse struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
}

func (b *Bot) SendChannelMessage(ctx context.Context, channelID string, msg *chat.Message) (string, error) {
	return b.sendMessage(ctx, channelID, msg)
}

func (b *Bot) SendDirectMessage(ctx context.Context, userID string, msg *chat.Message) (string, error) {
	return b.sendMessage(ctx, userID, msg)
}

func (b *Bot) sendMessage(ctx context.Context, chatID string, msg *chat.Message) (string, error) {
	params := url.Values{}
	params.Add("chat_id", chatID)
	params.Add("text", renderText(msg))
	params.Add("parse_mode", "Markdown")

	if keyboard := renderKeyboard(msg.Components); keyboard != "" {
		params.Add("reply_markup", keyboard)
	}

	var result struct {
		MessageID int64 `json:"message_id"`
	}
	if err := b.call(ctx, "sendMessage", params, &result); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", result.MessageID), nil
}

// CanSendEmbed probes the chat; Telegram has no per-channel embed
// permission, so reachability of the chat is the check.
func (b *Bot) CanSendEmbed(ctx context.Context, channelID string) (bool, error) {
	params := url.Values{}
	params.Add("chat_id", channelID)

	err := b.call(ctx, "getChat", params, nil)
	if err != nil {
		if chat.SoftFailure(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *Bot) EditMessage(ctx context.Context, channelID, messageID string, msg *chat.Message) error {
	params := url.Values{}
	params.Add("chat_id", channelID)
	params.Add("message_id", messageID)
	params.Add("text", renderText(msg))
	params.Add("parse_mode", "Markdown")
	if keyboard := renderKeyboard(msg.Components); keyboard != "" {
		params.Add("reply_markup", keyboard)
	}

	return b.call(ctx, "editMessageText", params, nil)
}

func (b *Bot) DisableComponents(ctx context.Context, channelID, messageID string) error {
	params := url.Values{}
	params.Add("chat_id", channelID)
	params.Add("message_id", messageID)
	params.Add("reply_markup", `{"inline_keyboard":[]}`)

	return b.call(ctx, "editMessageReplyMarkup", params, nil)
}

func (b *Bot) call(ctx context.Context, method string, params url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/"+method, strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return chat.ErrForbidden
	case http.StatusNotFound, http.StatusBadRequest:
		return chat.ErrNotFound
	case http.StatusTooManyRequests:
		return chat.ErrRateLimited
	default:
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	if result == nil {
		return nil
	}
	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("telegram %s: decode: %w", method, err)
	}
	if !body.OK {
		return fmt.Errorf("telegram %s: not ok", method)
	}
	return json.Unmarshal(body.Result, result)
}

// renderText flattens an embed into Telegram markdown.
func renderText(msg *chat.Message) string {
	var b strings.Builder
	if msg.Content != "" {
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	if msg.Embed != nil {
		if msg.Embed.Title != "" {
			b.WriteString("*" + msg.Embed.Title + "*\n")
		}
		if msg.Embed.Description != "" {
			b.WriteString(msg.Embed.Description + "\n")
		}
		for _, f := range msg.Embed.Fields {
			b.WriteString(fmt.Sprintf("*%s:* %s\n", f.Name, f.Value))
		}
		if msg.Embed.Footer != "" {
			b.WriteString("_" + msg.Embed.Footer + "_")
		}
	}
	return strings.TrimSpace(b.String())
}

func renderKeyboard(rows [][]chat.Component) string {
	if len(rows) == 0 {
		return ""
	}

	type button struct {
		Text         string `json:"text"`
		CallbackData string `json:"callback_data"`
	}
	keyboard := make([][]button, 0, len(rows))
	for _, row := range rows {
		line := make([]button, 0, len(row))
		for _, c := range row {
			if c.Disabled {
				continue
			}
			if c.Kind == chat.ComponentSelect {
				// Selectors flatten to one button per option.
				for _, opt := range c.Options {
					line = append(line, button{Text: opt.Label, CallbackData: c.CustomID + ":" + opt.Value})
				}
				continue
			}
			line = append(line, button{Text: c.Label, CallbackData: c.CustomID})
		}
		if len(line) > 0 {
			keyboard = append(keyboard, line)
		}
	}
	if len(keyboard) == 0 {
		return ""
	}

	data, err := json.Marshal(map[string]interface{}{"inline_keyboard": keyboard})
	if err != nil {
		return ""
	}
	return string(data)
}
