package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"giveaway-registration-bot/internal/common/logger"
)

const defaultBaseURL = "https://api.telegram.org"

const requestTimeout = 10 * time.Second

// RPSError представляет ошибку превышения лимита запросов
type RPSError struct {
	Msg string
}

func (e *RPSError) Error() string {
	return e.Msg
}

// Client — клиент Telegram Bot API поверх net/http.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		token:   token,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL переопределяет адрес API (используется в тестах).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// GetUpdates выполняет long poll и возвращает новые обновления начиная с offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	params := url.Values{
		"offset":  {strconv.FormatInt(offset, 10)},
		"timeout": {strconv.Itoa(timeoutSec)},
	}

	var result struct {
		Ok          bool     `json:"ok"`
		Description string   `json:"description,omitempty"`
		Result      []Update `json:"result"`
	}

	// Таймаут клиента должен пережить серверный long poll
	timeout := time.Duration(timeoutSec)*time.Second + requestTimeout
	if err := c.makeRequest(ctx, "GET", "getUpdates", params, timeout, &result); err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}
	if !result.Ok {
		return nil, apiError("getUpdates", result.Description)
	}

	return result.Result, nil
}

// SendMessage отправляет сообщение в чат.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (*Message, error) {
	params := url.Values{
		"chat_id": {strconv.FormatInt(chatID, 10)},
		"text":    {text},
	}
	if opts != nil {
		if opts.ParseMode != "" {
			params.Set("parse_mode", opts.ParseMode)
		}
		if opts.ReplyToMessageID != 0 {
			params.Set("reply_to_message_id", strconv.FormatInt(opts.ReplyToMessageID, 10))
		}
		if opts.ReplyMarkup != nil {
			markup, err := json.Marshal(opts.ReplyMarkup)
			if err != nil {
				return nil, fmt.Errorf("failed to encode reply markup: %w", err)
			}
			params.Set("reply_markup", string(markup))
		}
	}

	var result struct {
		Ok          bool    `json:"ok"`
		Description string  `json:"description,omitempty"`
		Result      Message `json:"result"`
	}

	if err := c.makeRequest(ctx, "POST", "sendMessage", params, requestTimeout, &result); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	if !result.Ok {
		return nil, apiError("sendMessage", result.Description)
	}

	return &result.Result, nil
}

// EditMessageText редактирует текст ранее отправленного сообщения.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *InlineKeyboardMarkup) error {
	params := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.FormatInt(messageID, 10)},
		"text":       {text},
		"parse_mode": {"Markdown"},
	}
	if markup != nil {
		encoded, err := json.Marshal(markup)
		if err != nil {
			return fmt.Errorf("failed to encode reply markup: %w", err)
		}
		params.Set("reply_markup", string(encoded))
	}

	var result struct {
		Ok          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
	}

	if err := c.makeRequest(ctx, "POST", "editMessageText", params, requestTimeout, &result); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	if !result.Ok {
		return apiError("editMessageText", result.Description)
	}

	return nil
}

// AnswerCallbackQuery отвечает на нажатие inline-кнопки.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string, showAlert bool) error {
	params := url.Values{
		"callback_query_id": {callbackID},
	}
	if text != "" {
		params.Set("text", text)
	}
	if showAlert {
		params.Set("show_alert", "true")
	}

	var result struct {
		Ok          bool   `json:"ok"`
		Description string `json:"description,omitempty"`
	}

	if err := c.makeRequest(ctx, "POST", "answerCallbackQuery", params, requestTimeout, &result); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}
	if !result.Ok {
		return apiError("answerCallbackQuery", result.Description)
	}

	return nil
}

// GetChatMember возвращает статус пользователя в чате. Чат задается
// числовым ID или @username.
func (c *Client) GetChatMember(ctx context.Context, chat string, userID int64) (*ChatMember, error) {
	params := url.Values{
		"chat_id": {chat},
		"user_id": {strconv.FormatInt(userID, 10)},
	}

	var result struct {
		Ok          bool       `json:"ok"`
		Description string     `json:"description,omitempty"`
		Result      ChatMember `json:"result"`
	}

	if err := c.makeRequest(ctx, "GET", "getChatMember", params, requestTimeout, &result); err != nil {
		return nil, fmt.Errorf("failed to get chat member: %w", err)
	}
	if !result.Ok {
		logger.Debug().Str("chat", chat).Int64("user_id", userID).Str("description", result.Description).Msg("getChatMember rejected")
		return nil, apiError("getChatMember", result.Description)
	}

	return &result.Result, nil
}

func (c *Client) makeRequest(ctx context.Context, method, apiMethod string, data url.Values, timeout time.Duration, result interface{}) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, apiMethod)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var req *http.Request
	var err error

	if method == "POST" {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		if len(data) > 0 {
			endpoint = fmt.Sprintf("%s?%s", endpoint, data.Encode())
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := c.pollSafeClient(timeout).Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RPSError{Msg: "too many requests"}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// pollSafeClient возвращает клиент, таймаут которого не короче запрошенного.
func (c *Client) pollSafeClient(timeout time.Duration) *http.Client {
	if timeout <= c.httpClient.Timeout {
		return c.httpClient
	}
	return &http.Client{Timeout: timeout}
}

func apiError(method, description string) error {
	if strings.Contains(description, "Too Many Requests") {
		return &RPSError{Msg: "too many requests"}
	}
	return fmt.Errorf("telegram API error in %s: %s", method, description)
}
