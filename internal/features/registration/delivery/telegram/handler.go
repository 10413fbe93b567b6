package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"giveaway-registration-bot/internal/common/logger"
	"giveaway-registration-bot/internal/features/registration/models"
	"giveaway-registration-bot/internal/features/registration/service"
	tg "giveaway-registration-bot/internal/platform/telegram"
)

// Sender — исходящая сторона транспорта, реализуется Telegram-клиентом.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, opts *tg.SendOptions) (*tg.Message, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text string, markup *tg.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string, showAlert bool) error
}

// Handler маршрутизирует входящие обновления: команды, кнопки, контакты,
// свободный текст и медиа.
type Handler struct {
	client  Sender
	service service.RegistrationService
	channel string
}

func NewHandler(client Sender, service service.RegistrationService, channel string) *Handler {
	return &Handler{
		client:  client,
		service: service,
		channel: channel,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tg.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		h.handleMessage(ctx, update.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tg.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}

	switch {
	case msg.Contact != nil:
		h.handleContact(ctx, msg)
	case msg.Sticker != nil:
		h.reply(ctx, msg, "Классный стикер! 😄", nil)
	case len(msg.Photo) > 0:
		h.reply(ctx, msg, "Красивое фото! 📸", nil)
	case msg.Voice != nil:
		h.reply(ctx, msg, "Получил ваше голосовое сообщение! 🎤", nil)
	case strings.HasPrefix(msg.Text, "/start"):
		h.handleStart(ctx, msg)
	case strings.HasPrefix(msg.Text, "/help"):
		h.reply(ctx, msg, helpText(), nil)
	case msg.Text != "":
		h.handleText(ctx, msg)
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *tg.Message) {
	_, participant, err := h.service.StartSession(ctx, msg.From.ID, msg.From.Username, msg.From.FirstName)
	if err != nil {
		logger.Error().Int64("user_id", msg.From.ID).Err(err).Msg("Failed to start session")
		h.reply(ctx, msg, "❌ Что-то пошло не так. Попробуйте позже.", nil)
		return
	}

	if participant != nil {
		h.reply(ctx, msg, welcomeBackText(participant), &tg.SendOptions{ParseMode: "Markdown"})
		return
	}

	h.reply(ctx, msg, welcomeText(h.channel), &tg.SendOptions{ReplyMarkup: mainKeyboard()})
}

func (h *Handler) handleCallback(ctx context.Context, query *tg.CallbackQuery) {
	switch query.Data {
	case callbackCheckSubscription:
		h.handleCheckSubscription(ctx, query)
	case callbackProvidePhone:
		h.handleProvidePhone(ctx, query)
	default:
		h.answerCallback(ctx, query.ID, "", false)
	}
}

func (h *Handler) handleCheckSubscription(ctx context.Context, query *tg.CallbackQuery) {
	subscribed, err := h.service.CheckSubscription(ctx, query.From.ID)
	if errors.Is(err, service.ErrNoSession) {
		h.answerCallback(ctx, query.ID, "Пожалуйста, начните с команды /start", true)
		return
	}
	if err != nil {
		logger.Error().Int64("user_id", query.From.ID).Err(err).Msg("Subscription check failed")
	}

	if !subscribed {
		h.answerCallback(ctx, query.ID, fmt.Sprintf("❌ Вы не подписаны на канал @%s!", h.channel), true)
		return
	}

	h.answerCallback(ctx, query.ID, "✅ Вы подписаны на канал!", false)

	if query.Message == nil {
		return
	}
	err = h.client.EditMessageText(ctx, query.Message.Chat.ID, query.Message.MessageID,
		subscribedStatusText(h.channel), phonePromptKeyboard())
	if err != nil {
		logger.Error().Int64("user_id", query.From.ID).Err(err).Msg("Failed to edit status message")
	}
}

func (h *Handler) handleProvidePhone(ctx context.Context, query *tg.CallbackQuery) {
	switch err := h.service.RequestPhone(ctx, query.From.ID); {
	case errors.Is(err, service.ErrNoSession):
		h.answerCallback(ctx, query.ID, "Пожалуйста, начните с команды /start", true)
		return
	case errors.Is(err, service.ErrNotSubscribed):
		h.answerCallback(ctx, query.ID, "❌ Сначала подпишитесь на канал!", true)
		return
	case err != nil:
		logger.Error().Int64("user_id", query.From.ID).Err(err).Msg("Phone request rejected")
		return
	}

	h.answerCallback(ctx, query.ID, "Введите номер телефона", false)

	if query.Message == nil {
		return
	}
	_, err := h.client.SendMessage(ctx, query.Message.Chat.ID,
		"Пожалуйста, нажмите кнопку ниже, чтобы поделиться своим номером телефона:",
		&tg.SendOptions{ReplyMarkup: contactKeyboard()})
	if err != nil {
		logger.Error().Int64("user_id", query.From.ID).Err(err).Msg("Failed to send contact prompt")
	}
}

func (h *Handler) handleContact(ctx context.Context, msg *tg.Message) {
	switch err := h.service.SubmitPhone(ctx, msg.From.ID, msg.Contact.PhoneNumber); {
	case errors.Is(err, service.ErrNoSession):
		h.reply(ctx, msg, "Пожалуйста, начните с команды /start", nil)
		return
	case errors.Is(err, service.ErrUnexpectedStep):
		h.reply(ctx, msg, "Номер телефона сейчас не требуется.", nil)
		return
	case err != nil:
		logger.Error().Int64("user_id", msg.From.ID).Err(err).Msg("Failed to submit phone")
		return
	}

	h.reply(ctx, msg, phoneReceivedText(), &tg.SendOptions{ParseMode: "Markdown"})
}

func (h *Handler) handleText(ctx context.Context, msg *tg.Message) {
	// Разговорные фразы перехватываются до машины состояний и не
	// расходуют шаг регистрации
	if reply, ok := cannedReply(msg.Text); ok {
		h.reply(ctx, msg, reply, nil)
		return
	}

	result, err := h.service.SubmitText(ctx, msg.From.ID, msg.Text)
	switch {
	case errors.Is(err, service.ErrNoSession):
		h.reply(ctx, msg, "Пожалуйста, начните с команды /start", nil)
		return
	case errors.Is(err, service.ErrUnexpectedStep):
		h.reply(ctx, msg, fmt.Sprintf("Вы написали: %s", msg.Text), nil)
		return
	case errors.Is(err, service.ErrEmptyInput):
		h.reply(ctx, msg, "Сообщение не должно быть пустым. Попробуйте еще раз.", nil)
		return
	case errors.Is(err, service.ErrSaveFailed):
		h.reply(ctx, msg, "❌ Произошла ошибка при регистрации. Попробуйте позже.", nil)
		return
	case err != nil:
		logger.Error().Int64("user_id", msg.From.ID).Err(err).Msg("Failed to process text step")
		return
	}

	trimmed := strings.TrimSpace(msg.Text)
	switch result.Step {
	case models.StepGuardianName:
		h.reply(ctx, msg, guardianSavedText(trimmed), &tg.SendOptions{ParseMode: "Markdown"})
	case models.StepSchool:
		h.reply(ctx, msg, schoolSavedText(trimmed), &tg.SendOptions{ParseMode: "Markdown"})
	case models.StepClass:
		h.reply(ctx, msg, registeredText(result.Participant), &tg.SendOptions{ParseMode: "Markdown"})
		// Код дублируется отдельным сообщением, чтобы его было легко переслать
		if _, err := h.client.SendMessage(ctx, msg.Chat.ID, codeText(result.Participant.Code),
			&tg.SendOptions{ParseMode: "Markdown"}); err != nil {
			logger.Error().Int64("user_id", msg.From.ID).Err(err).Msg("Failed to send participant code")
		}
	}
}

func (h *Handler) reply(ctx context.Context, msg *tg.Message, text string, opts *tg.SendOptions) {
	if opts == nil {
		opts = &tg.SendOptions{}
	}
	opts.ReplyToMessageID = msg.MessageID
	if _, err := h.client.SendMessage(ctx, msg.Chat.ID, text, opts); err != nil {
		logger.Error().Int64("chat_id", msg.Chat.ID).Err(err).Msg("Failed to send reply")
	}
}

func (h *Handler) answerCallback(ctx context.Context, callbackID, text string, showAlert bool) {
	if err := h.client.AnswerCallbackQuery(ctx, callbackID, text, showAlert); err != nil {
		logger.Error().Str("callback_id", callbackID).Err(err).Msg("Failed to answer callback query")
	}
}
