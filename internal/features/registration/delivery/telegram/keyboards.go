package telegram

import (
	tg "giveaway-registration-bot/internal/platform/telegram"
)

const (
	callbackCheckSubscription = "check_subscription"
	callbackProvidePhone      = "provide_phone"
)

// mainKeyboard — inline-кнопка проверки подписки на канал.
func mainKeyboard() *tg.InlineKeyboardMarkup {
	return &tg.InlineKeyboardMarkup{
		InlineKeyboard: [][]tg.InlineKeyboardButton{
			{
				{Text: "🔍 Подписаться на канал", CallbackData: callbackCheckSubscription},
			},
		},
	}
}

// phonePromptKeyboard — inline-кнопка запроса номера телефона.
func phonePromptKeyboard() *tg.InlineKeyboardMarkup {
	return &tg.InlineKeyboardMarkup{
		InlineKeyboard: [][]tg.InlineKeyboardButton{
			{
				{Text: "📱 Предоставить номер", CallbackData: callbackProvidePhone},
			},
		},
	}
}

// contactKeyboard — reply-клавиатура с кнопкой отправки контакта.
func contactKeyboard() *tg.ReplyKeyboardMarkup {
	return &tg.ReplyKeyboardMarkup{
		Keyboard: [][]tg.KeyboardButton{
			{
				{Text: "📱 Отправить мой номер", RequestContact: true},
			},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}
