package service

import (
	"context"
	"fmt"

	"giveaway-registration-bot/internal/common/logger"
	"giveaway-registration-bot/internal/platform/telegram"
)

// SubscriptionVerifier отвечает на вопрос "подписан ли пользователь на канал".
type SubscriptionVerifier interface {
	IsMember(ctx context.Context, userID int64, channel string) (bool, error)
}

// ChatMemberGetter — часть Telegram-клиента, нужная верификатору.
type ChatMemberGetter interface {
	GetChatMember(ctx context.Context, chat string, userID int64) (*telegram.ChatMember, error)
}

type telegramVerifier struct {
	client ChatMemberGetter
}

func NewTelegramVerifier(client ChatMemberGetter) SubscriptionVerifier {
	return &telegramVerifier{client: client}
}

// IsMember перебирает варианты идентификатора канала и возвращает true на
// первом, где статус пользователя member/administrator/creator. Ошибки
// отдельных запросов логируются и трактуются как "не подписан": сбой
// проверки никогда не должен ронять обработку событий.
func (v *telegramVerifier) IsMember(ctx context.Context, userID int64, channel string) (bool, error) {
	variants := []string{
		channel,
		"@" + channel,
		fmt.Sprintf("https://t.me/%s", channel),
	}

	for _, variant := range variants {
		member, err := v.client.GetChatMember(ctx, variant, userID)
		if err != nil {
			logger.Debug().
				Str("channel", variant).
				Int64("user_id", userID).
				Err(err).
				Msg("Membership lookup failed, trying next variant")
			continue
		}

		switch member.Status {
		case "member", "administrator", "creator":
			return true, nil
		}
	}

	return false, nil
}
