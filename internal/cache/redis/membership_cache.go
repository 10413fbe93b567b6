package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"giveaway-registration-bot/internal/common/logger"
	"giveaway-registration-bot/internal/features/registration/service"
)

// MembershipCache оборачивает верификатор подписки и кэширует положительные
// ответы. Отрицательные не кэшируются: пользователь должен пройти проверку
// сразу после подписки на канал.
type MembershipCache struct {
	client *redis.Client
	next   service.SubscriptionVerifier
	ttl    time.Duration
}

func NewMembershipCache(client *redis.Client, next service.SubscriptionVerifier, ttl time.Duration) *MembershipCache {
	return &MembershipCache{client: client, next: next, ttl: ttl}
}

func (c *MembershipCache) key(userID int64, channel string) string {
	return fmt.Sprintf("membership:%s:%d", channel, userID)
}

func (c *MembershipCache) IsMember(ctx context.Context, userID int64, channel string) (bool, error) {
	key := c.key(userID, channel)
	if v, err := c.client.Get(ctx, key).Result(); err == nil && v == "1" {
		return true, nil
	}

	member, err := c.next.IsMember(ctx, userID, channel)
	if err != nil || !member {
		return member, err
	}

	if err := c.client.Set(ctx, key, "1", c.ttl).Err(); err != nil {
		logger.Warn().Int64("user_id", userID).Str("channel", channel).Err(err).Msg("Failed to cache membership")
	}
	return true, nil
}
