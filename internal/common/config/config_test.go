package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"giveaway-registration-bot/internal/common/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg := config.Load()

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "official_jget", cfg.Telegram.ChannelUsername)
	assert.Equal(t, 30, cfg.Telegram.PollTimeoutSec)
	assert.Equal(t, "participants.xlsx", cfg.Storage.ParticipantsFile)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.Redis.MembershipCacheTTLSec)
	assert.False(t, cfg.Debug)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHANNEL_USERNAME", "my_channel")
	t.Setenv("PARTICIPANTS_FILE", "/var/data/participants.xlsx")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DEBUG", "true")

	cfg := config.Load()

	assert.Equal(t, "my_channel", cfg.Telegram.ChannelUsername)
	assert.Equal(t, "/var/data/participants.xlsx", cfg.Storage.ParticipantsFile)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Debug)
}
