package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`
		// Канал, на который должен быть подписан участник (без @)
		ChannelUsername string `env:"CHANNEL_USERNAME" envDefault:"official_jget"`
		PollTimeoutSec  int    `env:"POLL_TIMEOUT_SEC" envDefault:"30"`
	}

	Storage struct {
		// Файл с участниками. Создаётся при первой регистрации.
		ParticipantsFile string `env:"PARTICIPANTS_FILE" envDefault:"participants.xlsx"`
	}

	Server struct {
		Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Redis struct {
		// Пустой Addr отключает кэш проверки подписки
		Addr                  string `env:"REDIS_ADDR" envDefault:""`
		Password              string `env:"REDIS_PASSWORD" envDefault:""`
		DB                    int    `env:"REDIS_DB" envDefault:"0"`
		MembershipCacheTTLSec int    `env:"MEMBERSHIP_CACHE_TTL_SEC" envDefault:"60"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Игнорируем ошибку, если .env файл не найден
		// В production окружении переменные могут быть установлены напрямую
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
