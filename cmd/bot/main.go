package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	rediscache "giveaway-registration-bot/internal/cache/redis"
	"giveaway-registration-bot/internal/common/config"
	"giveaway-registration-bot/internal/common/logger"
	delivery "giveaway-registration-bot/internal/features/registration/delivery/telegram"
	"giveaway-registration-bot/internal/features/registration/repository/excel"
	"giveaway-registration-bot/internal/features/registration/service"
	adminhttp "giveaway-registration-bot/internal/http"
	"giveaway-registration-bot/internal/platform/telegram"
)

func main() {
	cfg := config.Load()
	logger.Init("registration-bot", cfg.Debug)

	repo := excel.NewExcelRepository(cfg.Storage.ParticipantsFile)
	client := telegram.NewClient(cfg.Telegram.BotToken)

	verifier := service.NewTelegramVerifier(client)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl := time.Duration(cfg.Redis.MembershipCacheTTLSec) * time.Second
		verifier = rediscache.NewMembershipCache(rdb, verifier, ttl)
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", ttl).Msg("Membership cache enabled")
	}

	registrationService := service.NewRegistrationService(repo, verifier, cfg.Telegram.ChannelUsername)
	handler := delivery.NewHandler(client, registrationService, cfg.Telegram.ChannelUsername)
	poller := delivery.NewPoller(client, handler, cfg.Telegram.PollTimeoutSec)

	admin := adminhttp.NewAdminHandler(repo, cfg.Storage.ParticipantsFile)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: adminhttp.NewRouter(admin, cfg.Server.Origin, cfg.Debug),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Admin server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Admin server failed")
		}
	}()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Polling loop exited")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Admin server shutdown failed")
	}

	logger.Info().Msg("Bot stopped")
}
