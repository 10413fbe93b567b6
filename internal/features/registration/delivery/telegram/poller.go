package telegram

import (
	"context"
	"time"

	"giveaway-registration-bot/internal/common/logger"
	tg "giveaway-registration-bot/internal/platform/telegram"
)

const pollRetryDelay = 3 * time.Second

// UpdatesGetter — входящая сторона транспорта.
type UpdatesGetter interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]tg.Update, error)
}

// Poller крутит long poll и отдает обновления обработчику по одному.
// Обновления обрабатываются последовательно, так что на пользователя
// приходится не больше одного перехода состояния одновременно.
type Poller struct {
	client     UpdatesGetter
	handler    *Handler
	timeoutSec int
}

func NewPoller(client UpdatesGetter, handler *Handler, timeoutSec int) *Poller {
	return &Poller{
		client:     client,
		handler:    handler,
		timeoutSec: timeoutSec,
	}
}

// Run блокирует до отмены контекста. Ошибки получения обновлений и паники
// обработчика логируются и не останавливают цикл.
func (p *Poller) Run(ctx context.Context) error {
	logger.Info().Int("timeout_sec", p.timeoutSec).Msg("Update polling started")

	var offset int64
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Update polling stopped")
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.timeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Msg("Failed to get updates")
			select {
			case <-ctx.Done():
			case <-time.After(pollRetryDelay):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.handleSafely(ctx, update)
		}
	}
}

func (p *Poller) handleSafely(ctx context.Context, update tg.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Int64("update_id", update.UpdateID).Interface("panic", r).Msg("Recovered from handler panic")
		}
	}()
	p.handler.HandleUpdate(ctx, update)
}
