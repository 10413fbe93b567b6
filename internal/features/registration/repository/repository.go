package repository

import (
	"context"

	"giveaway-registration-bot/internal/features/registration/models"
)

// ParticipantRepository описывает хранилище участников розыгрыша.
// Хранилище только добавляет и ищет записи: обновление и удаление
// не предусмотрены.
type ParticipantRepository interface {
	// Find возвращает (nil, nil), если таблица отсутствует или участник не найден.
	Find(ctx context.Context, telegramID int64) (*models.Participant, error)
	// Append должен сбросить данные на диск до возврата успеха.
	Append(ctx context.Context, participant *models.Participant) error
	Count(ctx context.Context) (int, error)
}
