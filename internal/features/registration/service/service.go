package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"giveaway-registration-bot/internal/common/logger"
	"giveaway-registration-bot/internal/features/registration/models"
	"giveaway-registration-bot/internal/features/registration/repository"
)

// StepResult описывает исход обработки текстового шага.
type StepResult struct {
	// Step — шаг, который принял введенный текст.
	Step models.Step
	// Next — шаг, на котором сессия оказалась после обработки.
	Next models.Step
	// Participant заполнен, когда регистрация завершена и запись сохранена.
	Participant *models.Participant
}

type RegistrationService interface {
	// StartSession создает сессию или восстанавливает ее из сохраненной
	// записи. Возвращенная запись не nil только для уже зарегистрированных.
	StartSession(ctx context.Context, telegramID int64, username, firstName string) (*models.Session, *models.Participant, error)
	CheckSubscription(ctx context.Context, telegramID int64) (bool, error)
	RequestPhone(ctx context.Context, telegramID int64) error
	SubmitPhone(ctx context.Context, telegramID int64, phone string) error
	SubmitText(ctx context.Context, telegramID int64, text string) (*StepResult, error)
	Session(telegramID int64) (*models.Session, bool)
}

type registrationService struct {
	repo     repository.ParticipantRepository
	verifier SubscriptionVerifier
	channel  string

	mu       sync.RWMutex
	sessions map[int64]*models.Session
}

func NewRegistrationService(repo repository.ParticipantRepository, verifier SubscriptionVerifier, channel string) RegistrationService {
	return &registrationService{
		repo:     repo,
		verifier: verifier,
		channel:  channel,
		sessions: make(map[int64]*models.Session),
	}
}

// StartSession ищет пользователя в хранилище. Найденная запись означает,
// что регистрация уже состоялась: сессия сразу создается завершенной, ее
// поля берутся из записи, а код участника никогда не генерируется заново.
func (s *registrationService) StartSession(ctx context.Context, telegramID int64, username, firstName string) (*models.Session, *models.Participant, error) {
	existing, err := s.repo.Find(ctx, telegramID)
	if err != nil {
		// Сбой поиска не должен блокировать пользователя: начинаем заново,
		// как будто записи нет
		logger.Error().Int64("user_id", telegramID).Err(err).Msg("Participant lookup failed, starting fresh session")
		existing = nil
	}

	session := &models.Session{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		Step:       models.StepSubscription,
	}

	if existing != nil {
		session.Subscribed = true
		session.PhoneNumber = &existing.PhoneNumber
		session.GuardianName = &existing.GuardianName
		session.ChildSchool = &existing.ChildSchool
		session.ChildClass = &existing.ChildClass
		session.Step = models.StepCompleted
	}

	s.mu.Lock()
	s.sessions[telegramID] = session
	s.mu.Unlock()

	return snapshot(session), existing, nil
}

// CheckSubscription опрашивает верификатор и при подтверждении подписки
// переводит сессию на шаг телефона. Отрицательный результат состояние
// не меняет: пользователь может повторить попытку.
func (s *registrationService) CheckSubscription(ctx context.Context, telegramID int64) (bool, error) {
	s.mu.RLock()
	_, ok := s.sessions[telegramID]
	s.mu.RUnlock()
	if !ok {
		return false, ErrNoSession
	}

	subscribed, err := s.verifier.IsMember(ctx, telegramID, s.channel)
	if err != nil || !subscribed {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[telegramID]
	if !ok {
		return false, ErrNoSession
	}
	session.Subscribed = true
	if session.Step == models.StepSubscription {
		session.Step = models.StepPhone
	}
	return true, nil
}

// RequestPhone проверяет, что запрос номера допустим на текущем шаге.
func (s *registrationService) RequestPhone(ctx context.Context, telegramID int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return ErrNoSession
	}
	if !session.Subscribed {
		return ErrNotSubscribed
	}
	return nil
}

// SubmitPhone сохраняет номер из события contact-share.
func (s *registrationService) SubmitPhone(ctx context.Context, telegramID int64, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return ErrNoSession
	}
	if session.Step != models.StepPhone {
		return ErrUnexpectedStep
	}

	session.PhoneNumber = &phone
	session.Step = models.StepGuardianName
	return nil
}

// SubmitText обрабатывает свободный текст на шагах сбора данных.
// Текст принимается без проверки формата, только обрезаются пробелы.
func (s *registrationService) SubmitText(ctx context.Context, telegramID int64, text string) (*StepResult, error) {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	session, ok := s.sessions[telegramID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoSession
	}

	switch session.Step {
	case models.StepGuardianName, models.StepSchool, models.StepClass:
	default:
		s.mu.Unlock()
		return nil, ErrUnexpectedStep
	}

	if trimmed == "" {
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}

	switch session.Step {
	case models.StepGuardianName:
		session.GuardianName = &trimmed
		session.Step = models.StepSchool
		s.mu.Unlock()
		return &StepResult{Step: models.StepGuardianName, Next: models.StepSchool}, nil

	case models.StepSchool:
		session.ChildSchool = &trimmed
		session.Step = models.StepClass
		s.mu.Unlock()
		return &StepResult{Step: models.StepSchool, Next: models.StepClass}, nil

	default: // models.StepClass
		// Класс запоминаем до попытки сохранения: при сбое хранилища шаг
		// остается class и повторная отправка ничего не теряет
		session.ChildClass = &trimmed
		participant := &models.Participant{
			TelegramID:   session.TelegramID,
			Username:     session.Username,
			GuardianName: deref(session.GuardianName),
			ChildSchool:  deref(session.ChildSchool),
			ChildClass:   trimmed,
			PhoneNumber:  deref(session.PhoneNumber),
			Code:         GenerateCode(),
			RegisteredAt: time.Now(),
		}
		s.mu.Unlock()

		if err := s.repo.Append(ctx, participant); err != nil {
			logger.Error().Int64("user_id", telegramID).Err(err).Msg("Failed to persist participant")
			return nil, ErrSaveFailed
		}

		s.mu.Lock()
		if current, ok := s.sessions[telegramID]; ok {
			current.Step = models.StepCompleted
		}
		s.mu.Unlock()

		logger.Info().
			Int64("user_id", telegramID).
			Str("code", participant.Code).
			Msg("Participant registered")

		return &StepResult{Step: models.StepClass, Next: models.StepCompleted, Participant: participant}, nil
	}
}

// Session возвращает копию сессии пользователя.
func (s *registrationService) Session(telegramID int64) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[telegramID]
	if !ok {
		return nil, false
	}
	return snapshot(session), true
}

func snapshot(session *models.Session) *models.Session {
	copied := *session
	return &copied
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
