package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-registration-bot/internal/features/registration/models"
	"giveaway-registration-bot/internal/features/registration/service"
)

type fakeRepo struct {
	mu        sync.Mutex
	records   map[int64]*models.Participant
	findErr   error
	appendErr error
	appended  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[int64]*models.Participant)}
}

func (f *fakeRepo) Find(ctx context.Context, telegramID int64) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records[telegramID], nil
}

func (f *fakeRepo) Append(ctx context.Context, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records[p.TelegramID] = p
	f.appended++
	return nil
}

func (f *fakeRepo) Count(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

type fakeVerifier struct {
	member bool
	err    error
	calls  int
}

func (f *fakeVerifier) IsMember(ctx context.Context, userID int64, channel string) (bool, error) {
	f.calls++
	return f.member, f.err
}

const testUserID int64 = 42

func newService(repo *fakeRepo, verifier *fakeVerifier) service.RegistrationService {
	return service.NewRegistrationService(repo, verifier, "official_jget")
}

func TestStartSessionNewUser(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{})

	session, participant, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)
	assert.Nil(t, participant)

	assert.Equal(t, models.StepSubscription, session.Step)
	assert.False(t, session.Subscribed)
	assert.Nil(t, session.PhoneNumber)
	assert.Nil(t, session.GuardianName)
	assert.Nil(t, session.ChildSchool)
	assert.Nil(t, session.ChildClass)
}

func TestStartSessionExistingParticipant(t *testing.T) {
	repo := newFakeRepo()
	repo.records[testUserID] = &models.Participant{
		TelegramID:   testUserID,
		Username:     "parent",
		GuardianName: "Иванова Мария Петровна",
		ChildSchool:  "Школа №5",
		ChildClass:   "7А",
		PhoneNumber:  "+10000000000",
		Code:         "AB12CD",
	}
	svc := newService(repo, &fakeVerifier{})

	session, participant, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)
	require.NotNil(t, participant)

	// Сохраненный код показывается как есть и никогда не перегенерируется
	assert.Equal(t, "AB12CD", participant.Code)
	assert.Equal(t, models.StepCompleted, session.Step)
	assert.True(t, session.Subscribed)
	assert.True(t, session.PhoneProvided())
	require.NotNil(t, session.GuardianName)
	assert.Equal(t, "Иванова Мария Петровна", *session.GuardianName)
}

func TestStartSessionLookupFailureStartsFresh(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errors.New("workbook is corrupted")
	svc := newService(repo, &fakeVerifier{})

	session, participant, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)
	assert.Nil(t, participant)
	assert.Equal(t, models.StepSubscription, session.Step)
}

func TestCheckSubscriptionWithoutSession(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{member: true})

	_, err := svc.CheckSubscription(context.Background(), testUserID)
	assert.ErrorIs(t, err, service.ErrNoSession)
}

func TestCheckSubscriptionNotMember(t *testing.T) {
	verifier := &fakeVerifier{member: false}
	svc := newService(newFakeRepo(), verifier)
	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	subscribed, err := svc.CheckSubscription(context.Background(), testUserID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	session, ok := svc.Session(testUserID)
	require.True(t, ok)
	assert.Equal(t, models.StepSubscription, session.Step)
	assert.False(t, session.Subscribed)
}

func TestCheckSubscriptionMember(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{member: true})
	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	subscribed, err := svc.CheckSubscription(context.Background(), testUserID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	session, _ := svc.Session(testUserID)
	assert.Equal(t, models.StepPhone, session.Step)
	assert.True(t, session.Subscribed)
}

func TestRequestPhoneGate(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{member: false})

	assert.ErrorIs(t, svc.RequestPhone(context.Background(), testUserID), service.ErrNoSession)

	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	// Без подтвержденной подписки запрос номера отклоняется и ничего не меняет
	assert.ErrorIs(t, svc.RequestPhone(context.Background(), testUserID), service.ErrNotSubscribed)
	session, _ := svc.Session(testUserID)
	assert.Equal(t, models.StepSubscription, session.Step)
}

func TestSubmitPhoneRequiresPhoneStep(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{})
	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	err = svc.SubmitPhone(context.Background(), testUserID, "+10000000000")
	assert.ErrorIs(t, err, service.ErrUnexpectedStep)
}

func TestSubmitTextBeforePhoneRejected(t *testing.T) {
	svc := newService(newFakeRepo(), &fakeVerifier{member: true})
	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	_, err = svc.SubmitText(context.Background(), testUserID, "Иванова Мария Петровна")
	assert.ErrorIs(t, err, service.ErrUnexpectedStep)
}

func TestSubmitTextEmptyInput(t *testing.T) {
	svc := registeredToGuardianStep(t, newFakeRepo())

	_, err := svc.SubmitText(context.Background(), testUserID, "   \n ")
	assert.ErrorIs(t, err, service.ErrEmptyInput)

	session, _ := svc.Session(testUserID)
	assert.Equal(t, models.StepGuardianName, session.Step)
	assert.Nil(t, session.GuardianName)
}

func TestFullRegistrationScenario(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakeVerifier{member: true})
	ctx := context.Background()

	_, participant, err := svc.StartSession(ctx, testUserID, "parent", "Анна")
	require.NoError(t, err)
	require.Nil(t, participant)

	subscribed, err := svc.CheckSubscription(ctx, testUserID)
	require.NoError(t, err)
	require.True(t, subscribed)

	require.NoError(t, svc.SubmitPhone(ctx, testUserID, "+10000000000"))

	result, err := svc.SubmitText(ctx, testUserID, "  Ivanova Maria Petrovna ")
	require.NoError(t, err)
	assert.Equal(t, models.StepGuardianName, result.Step)
	assert.Equal(t, models.StepSchool, result.Next)

	result, err = svc.SubmitText(ctx, testUserID, "School №5")
	require.NoError(t, err)
	assert.Equal(t, models.StepClass, result.Next)

	result, err = svc.SubmitText(ctx, testUserID, "7A")
	require.NoError(t, err)
	require.NotNil(t, result.Participant)
	assert.Equal(t, models.StepCompleted, result.Next)

	saved := result.Participant
	assert.Equal(t, testUserID, saved.TelegramID)
	assert.Equal(t, "Ivanova Maria Petrovna", saved.GuardianName)
	assert.Equal(t, "School №5", saved.ChildSchool)
	assert.Equal(t, "7A", saved.ChildClass)
	assert.Equal(t, "+10000000000", saved.PhoneNumber)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, saved.Code)
	assert.False(t, saved.RegisteredAt.IsZero())
	assert.Equal(t, 1, repo.appended)

	// Повторный /start возвращает тот же код, а не новый
	_, again, err := svc.StartSession(ctx, testUserID, "parent", "Анна")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, saved.Code, again.Code)
	assert.Equal(t, 1, repo.appended)
}

func TestPersistenceFailureKeepsClassStep(t *testing.T) {
	repo := newFakeRepo()
	svc := registeredToGuardianStep(t, repo)
	ctx := context.Background()

	_, err := svc.SubmitText(ctx, testUserID, "Иванова Мария Петровна")
	require.NoError(t, err)
	_, err = svc.SubmitText(ctx, testUserID, "Школа №5")
	require.NoError(t, err)

	repo.appendErr = errors.New("disk full")
	_, err = svc.SubmitText(ctx, testUserID, "7А")
	assert.ErrorIs(t, err, service.ErrSaveFailed)

	// Шаг не продвинулся, частичная запись не создана
	session, _ := svc.Session(testUserID)
	assert.Equal(t, models.StepClass, session.Step)
	assert.Equal(t, 0, repo.appended)

	// После восстановления хранилища повторная отправка завершает регистрацию
	repo.appendErr = nil
	result, err := svc.SubmitText(ctx, testUserID, "7А")
	require.NoError(t, err)
	assert.Equal(t, models.StepCompleted, result.Next)
	assert.Equal(t, 1, repo.appended)
}

func TestCompletedSessionIgnoresText(t *testing.T) {
	repo := newFakeRepo()
	repo.records[testUserID] = &models.Participant{TelegramID: testUserID, Code: "ZZZ999"}
	svc := newService(repo, &fakeVerifier{})
	_, _, err := svc.StartSession(context.Background(), testUserID, "parent", "Анна")
	require.NoError(t, err)

	_, err = svc.SubmitText(context.Background(), testUserID, "еще раз")
	assert.ErrorIs(t, err, service.ErrUnexpectedStep)

	session, _ := svc.Session(testUserID)
	assert.Equal(t, models.StepCompleted, session.Step)
}

// registeredToGuardianStep доводит сессию до шага ввода ФИО.
func registeredToGuardianStep(t *testing.T, repo *fakeRepo) service.RegistrationService {
	t.Helper()
	svc := newService(repo, &fakeVerifier{member: true})
	ctx := context.Background()

	_, _, err := svc.StartSession(ctx, testUserID, "parent", "Анна")
	require.NoError(t, err)
	_, err = svc.CheckSubscription(ctx, testUserID)
	require.NoError(t, err)
	require.NoError(t, svc.SubmitPhone(ctx, testUserID, "+10000000000"))
	return svc
}
