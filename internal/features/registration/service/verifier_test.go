package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-registration-bot/internal/features/registration/service"
	"giveaway-registration-bot/internal/platform/telegram"
)

type fakeChatMemberGetter struct {
	// статус или ошибка на каждый вариант идентификатора канала
	statuses map[string]string
	errs     map[string]error
	asked    []string
}

func (f *fakeChatMemberGetter) GetChatMember(ctx context.Context, chat string, userID int64) (*telegram.ChatMember, error) {
	f.asked = append(f.asked, chat)
	if err, ok := f.errs[chat]; ok {
		return nil, err
	}
	if status, ok := f.statuses[chat]; ok {
		return &telegram.ChatMember{Status: status}, nil
	}
	return nil, errors.New("chat not found")
}

func TestVerifierTriesChannelVariantsInOrder(t *testing.T) {
	getter := &fakeChatMemberGetter{
		statuses: map[string]string{
			"https://t.me/official_jget": "member",
		},
	}
	verifier := service.NewTelegramVerifier(getter)

	member, err := verifier.IsMember(context.Background(), testUserID, "official_jget")
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, []string{"official_jget", "@official_jget", "https://t.me/official_jget"}, getter.asked)
}

func TestVerifierStopsAtFirstMatch(t *testing.T) {
	getter := &fakeChatMemberGetter{
		statuses: map[string]string{
			"official_jget": "administrator",
		},
	}
	verifier := service.NewTelegramVerifier(getter)

	member, err := verifier.IsMember(context.Background(), testUserID, "official_jget")
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, []string{"official_jget"}, getter.asked)
}

func TestVerifierNonMemberStatus(t *testing.T) {
	getter := &fakeChatMemberGetter{
		statuses: map[string]string{
			"official_jget":              "left",
			"@official_jget":             "left",
			"https://t.me/official_jget": "kicked",
		},
	}
	verifier := service.NewTelegramVerifier(getter)

	member, err := verifier.IsMember(context.Background(), testUserID, "official_jget")
	require.NoError(t, err)
	assert.False(t, member)
}

func TestVerifierSwallowsLookupFailures(t *testing.T) {
	getter := &fakeChatMemberGetter{
		errs: map[string]error{
			"official_jget":              errors.New("chat not found"),
			"@official_jget":             &telegram.RPSError{Msg: "too many requests"},
			"https://t.me/official_jget": errors.New("bad request"),
		},
	}
	verifier := service.NewTelegramVerifier(getter)

	// Сбой всех запросов трактуется как "не подписан", не как ошибка
	member, err := verifier.IsMember(context.Background(), testUserID, "official_jget")
	require.NoError(t, err)
	assert.False(t, member)
	assert.Len(t, getter.asked, 3)
}
