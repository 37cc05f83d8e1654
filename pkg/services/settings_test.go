package services

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/Matheusbritto77/WBot/pkg/models"
	"github.com/Matheusbritto77/WBot/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeJID(t *testing.T) {
	assert.Equal(t, "5511999999999@s.whatsapp.net", NormalizeJID(" 5511999999999 "))
	assert.Equal(t, "123@g.us", NormalizeJID("123@g.us"))
	assert.Empty(t, NormalizeJID("  "))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a@g.us", "b@g.us"}, SplitList(" a@g.us, ,b@g.us,", nil))
	assert.Nil(t, SplitList("", nil))
	assert.Equal(t, []string{"1@s.whatsapp.net"}, SplitList("1", NormalizeJID))
}

func TestSettings_BlockAndUnblock(t *testing.T) {
	ctx := context.Background()
	p := file.NewPersistence(t.TempDir())
	service := NewSettings(p, slog.Default())

	require.NoError(t, p.SettingsRepository().Set(ctx, models.SettingBlockedContacts, "111, 222@s.whatsapp.net"))

	require.NoError(t, service.BlockContact(ctx, "333"))
	require.NoError(t, service.BlockContact(ctx, "111@s.whatsapp.net"))

	blocked, err := service.BlockedContacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"111@s.whatsapp.net", "222@s.whatsapp.net", "333@s.whatsapp.net"}, blocked)

	isBlocked, err := service.IsBlocked(ctx, "333")
	require.NoError(t, err)
	assert.True(t, isBlocked)

	require.NoError(t, service.UnblockContact(ctx, "222"))

	raw, err := service.Get(ctx, models.SettingBlockedContacts)
	require.NoError(t, err)
	assert.Equal(t, "111@s.whatsapp.net, 333@s.whatsapp.net", raw)

	assert.ErrorIs(t, service.BlockContact(ctx, " "), ErrEmptyJID)
}

func TestSettings_SetAndDefaults(t *testing.T) {
	ctx := context.Background()
	service := NewSettings(file.NewPersistence(t.TempDir()), slog.Default())

	prompt, err := service.GetOrDefault(ctx, models.SettingAgentPrompt, models.DefaultAgentPrompt)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAgentPrompt, prompt)

	require.NoError(t, service.Set(ctx, models.SettingAgentPrompt, "Seja breve."))

	prompt, err = service.GetOrDefault(ctx, models.SettingAgentPrompt, models.DefaultAgentPrompt)
	require.NoError(t, err)
	assert.Equal(t, "Seja breve.", prompt)

	err = service.Set(ctx, "theme", "dark")
	assert.True(t, IsValidationError(err))

	all, err := service.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.SettingAgentPrompt: "Seja breve."}, all)
}

func TestSettings_ConcurrentBlockContact(t *testing.T) {
	ctx := context.Background()
	service := NewSettings(file.NewPersistence(t.TempDir()), slog.New(slog.DiscardHandler))

	const contacts = 50

	var wg sync.WaitGroup

	for i := range contacts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, service.BlockContact(ctx, strconv.Itoa(5511000+i)))
		}()
	}

	wg.Wait()

	blocked, err := service.BlockedContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, blocked, contacts)

	for i := range contacts {
		if i%2 == 0 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				assert.NoError(t, service.UnblockContact(ctx, strconv.Itoa(5511000+i)))
			}()
		}
	}

	wg.Wait()

	blocked, err = service.BlockedContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, blocked, contacts/2)
	assert.Contains(t, blocked, "5511001@s.whatsapp.net")
	assert.NotContains(t, blocked, "5511000@s.whatsapp.net")
}
