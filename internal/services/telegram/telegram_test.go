package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/botcatalog/internal/cache"
	"github.com/magabrotheeeer/botcatalog/internal/lib/secret"
	"github.com/magabrotheeeer/botcatalog/internal/lib/statestore"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/storage"
)

const (
	apiHash  = "0123456789abcdef0123456789abcdef"
	botToken = "7000000001:AAxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T) (*ConfigService, *storage.Memory) {
	t.Helper()
	key, err := secret.GenerateKey()
	require.NoError(t, err)
	sealer, err := secret.NewSealer(key)
	require.NoError(t, err)

	mem := storage.NewMemory()
	store := statestore.New(mem, cache.Noop{}, time.Hour, newNoopLogger())
	return NewConfigService(store, sealer, newNoopLogger()), mem
}

func validRequest() models.DummyTelegramConfig {
	return models.DummyTelegramConfig{
		APIID:       12345,
		APIHash:     apiHash,
		PhoneNumber: "+79991234567",
		BotToken:    botToken,
	}
}

func TestConfigService_GetUnconfigured(t *testing.T) {
	svc, _ := newTestService(t)

	cfg, err := svc.Get(context.Background(), "alice", false)
	require.NoError(t, err)
	assert.False(t, cfg.IsConfigured)
	assert.Zero(t, cfg.APIID)
}

func TestConfigService_SaveGet(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, "alice", validRequest())
	require.NoError(t, err)
	assert.True(t, saved.IsConfigured)
	assert.Equal(t, secret.Mask(apiHash), saved.APIHash)

	raw, err := mem.Get(ctx, namespace, "tg:alice")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), apiHash, "api hash must be sealed at rest")
	assert.NotContains(t, string(raw), botToken, "bot token must be sealed at rest")

	masked, err := svc.Get(ctx, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, 12345, masked.APIID)
	assert.Equal(t, "+79991234567", masked.PhoneNumber)
	assert.Equal(t, secret.Mask(apiHash), masked.APIHash)
	assert.Equal(t, secret.Mask(botToken), masked.BotToken)

	revealed, err := svc.Get(ctx, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, apiHash, revealed.APIHash)
	assert.Equal(t, botToken, revealed.BotToken)
}

func TestConfigService_Clear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "alice", validRequest())
	require.NoError(t, err)

	deleted, err := svc.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, deleted)

	cfg, err := svc.Get(ctx, "alice", false)
	require.NoError(t, err)
	assert.False(t, cfg.IsConfigured)
}

func TestConfigService_GetCorruptSecret(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	require.NoError(t, mem.Put(ctx, namespace, "tg:alice", []byte(`{"api_id":1,"api_hash":"plain","is_configured":true}`)))

	_, err := svc.Get(ctx, "alice", false)
	assert.True(t, errors.Is(err, secret.ErrDecrypt))
}
