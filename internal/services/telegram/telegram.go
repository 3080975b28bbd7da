// Package telegram хранит учётные данные Telegram API профиля.
// Секретные поля шифруются перед сохранением.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/lib/secret"
	"github.com/magabrotheeeer/botcatalog/internal/models"
)

const namespace = "telegram-config"

// StateStore хранилище JSON-состояния.
type StateStore interface {
	Load(ctx context.Context, namespace, key string, out any) (bool, error)
	Save(ctx context.Context, namespace, key string, value any) error
	Delete(ctx context.Context, namespace, key string) (bool, error)
}

// Sealer шифрует секреты для хранения.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}

// ConfigService реализует операции над TelegramConfig.
type ConfigService struct {
	store  StateStore
	sealer Sealer
	now    func() time.Time
	log    *slog.Logger
}

// NewConfigService создает новый экземпляр ConfigService.
func NewConfigService(store StateStore, sealer Sealer, log *slog.Logger) *ConfigService {
	return &ConfigService{store: store, sealer: sealer, now: time.Now, log: log}
}

func key(profileID string) string {
	return "tg:" + profileID
}

// Get возвращает настройки профиля. Если настроек нет, IsConfigured=false.
// При reveal=false секреты маскируются.
func (s *ConfigService) Get(ctx context.Context, profileID string, reveal bool) (*models.TelegramConfig, error) {
	const op = "services.telegram.Get"
	var stored models.TelegramConfig
	found, err := s.store.Load(ctx, namespace, key(profileID), &stored)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return &models.TelegramConfig{}, nil
	}

	apiHash, err := s.sealer.Open(stored.APIHash)
	if err != nil {
		return nil, fmt.Errorf("%s: api hash: %w", op, err)
	}
	botToken, err := s.sealer.Open(stored.BotToken)
	if err != nil {
		return nil, fmt.Errorf("%s: bot token: %w", op, err)
	}

	out := stored
	if reveal {
		out.APIHash, out.BotToken = apiHash, botToken
	} else {
		out.APIHash, out.BotToken = secret.Mask(apiHash), secret.Mask(botToken)
	}
	return &out, nil
}

// Save сохраняет проверенные настройки и отмечает профиль как настроенный.
func (s *ConfigService) Save(ctx context.Context, profileID string, req models.DummyTelegramConfig) (*models.TelegramConfig, error) {
	const op = "services.telegram.Save"
	apiHash, err := s.sealer.Seal(req.APIHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	botToken, err := s.sealer.Seal(req.BotToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored := models.TelegramConfig{
		APIID:        req.APIID,
		APIHash:      apiHash,
		PhoneNumber:  req.PhoneNumber,
		BotToken:     botToken,
		IsConfigured: true,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.store.Save(ctx, namespace, key(profileID), stored); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("telegram config saved", slog.String("profile_id", profileID), slog.Int("api_id", req.APIID))

	out := stored
	out.APIHash, out.BotToken = secret.Mask(req.APIHash), secret.Mask(req.BotToken)
	return &out, nil
}

// Clear удаляет настройки. Возвращает false, если их не было.
func (s *ConfigService) Clear(ctx context.Context, profileID string) (bool, error) {
	deleted, err := s.store.Delete(ctx, namespace, key(profileID))
	if err != nil {
		return false, fmt.Errorf("services.telegram.Clear: %w", err)
	}
	return deleted, nil
}
