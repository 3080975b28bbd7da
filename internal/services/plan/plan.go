// Package plan содержит бизнес-логику тарифов: пробный период, подписки,
// покупку ботов навсегда и бесплатное использование раз в сутки.
package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/lib/gate"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/metrics"
	"github.com/magabrotheeeer/botcatalog/internal/models"
)

const namespace = "user-plan"

// Routing keys событий тарифа.
const (
	EventBotPurchased          = "bot.purchased"
	EventSubscriptionPurchased = "subscription.purchased"
	EventFreeUsed              = "free.used"
)

var (
	// ErrUnknownBot бота нет в каталоге.
	ErrUnknownBot = errors.New("unknown bot")
	// ErrInvalidDuration срок подписки не входит в разрешённые.
	ErrInvalidDuration = errors.New("invalid subscription duration")
	// ErrCooldownActive бесплатное использование уже было в последние сутки.
	ErrCooldownActive = errors.New("free use cooldown active")
)

// StateStore хранилище JSON-состояния.
type StateStore interface {
	Load(ctx context.Context, namespace, key string, out any) (bool, error)
	Save(ctx context.Context, namespace, key string, value any) error
	Delete(ctx context.Context, namespace, key string) (bool, error)
}

// Catalog проверяет существование бота.
type Catalog interface {
	Exists(id string) bool
}

// Publisher публикует события тарифа.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service реализует операции над UserPlan профиля.
type Service struct {
	store     StateStore
	catalog   Catalog
	publisher Publisher
	policy    gate.Policy
	now       func() time.Time
	log       *slog.Logger

	// read-modify-write состояния профиля выполняется под мьютексом
	mu sync.Mutex
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithPublisher включает публикацию событий.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// NewService создает новый экземпляр Service.
func NewService(store StateStore, catalog Catalog, policy gate.Policy, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		policy:  policy,
		now:     time.Now,
		log:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(profileID string) string {
	return "plan:" + profileID
}

// Load возвращает состояние профиля, создавая его при первом обращении.
func (s *Service) Load(ctx context.Context, profileID string) (*models.UserPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, profileID)
}

func (s *Service) load(ctx context.Context, profileID string) (*models.UserPlan, error) {
	const op = "services.plan.load"
	var p models.UserPlan
	found, err := s.store.Load(ctx, namespace, key(profileID), &p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		if p.LastFreeUse == nil {
			p.LastFreeUse = map[string]time.Time{}
		}
		if p.ActivePlans == nil {
			p.ActivePlans = []string{}
		}
		return &p, nil
	}

	created := models.NewUserPlan(s.now())
	if err := s.store.Save(ctx, namespace, key(profileID), created); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("trial started", slog.String("profile_id", profileID))
	return created, nil
}

// update загружает состояние, применяет fn и сохраняет результат.
func (s *Service) update(ctx context.Context, profileID string, fn func(p *models.UserPlan, now time.Time) error) (*models.UserPlan, error) {
	const op = "services.plan.update"
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := fn(p, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, namespace, key(profileID), p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) checkBot(botID string) error {
	if !s.catalog.Exists(botID) {
		return fmt.Errorf("%w: %s", ErrUnknownBot, botID)
	}
	return nil
}

// CanUseBot решает, можно ли сейчас использовать бота. Состояние не меняется,
// кроме создания тарифа при первом обращении.
func (s *Service) CanUseBot(ctx context.Context, profileID, botID string) (models.Decision, error) {
	if err := s.checkBot(botID); err != nil {
		return models.Decision{}, err
	}
	p, err := s.Load(ctx, profileID)
	if err != nil {
		return models.Decision{}, err
	}
	d := gate.Decide(p, botID, s.now(), s.policy)
	metrics.ObserveDecision(d)
	return d, nil
}

// UseFreeBot отмечает бесплатное использование бота без проверки доступа.
func (s *Service) UseFreeBot(ctx context.Context, profileID, botID string) (*models.UserPlan, error) {
	if err := s.checkBot(botID); err != nil {
		return nil, err
	}
	var at time.Time
	p, err := s.update(ctx, profileID, func(p *models.UserPlan, now time.Time) error {
		gate.UseFree(p, botID, now, s.policy)
		at = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventFreeUsed, models.PlanEvent{ProfileID: profileID, Type: EventFreeUsed, BotID: botID, At: at})
	return p, nil
}

// UseBot проверяет доступ и, если он возможен только как бесплатный,
// расходует бесплатное использование. При активном ожидании возвращает
// решение вместе с ErrCooldownActive.
func (s *Service) UseBot(ctx context.Context, profileID, botID string) (models.Decision, error) {
	if err := s.checkBot(botID); err != nil {
		return models.Decision{}, err
	}
	var d models.Decision
	var at time.Time
	_, err := s.update(ctx, profileID, func(p *models.UserPlan, now time.Time) error {
		d = gate.Decide(p, botID, now, s.policy)
		if d.Reason == models.ReasonWait24h {
			return ErrCooldownActive
		}
		if d.Reason == models.ReasonFree24h {
			gate.UseFree(p, botID, now, s.policy)
			at = now
		}
		return nil
	})
	if errors.Is(err, ErrCooldownActive) {
		metrics.ObserveDecision(d)
		return d, ErrCooldownActive
	}
	if err != nil {
		return models.Decision{}, err
	}
	metrics.ObserveDecision(d)
	if !at.IsZero() {
		s.publish(ctx, EventFreeUsed, models.PlanEvent{ProfileID: profileID, Type: EventFreeUsed, BotID: botID, At: at})
	}
	return d, nil
}

// PurchaseBot покупает бота навсегда.
func (s *Service) PurchaseBot(ctx context.Context, profileID, botID string) (*models.UserPlan, error) {
	if err := s.checkBot(botID); err != nil {
		return nil, err
	}
	var at time.Time
	p, err := s.update(ctx, profileID, func(p *models.UserPlan, now time.Time) error {
		gate.Purchase(p, botID)
		at = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("bot purchased", slog.String("profile_id", profileID), slog.String("bot_id", botID))
	metrics.ObservePurchase("bot")
	s.publish(ctx, EventBotPurchased, models.PlanEvent{ProfileID: profileID, Type: EventBotPurchased, BotID: botID, At: at})
	return p, nil
}

// PurchaseSubscription оформляет подписку на days дней. Действующая подписка
// заменяется, а не продлевается.
func (s *Service) PurchaseSubscription(ctx context.Context, profileID string, days int) (*models.UserPlan, error) {
	if !s.policy.AllowsDuration(days) {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidDuration, days)
	}
	p, err := s.update(ctx, profileID, func(p *models.UserPlan, now time.Time) error {
		gate.Subscribe(p, days, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sub := p.Subscription
	s.log.Info("subscription purchased",
		slog.String("profile_id", profileID),
		slog.String("type", sub.Type),
		slog.Time("expires_at", sub.ExpiresAt),
	)
	metrics.ObservePurchase(sub.Type)
	expires := sub.ExpiresAt
	s.publish(ctx, EventSubscriptionPurchased, models.PlanEvent{
		ProfileID: profileID,
		Type:      EventSubscriptionPurchased,
		At:        sub.StartedAt,
		ExpiresAt: &expires,
	})
	return p, nil
}

// Status возвращает тариф с вычисленными полями.
func (s *Service) Status(ctx context.Context, profileID string) (*models.PlanStatus, error) {
	p, err := s.Load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &models.PlanStatus{
		Plan:               *p,
		TrialDaysLeft:      gate.TrialDaysRemaining(p, now, s.policy),
		SubscriptionActive: gate.SubscriptionActive(p, now),
	}, nil
}

// Reset удаляет состояние профиля. Следующее обращение начнёт новый пробный период.
func (s *Service) Reset(ctx context.Context, profileID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted, err := s.store.Delete(ctx, namespace, key(profileID))
	if err != nil {
		return false, fmt.Errorf("services.plan.Reset: %w", err)
	}
	return deleted, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, ev models.PlanEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, ev); err != nil {
		s.log.Warn("failed to publish plan event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}
