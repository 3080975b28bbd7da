// Package models содержит доменные структуры каталога ботов: состояние тарифа
// пользователя, настройки Telegram и описания ботов.
package models

import "time"

// Reason объясняет, почему доступ к боту разрешён или запрещён.
type Reason string

const (
	ReasonPurchased    Reason = "purchased"
	ReasonSubscription Reason = "subscription"
	ReasonTrial        Reason = "trial"
	ReasonWait24h      Reason = "wait-24h"
	ReasonFree24h      Reason = "free-24h"
)

// Subscription описывает оплаченный доступ ко всем ботам на фиксированный срок.
type Subscription struct {
	Type      string    `json:"type"` // "30d", "60d" или "90d"
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserPlan хранимое состояние тарифа одного профиля.
type UserPlan struct {
	ActivePlans    []string             `json:"active_plans"`
	Subscription   *Subscription        `json:"subscription,omitempty"`
	TrialStartedAt time.Time            `json:"trial_started_at"`
	TrialEnded     bool                 `json:"trial_ended"`
	LastFreeUse    map[string]time.Time `json:"last_free_use"`
}

// NewUserPlan создаёт состояние с пробным периодом, начатым в момент now.
func NewUserPlan(now time.Time) *UserPlan {
	return &UserPlan{
		ActivePlans:    []string{},
		TrialStartedAt: now,
		LastFreeUse:    map[string]time.Time{},
	}
}

// Owns сообщает, куплен ли бот навсегда.
func (p *UserPlan) Owns(botID string) bool {
	for _, id := range p.ActivePlans {
		if id == botID {
			return true
		}
	}
	return false
}

// Decision результат проверки доступа к боту.
type Decision struct {
	BotID         string     `json:"bot_id"`
	Allowed       bool       `json:"allowed"`
	Reason        Reason     `json:"reason"`
	TrialDaysLeft int        `json:"trial_days_left"`
	RetryAt       *time.Time `json:"retry_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// PlanStatus состояние тарифа с вычисленными полями для ответа клиенту.
type PlanStatus struct {
	Plan               UserPlan `json:"plan"`
	TrialDaysLeft      int      `json:"trial_days_left"`
	SubscriptionActive bool     `json:"subscription_active"`
}

// DummySubscriptionRequest тело запроса на покупку подписки.
type DummySubscriptionRequest struct {
	Days int `json:"days" validate:"required,oneof=30 60 90"`
}

// PlanEvent событие изменения тарифа, публикуемое в брокер.
type PlanEvent struct {
	ProfileID string     `json:"profile_id"`
	Type      string     `json:"type"`
	BotID     string     `json:"bot_id,omitempty"`
	At        time.Time  `json:"at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
