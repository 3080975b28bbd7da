// Package gate решает, может ли профиль пользоваться ботом прямо сейчас.
//
// Порядок проверок (первое совпадение побеждает): покупка навсегда,
// действующая подписка, пробный период, ожидание после бесплатного
// использования, бесплатное использование раз в сутки.
package gate

import (
	"math"
	"strconv"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/models"
)

// Policy параметры пробного периода и бесплатного использования.
type Policy struct {
	TrialDuration    time.Duration
	FreeCooldown     time.Duration
	SubscriptionDays []int
}

// DefaultPolicy семь дней пробного периода, сутки между бесплатными запусками.
func DefaultPolicy() Policy {
	return Policy{
		TrialDuration:    7 * 24 * time.Hour,
		FreeCooldown:     24 * time.Hour,
		SubscriptionDays: []int{30, 60, 90},
	}
}

// AllowsDuration сообщает, разрешена ли подписка на days дней.
func (p Policy) AllowsDuration(days int) bool {
	for _, d := range p.SubscriptionDays {
		if d == days {
			return true
		}
	}
	return false
}

// TrialDaysRemaining количество оставшихся дней пробного периода, округлённое вверх.
func TrialDaysRemaining(plan *models.UserPlan, now time.Time, policy Policy) int {
	left := plan.TrialStartedAt.Add(policy.TrialDuration).Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// TrialElapsed сообщает, закончилось ли окно пробного периода по времени.
func TrialElapsed(plan *models.UserPlan, now time.Time, policy Policy) bool {
	return !now.Before(plan.TrialStartedAt.Add(policy.TrialDuration))
}

// SubscriptionActive сообщает, действует ли подписка в момент now.
func SubscriptionActive(plan *models.UserPlan, now time.Time) bool {
	return plan.Subscription != nil && now.Before(plan.Subscription.ExpiresAt)
}

// Decide вычисляет доступ к боту botID без побочных эффектов.
func Decide(plan *models.UserPlan, botID string, now time.Time, policy Policy) models.Decision {
	daysLeft := TrialDaysRemaining(plan, now, policy)
	d := models.Decision{BotID: botID, TrialDaysLeft: daysLeft}

	switch {
	case plan.Owns(botID):
		d.Allowed, d.Reason = true, models.ReasonPurchased
	case SubscriptionActive(plan, now):
		expires := plan.Subscription.ExpiresAt
		d.Allowed, d.Reason, d.ExpiresAt = true, models.ReasonSubscription, &expires
	case daysLeft > 0 && !plan.TrialEnded:
		d.Allowed, d.Reason = true, models.ReasonTrial
	default:
		if last, ok := plan.LastFreeUse[botID]; ok && now.Sub(last) < policy.FreeCooldown {
			retry := last.Add(policy.FreeCooldown)
			d.Allowed, d.Reason, d.RetryAt = false, models.ReasonWait24h, &retry
			return d
		}
		d.Allowed, d.Reason = true, models.ReasonFree24h
	}
	return d
}

// UseFree отмечает бесплатное использование бота. Если окно пробного периода
// уже прошло, пробный период считается завершённым.
func UseFree(plan *models.UserPlan, botID string, now time.Time, policy Policy) {
	if plan.LastFreeUse == nil {
		plan.LastFreeUse = map[string]time.Time{}
	}
	plan.LastFreeUse[botID] = now
	if TrialElapsed(plan, now, policy) {
		plan.TrialEnded = true
	}
}

// Purchase добавляет бота в купленные навсегда. Повторная покупка ничего не меняет.
func Purchase(plan *models.UserPlan, botID string) {
	if plan.Owns(botID) {
		return
	}
	plan.ActivePlans = append(plan.ActivePlans, botID)
}

// Subscribe оформляет подписку на days дней, заменяя действующую, и завершает пробный период.
func Subscribe(plan *models.UserPlan, days int, now time.Time) {
	plan.Subscription = &models.Subscription{
		Type:      SubscriptionType(days),
		StartedAt: now,
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
	}
	plan.TrialEnded = true
}

// SubscriptionType строковое обозначение срока подписки, например "30d".
func SubscriptionType(days int) string {
	return strconv.Itoa(days) + "d"
}
