package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/botcatalog/internal/models"
)

var start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func TestDecide_TableTests(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name       string
		plan       func() *models.UserPlan
		now        time.Time
		wantAllow  bool
		wantReason models.Reason
	}{
		{
			name:       "fresh trial",
			plan:       func() *models.UserPlan { return models.NewUserPlan(start) },
			now:        start.Add(time.Hour),
			wantAllow:  true,
			wantReason: models.ReasonTrial,
		},
		{
			name:       "last second of trial",
			plan:       func() *models.UserPlan { return models.NewUserPlan(start) },
			now:        start.Add(7*day - time.Second),
			wantAllow:  true,
			wantReason: models.ReasonTrial,
		},
		{
			name:       "trial window elapsed without free use",
			plan:       func() *models.UserPlan { return models.NewUserPlan(start) },
			now:        start.Add(7 * day),
			wantAllow:  true,
			wantReason: models.ReasonFree24h,
		},
		{
			name: "trial ended explicitly inside window",
			plan: func() *models.UserPlan {
				p := models.NewUserPlan(start)
				p.TrialEnded = true
				return p
			},
			now:        start.Add(day),
			wantAllow:  true,
			wantReason: models.ReasonFree24h,
		},
		{
			name: "purchased overrides cooldown",
			plan: func() *models.UserPlan {
				p := models.NewUserPlan(start)
				p.TrialEnded = true
				p.LastFreeUse["autopost"] = start.Add(8 * day)
				Purchase(p, "autopost")
				return p
			},
			now:        start.Add(8*day + time.Minute),
			wantAllow:  true,
			wantReason: models.ReasonPurchased,
		},
		{
			name: "expired subscription falls through to free",
			plan: func() *models.UserPlan {
				p := models.NewUserPlan(start)
				Subscribe(p, 30, start)
				return p
			},
			now:        start.Add(30 * day),
			wantAllow:  true,
			wantReason: models.ReasonFree24h,
		},
		{
			name: "cooldown active",
			plan: func() *models.UserPlan {
				p := models.NewUserPlan(start)
				p.LastFreeUse["autopost"] = start.Add(10 * day)
				return p
			},
			now:        start.Add(10*day + time.Hour),
			wantAllow:  false,
			wantReason: models.ReasonWait24h,
		},
		{
			name: "cooldown is per bot",
			plan: func() *models.UserPlan {
				p := models.NewUserPlan(start)
				p.LastFreeUse["scraper"] = start.Add(10 * day)
				return p
			},
			now:        start.Add(10*day + time.Hour),
			wantAllow:  true,
			wantReason: models.ReasonFree24h,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.plan(), "autopost", tt.now, policy)
			assert.Equal(t, tt.wantAllow, got.Allowed)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, "autopost", got.BotID)
		})
	}
}

func TestFreeUseCooldownBoundaries(t *testing.T) {
	policy := DefaultPolicy()
	plan := models.NewUserPlan(start)
	afterTrial := start.Add(7 * day)

	d := Decide(plan, "autopost", afterTrial, policy)
	require.True(t, d.Allowed)
	require.Equal(t, models.ReasonFree24h, d.Reason)

	UseFree(plan, "autopost", afterTrial, policy)
	assert.True(t, plan.TrialEnded)

	d = Decide(plan, "autopost", afterTrial, policy)
	assert.False(t, d.Allowed)
	assert.Equal(t, models.ReasonWait24h, d.Reason)
	require.NotNil(t, d.RetryAt)
	assert.Equal(t, afterTrial.Add(day), *d.RetryAt)

	d = Decide(plan, "autopost", afterTrial.Add(day-time.Second), policy)
	assert.False(t, d.Allowed)
	assert.Equal(t, models.ReasonWait24h, d.Reason)

	d = Decide(plan, "autopost", afterTrial.Add(day+time.Second), policy)
	assert.True(t, d.Allowed)
	assert.Equal(t, models.ReasonFree24h, d.Reason)
}

func TestUseFree_DuringTrialKeepsTrial(t *testing.T) {
	policy := DefaultPolicy()
	plan := models.NewUserPlan(start)

	UseFree(plan, "autopost", start.Add(day), policy)

	assert.False(t, plan.TrialEnded)
	assert.Equal(t, models.ReasonTrial, Decide(plan, "autopost", start.Add(day), policy).Reason)
}

func TestPurchase_Idempotent(t *testing.T) {
	plan := models.NewUserPlan(start)
	Purchase(plan, "autopost")
	Purchase(plan, "autopost")
	assert.Equal(t, []string{"autopost"}, plan.ActivePlans)

	d := Decide(plan, "autopost", start.Add(365*day), DefaultPolicy())
	assert.Equal(t, models.ReasonPurchased, d.Reason)
}

func TestSubscribe_EndsTrialAndCoversAllBots(t *testing.T) {
	policy := DefaultPolicy()
	plan := models.NewUserPlan(start)

	Subscribe(plan, 30, start.Add(day))

	assert.True(t, plan.TrialEnded)
	assert.Equal(t, "30d", plan.Subscription.Type)
	assert.Equal(t, start.Add(31*day), plan.Subscription.ExpiresAt)

	for _, bot := range []string{"autopost", "scraper", "payments"} {
		d := Decide(plan, bot, start.Add(2*day), policy)
		assert.True(t, d.Allowed)
		assert.Equal(t, models.ReasonSubscription, d.Reason)
		require.NotNil(t, d.ExpiresAt)
	}

	d := Decide(plan, "autopost", start.Add(31*day-time.Second), policy)
	assert.Equal(t, models.ReasonSubscription, d.Reason)
}

func TestSubscribe_RepurchaseOverwrites(t *testing.T) {
	plan := models.NewUserPlan(start)

	Subscribe(plan, 90, start)
	Subscribe(plan, 30, start.Add(10*day))

	assert.Equal(t, "30d", plan.Subscription.Type)
	assert.Equal(t, start.Add(40*day), plan.Subscription.ExpiresAt)
}

func TestTrialDaysRemaining(t *testing.T) {
	policy := DefaultPolicy()
	plan := models.NewUserPlan(start)

	assert.Equal(t, 7, TrialDaysRemaining(plan, start, policy))
	assert.Equal(t, 7, TrialDaysRemaining(plan, start.Add(time.Hour), policy))
	assert.Equal(t, 6, TrialDaysRemaining(plan, start.Add(day), policy))
	assert.Equal(t, 1, TrialDaysRemaining(plan, start.Add(7*day-time.Second), policy))
	assert.Equal(t, 0, TrialDaysRemaining(plan, start.Add(7*day), policy))
	assert.Equal(t, 0, TrialDaysRemaining(plan, start.Add(30*day), policy))
}

func TestPolicy_AllowsDuration(t *testing.T) {
	policy := DefaultPolicy()
	assert.True(t, policy.AllowsDuration(30))
	assert.True(t, policy.AllowsDuration(90))
	assert.False(t, policy.AllowsDuration(45))
	assert.False(t, policy.AllowsDuration(0))
}
