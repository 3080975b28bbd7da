// Package catalog предоставляет неизменяемый каталог ботов автоматизации Telegram.
package catalog

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/botcatalog/internal/models"
)

// ErrBotNotFound возвращается для неизвестного идентификатора бота.
var ErrBotNotFound = errors.New("bot not found")

var bots = []models.Bot{
	{ID: "auto-poster", Name: "Auto Poster", Category: "content", Description: "Schedules and publishes posts to channels and groups.", Token: demoToken(1), Status: "active", PriceLifetime: 49, Counters: models.BotCounters{Users: 1240, Messages: 58210, Campaigns: 34}},
	{ID: "mass-messenger", Name: "Mass Messenger", Category: "messaging", Description: "Sends bulk direct messages to imported audiences.", Token: demoToken(2), Status: "active", PriceLifetime: 79, Counters: models.BotCounters{Users: 860, Messages: 193400, Campaigns: 57}},
	{ID: "member-scraper", Name: "Member Scraper", Category: "scraping", Description: "Collects member lists from public groups.", Token: demoToken(3), Status: "active", PriceLifetime: 59, Counters: models.BotCounters{Users: 530, Messages: 0, Campaigns: 12}},
	{ID: "payments", Name: "Payments Bot", Category: "payments", Description: "Accepts payments and issues invoices in chat.", Token: demoToken(4), Status: "active", PriceLifetime: 99, Counters: models.BotCounters{Users: 2210, Messages: 40120, Campaigns: 0}},
	{ID: "group-moderator", Name: "Group Moderator", Category: "moderation", Description: "Filters spam, bans and mutes users by rules.", Token: demoToken(5), Status: "active", PriceLifetime: 39, Counters: models.BotCounters{Users: 4100, Messages: 120300, Campaigns: 0}},
	{ID: "auto-responder", Name: "Auto Responder", Category: "messaging", Description: "Replies to incoming messages by keyword templates.", Token: demoToken(6), Status: "active", PriceLifetime: 29, Counters: models.BotCounters{Users: 3050, Messages: 88410, Campaigns: 0}},
	{ID: "channel-analytics", Name: "Channel Analytics", Category: "analytics", Description: "Tracks subscriber growth and post reach.", Token: demoToken(7), Status: "active", PriceLifetime: 45, Counters: models.BotCounters{Users: 720, Messages: 0, Campaigns: 0}},
	{ID: "invite-manager", Name: "Invite Manager", Category: "growth", Description: "Adds users to groups from prepared lists.", Token: demoToken(8), Status: "paused", PriceLifetime: 65, Counters: models.BotCounters{Users: 410, Messages: 0, Campaigns: 19}},
	{ID: "content-parser", Name: "Content Parser", Category: "scraping", Description: "Copies posts from source channels with filters.", Token: demoToken(9), Status: "active", PriceLifetime: 55, Counters: models.BotCounters{Users: 650, Messages: 21900, Campaigns: 8}},
	{ID: "giveaway", Name: "Giveaway Bot", Category: "growth", Description: "Runs contests and picks random winners.", Token: demoToken(10), Status: "active", PriceLifetime: 25, Counters: models.BotCounters{Users: 5200, Messages: 14300, Campaigns: 41}},
	{ID: "crm", Name: "CRM Bot", Category: "sales", Description: "Keeps leads and deal stages inside Telegram.", Token: demoToken(11), Status: "active", PriceLifetime: 89, Counters: models.BotCounters{Users: 310, Messages: 9800, Campaigns: 0}},
	{ID: "support-desk", Name: "Support Desk", Category: "support", Description: "Routes customer questions to operators as tickets.", Token: demoToken(12), Status: "active", PriceLifetime: 69, Counters: models.BotCounters{Users: 1890, Messages: 47700, Campaigns: 0}},
	{ID: "subscription-manager", Name: "Subscription Manager", Category: "payments", Description: "Sells paid access to private channels.", Token: demoToken(13), Status: "active", PriceLifetime: 95, Counters: models.BotCounters{Users: 980, Messages: 12600, Campaigns: 5}},
	{ID: "welcome", Name: "Welcome Bot", Category: "moderation", Description: "Greets new members and asks for captcha.", Token: demoToken(14), Status: "active", PriceLifetime: 19, Counters: models.BotCounters{Users: 6400, Messages: 30100, Campaigns: 0}},
	{ID: "poll-survey", Name: "Poll & Survey", Category: "engagement", Description: "Builds polls and collects survey answers.", Token: demoToken(15), Status: "active", PriceLifetime: 22, Counters: models.BotCounters{Users: 1320, Messages: 7600, Campaigns: 23}},
	{ID: "referral", Name: "Referral Bot", Category: "growth", Description: "Tracks referral links and rewards inviters.", Token: demoToken(16), Status: "active", PriceLifetime: 49, Counters: models.BotCounters{Users: 2780, Messages: 11200, Campaigns: 14}},
	{ID: "account-checker", Name: "Account Checker", Category: "tools", Description: "Checks phone numbers for registered accounts.", Token: demoToken(17), Status: "paused", PriceLifetime: 35, Counters: models.BotCounters{Users: 240, Messages: 0, Campaigns: 3}},
}

func demoToken(n int) string {
	return fmt.Sprintf("%010d:AA%s", 7000000000+n, "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
}

// Catalog доступ только на чтение к списку ботов.
type Catalog struct {
	byID map[string]int
}

// New строит индекс каталога.
func New() *Catalog {
	byID := make(map[string]int, len(bots))
	for i, b := range bots {
		byID[b.ID] = i
	}
	return &Catalog{byID: byID}
}

// List возвращает копию всех ботов в порядке каталога.
func (c *Catalog) List() []models.Bot {
	return append([]models.Bot(nil), bots...)
}

// Get возвращает бота по идентификатору.
func (c *Catalog) Get(id string) (models.Bot, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Bot{}, fmt.Errorf("catalog.Get %q: %w", id, ErrBotNotFound)
	}
	return bots[i], nil
}

// Exists сообщает, есть ли бот в каталоге.
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs возвращает идентификаторы всех ботов.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(bots))
	for i, b := range bots {
		ids[i] = b.ID
	}
	return ids
}
