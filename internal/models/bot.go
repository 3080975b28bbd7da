package models

// BotCounters демонстрационные счётчики бота.
type BotCounters struct {
	Users     int `json:"users"`
	Messages  int `json:"messages"`
	Campaigns int `json:"campaigns"`
}

// Bot описание бота из каталога. Записи неизменяемы.
type Bot struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Token         string      `json:"token"`
	Status        string      `json:"status"`
	PriceLifetime int         `json:"price_lifetime"`
	Counters      BotCounters `json:"counters"`
}
