package models

import "time"

// TelegramConfig учётные данные Telegram API профиля.
// APIHash и BotToken хранятся в зашифрованном виде.
type TelegramConfig struct {
	APIID        int       `json:"api_id"`
	APIHash      string    `json:"api_hash"`
	PhoneNumber  string    `json:"phone_number"`
	BotToken     string    `json:"bot_token,omitempty"`
	IsConfigured bool      `json:"is_configured"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// DummyTelegramConfig используется для приёма настроек из JSON-запроса.
type DummyTelegramConfig struct {
	APIID       int    `json:"api_id" validate:"required,gt=0"`
	APIHash     string `json:"api_hash" validate:"required,len=32,hexadecimal"`
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	BotToken    string `json:"bot_token" validate:"omitempty,bottoken"`
}
