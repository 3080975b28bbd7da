// Package validation настраивает валидатор запросов с правилами предметной области.
package validation

import (
	"regexp"

	"github.com/go-playground/validator"
)

var botTokenRe = regexp.MustCompile(`^\d{8,10}:[A-Za-z0-9_-]{35}$`)

// New возвращает валидатор с зарегистрированными правилами:
//   - bottoken: токен бота Telegram вида "<id>:<35 символов>".
func New() *validator.Validate {
	v := validator.New()
	// ошибка возможна только при пустом имени тега
	_ = v.RegisterValidation("bottoken", func(fl validator.FieldLevel) bool {
		return botTokenRe.MatchString(fl.Field().String())
	})
	return v
}
