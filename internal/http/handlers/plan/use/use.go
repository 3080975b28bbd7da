// Package use реализует HTTP-обработчик использования бота.
//
// Если доступ есть только по бесплатному лимиту, использование расходует его
// на сутки. При активном ожидании возвращается 403 с решением и временем
// следующей попытки.
package use

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
)

// Service описывает интерфейс бизнес-логики тарифа.
type Service interface {
	UseBot(ctx context.Context, profileID, botID string) (models.Decision, error)
}

// Handler регистрирует использование бота.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Использовать бота
// @Tags Plan
// @Produce  json
// @Param id path string true "ID бота"
// @Success 200 {object} models.Decision "Доступ разрешен"
// @Failure 403 {object} response.Response "Бесплатное использование уже было в последние 24 часа"
// @Failure 404 {object} response.ErrorResponse "Бот не найден"
// @Router /plan/bots/{id}/use [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.use"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	profileID, ok := middlewarectx.ProfileID(r.Context())
	if !ok {
		log.Error("profile id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	d, err := h.service.UseBot(r.Context(), profileID, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, plan.ErrCooldownActive):
		log.Info("free use cooldown active", slog.String("bot_id", d.BotID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Denied("free use available once per 24 hours", d))
		return
	case errors.Is(err, plan.ErrUnknownBot):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("bot not found"))
		return
	case err != nil:
		log.Error("failed to use bot", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not use bot"))
		return
	}

	log.Info("bot used", slog.String("bot_id", d.BotID), slog.String("reason", string(d.Reason)))
	render.JSON(w, r, response.StatusOKWithData(d))
}
