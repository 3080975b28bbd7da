// Package access реализует HTTP-обработчик проверки доступа к боту.
//
// Проверка не расходует бесплатное использование.
package access

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
	CanUseBot(ctx context.Context, profileID, botID string) (models.Decision, error)
}

// Handler возвращает решение о доступе.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Доступ к боту
// @Description Решение о доступе к боту и его причина: purchased, subscription, trial, wait-24h, free-24h.
// @Tags Plan
// @Produce  json
// @Param id path string true "ID бота"
// @Success 200 {object} models.Decision "Решение"
// @Failure 404 {object} response.ErrorResponse "Бот не найден"
// @Router /plan/bots/{id}/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.access"
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

	d, err := h.service.CanUseBot(r.Context(), profileID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, plan.ErrUnknownBot) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bot not found"))
			return
		}
		log.Error("failed to check access", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check access"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(d))
}
