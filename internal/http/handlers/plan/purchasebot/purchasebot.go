// Package purchasebot реализует HTTP-обработчик покупки бота навсегда.
//
// Оплата не проводится: покупка сразу добавляет бота в активные планы.
package purchasebot

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
	PurchaseBot(ctx context.Context, profileID, botID string) (*models.UserPlan, error)
}

// Handler покупает бота.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Купить бота навсегда
// @Tags Plan
// @Produce  json
// @Param id path string true "ID бота"
// @Success 200 {object} models.UserPlan "Обновленный тариф"
// @Failure 404 {object} response.ErrorResponse "Бот не найден"
// @Router /plan/bots/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.purchasebot"
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

	botID := chi.URLParam(r, "id")
	p, err := h.service.PurchaseBot(r.Context(), profileID, botID)
	if err != nil {
		if errors.Is(err, plan.ErrUnknownBot) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bot not found"))
			return
		}
		log.Error("failed to purchase bot", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not purchase bot"))
		return
	}

	log.Info("bot purchased", slog.String("bot_id", botID))
	render.JSON(w, r, response.StatusOKWithData(p))
}
