// Package reset реализует HTTP-обработчик сброса тарифа профиля.
package reset

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики тарифов.
type Service interface {
	Reset(ctx context.Context, profileID string) (bool, error)
}

// Handler удаляет тариф профиля. Следующий запрос начнёт пробный период заново.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сбросить тариф
// @Tags Plan
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "deleted: был ли тариф"
// @Router /plan [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.reset"
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

	deleted, err := h.service.Reset(r.Context(), profileID)
	if err != nil {
		log.Error("failed to reset plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reset plan"))
		return
	}

	log.Info("plan reset", slog.Bool("deleted", deleted))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": deleted,
	}))
}
