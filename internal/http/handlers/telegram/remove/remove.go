// Package remove реализует HTTP-обработчик удаления настроек Telegram API.
package remove

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

// Service описывает интерфейс хранилища настроек Telegram.
type Service interface {
	Clear(ctx context.Context, profileID string) (bool, error)
}

// Handler удаляет настройки Telegram профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить настройки Telegram API
// @Tags Telegram
// @Produce  json
// @Success 200 {object} map[string]any "deleted: были ли настройки"
// @Router /telegram/config [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.remove"
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

	deleted, err := h.service.Clear(r.Context(), profileID)
	if err != nil {
		log.Error("failed to clear telegram config", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear telegram config"))
		return
	}

	log.Info("telegram config cleared", slog.Bool("deleted", deleted))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted": deleted,
	}))
}
