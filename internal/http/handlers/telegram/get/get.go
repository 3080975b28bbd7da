// Package get реализует HTTP-обработчик чтения настроек Telegram API.
//
// Секретные поля маскируются, если не передан параметр reveal=true.
package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/models"
)

// Service описывает интерфейс хранилища настроек Telegram.
type Service interface {
	Get(ctx context.Context, profileID string, reveal bool) (*models.TelegramConfig, error)
}

// Handler возвращает настройки Telegram профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Настройки Telegram API
// @Tags Telegram
// @Produce  json
// @Param reveal query bool false "Показать секреты"
// @Success 200 {object} models.TelegramConfig "Настройки"
// @Failure 400 {object} response.ErrorResponse "Некорректный параметр reveal"
// @Router /telegram/config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.telegram.get"
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

	reveal := false
	if raw := r.URL.Query().Get("reveal"); raw != "" {
		var err error
		reveal, err = strconv.ParseBool(raw)
		if err != nil {
			log.Error("failed to parse reveal", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid reveal parameter"))
			return
		}
	}

	cfg, err := h.service.Get(r.Context(), profileID, reveal)
	if err != nil {
		log.Error("failed to read telegram config", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read telegram config"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(cfg))
}
