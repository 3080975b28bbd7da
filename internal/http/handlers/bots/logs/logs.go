// Package logs реализует HTTP-обработчик живых логов бота.
package logs

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/livelog"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Source отдает текущие строки логов бота.
type Source interface {
	Logs(botID string) ([]livelog.Entry, error)
}

// Handler возвращает снимок логов.
type Handler struct {
	log    *slog.Logger
	source Source
}

// New создает новый Handler.
func New(log *slog.Logger, source Source) *Handler {
	return &Handler{log: log, source: source}
}

// ServeHTTP godoc
// @Summary Живые логи бота
// @Description Возвращает последние строки логов бота, старые первыми.
// @Tags Bots
// @Produce  json
// @Param id path string true "ID бота"
// @Success 200 {object} map[string]any "Строки логов"
// @Failure 403 {object} response.Response "Бот недоступен по тарифу"
// @Failure 404 {object} response.ErrorResponse "Бот не найден"
// @Router /bots/{id}/logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bots.logs"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	botID := chi.URLParam(r, "id")
	entries, err := h.source.Logs(botID)
	if err != nil {
		if errors.Is(err, livelog.ErrUnknownBot) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bot not found"))
			return
		}
		log.Error("failed to read logs", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read logs"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bot_id": botID,
		"logs":   entries,
	}))
}
