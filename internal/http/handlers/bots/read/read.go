// Package read реализует HTTP-обработчик получения бота по ID.
package read

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/services/catalog"
)

// Catalog источник ботов.
type Catalog interface {
	Get(id string) (models.Bot, error)
}

// Handler возвращает одного бота.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Бот по ID
// @Tags Bots
// @Produce  json
// @Param id path string true "ID бота"
// @Success 200 {object} map[string]any "Бот"
// @Failure 404 {object} response.ErrorResponse "Бот не найден"
// @Router /bots/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bots.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bot, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrBotNotFound) {
			log.Info("bot not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("bot not found"))
			return
		}
		log.Error("failed to read bot", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read bot"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bot": bot,
	}))
}
