// Package list реализует HTTP-обработчик списка ботов каталога.
package list

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/models"
)

// Catalog источник ботов.
type Catalog interface {
	List() []models.Bot
}

// Handler возвращает ботов каталога.
type Handler struct {
	log     *slog.Logger
	catalog Catalog
}

// New создает новый Handler.
func New(log *slog.Logger, catalog Catalog) *Handler {
	return &Handler{log: log, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Список ботов
// @Description Возвращает каталог ботов, опционально отфильтрованный по категории.
// @Tags Bots
// @Produce  json
// @Param category query string false "Категория"
// @Success 200 {object} map[string]any "Список ботов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /bots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bots.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bots := h.catalog.List()
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := bots[:0]
		for _, b := range bots {
			if b.Category == category {
				filtered = append(filtered, b)
			}
		}
		bots = filtered
	}

	log.Debug("bots listed", slog.Int("count", len(bots)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"bots":  bots,
		"total": len(bots),
	}))
}
