// Package list реализует HTTP-обработчик списка сценариев профиля.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	List(ctx context.Context, profileID string) ([]flowgraph.Graph, error)
}

// Handler возвращает сценарии профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список сценариев
// @Tags Flows
// @Produce  json
// @Success 200 {object} map[string]any "Сценарии, новые первыми"
// @Router /flows [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.list"
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

	flows, err := h.service.List(r.Context(), profileID)
	if err != nil {
		log.Error("failed to list flows", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list flows"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"flows": flows,
		"total": len(flows),
	}))
}
