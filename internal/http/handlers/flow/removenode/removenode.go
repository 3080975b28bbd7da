// Package removenode реализует HTTP-обработчик удаления узла вместе с его связями.
package removenode

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
	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/services/flow"
)

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	RemoveNode(ctx context.Context, profileID, flowID, nodeID string) error
}

// Handler удаляет узел.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить узел
// @Tags Flows
// @Produce  json
// @Param flowID path string true "ID сценария"
// @Param nodeID path string true "ID узла"
// @Success 200 {object} map[string]any "Узел удален"
// @Failure 404 {object} response.ErrorResponse "Сценарий или узел не найден"
// @Router /flows/{flowID}/nodes/{nodeID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.removenode"
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

	nodeID := chi.URLParam(r, "nodeID")
	err := h.service.RemoveNode(r.Context(), profileID, chi.URLParam(r, "flowID"), nodeID)
	switch {
	case errors.Is(err, flow.ErrFlowNotFound), errors.Is(err, flowgraph.ErrNodeNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to remove node", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove node"))
		return
	}

	log.Info("node removed", slog.String("node_id", nodeID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed_id": nodeID,
	}))
}
