// Package save реализует HTTP-обработчик сохранения сценария.
package save

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
	Save(ctx context.Context, profileID, flowID string) (*flowgraph.Graph, error)
}

// Handler сохраняет сценарий.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сохранить сценарий
// @Tags Flows
// @Produce  json
// @Param flowID path string true "ID сценария"
// @Success 200 {object} flowgraph.Graph "Сохраненный сценарий"
// @Failure 404 {object} response.ErrorResponse "Сценарий не найден"
// @Router /flows/{flowID}/save [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.save"
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

	g, err := h.service.Save(r.Context(), profileID, chi.URLParam(r, "flowID"))
	if err != nil {
		if errors.Is(err, flow.ErrFlowNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("flow not found"))
			return
		}
		log.Error("failed to save flow", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save flow"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(g))
}
