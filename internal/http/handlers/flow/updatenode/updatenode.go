// Package updatenode реализует HTTP-обработчик изменения конфигурации узла.
//
// Принимаются только ключи из схемы типа узла, остальные ключи конфигурации
// сохраняются.
package updatenode

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/services/flow"
)

// Request тело запроса на изменение конфигурации.
type Request struct {
	Config map[string]any `json:"config" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	UpdateNodeConfig(ctx context.Context, profileID, flowID, nodeID string, config map[string]any) (flowgraph.Node, error)
}

// Handler обновляет конфигурацию узла.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить конфигурацию узла
// @Tags Flows
// @Accept  json
// @Produce  json
// @Param flowID path string true "ID сценария"
// @Param nodeID path string true "ID узла"
// @Param request body Request true "Новые значения ключей"
// @Success 200 {object} flowgraph.Node "Обновленный узел"
// @Failure 404 {object} response.ErrorResponse "Сценарий или узел не найден"
// @Failure 422 {object} response.ErrorResponse "Ключ не из схемы типа узла"
// @Router /flows/{flowID}/nodes/{nodeID} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.updatenode"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	profileID, ok := middlewarectx.ProfileID(r.Context())
	if !ok {
		log.Error("profile id not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	n, err := h.service.UpdateNodeConfig(r.Context(), profileID,
		chi.URLParam(r, "flowID"), chi.URLParam(r, "nodeID"), req.Config)
	switch {
	case errors.Is(err, flow.ErrFlowNotFound), errors.Is(err, flowgraph.ErrNodeNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, flowgraph.ErrUnknownConfigKey):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to update node", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update node"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(n))
}
