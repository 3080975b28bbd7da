// Package addnode реализует HTTP-обработчик добавления узла в сценарий.
//
// Узел получает новый id и конфигурацию по умолчанию для своего типа.
package addnode

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

// Request тело запроса на добавление узла.
type Request struct {
	Type     string             `json:"type" validate:"required,oneof=trigger message delay condition action"`
	Label    string             `json:"label" validate:"max=100"`
	Position flowgraph.Position `json:"position"`
}

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	AddNode(ctx context.Context, profileID, flowID string, t flowgraph.NodeType, label string, pos flowgraph.Position) (flowgraph.Node, error)
}

// Handler добавляет узел.
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
// @Summary Добавить узел
// @Tags Flows
// @Accept  json
// @Produce  json
// @Param flowID path string true "ID сценария"
// @Param request body Request true "Тип, метка и позиция узла"
// @Success 201 {object} flowgraph.Node "Созданный узел"
// @Failure 404 {object} response.ErrorResponse "Сценарий не найден"
// @Failure 422 {object} response.ErrorResponse "Неизвестный тип узла"
// @Router /flows/{flowID}/nodes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.addnode"
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

	n, err := h.service.AddNode(r.Context(), profileID, chi.URLParam(r, "flowID"),
		flowgraph.NodeType(req.Type), req.Label, req.Position)
	switch {
	case errors.Is(err, flow.ErrFlowNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("flow not found"))
		return
	case errors.Is(err, flowgraph.ErrUnknownNodeType):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to add node", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add node"))
		return
	}

	log.Info("node added", slog.String("node_id", n.ID), slog.String("type", string(n.Type)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(n))
}
