// Package connect реализует HTTP-обработчик создания связи между узлами.
//
// Циклы и совместимость типов узлов не проверяются.
package connect

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

// Request тело запроса на создание связи.
type Request struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	Connect(ctx context.Context, profileID, flowID, source, target string) (flowgraph.Edge, error)
}

// Handler создает связь.
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
// @Summary Соединить узлы
// @Tags Flows
// @Accept  json
// @Produce  json
// @Param flowID path string true "ID сценария"
// @Param request body Request true "Источник и цель"
// @Success 200 {object} flowgraph.Edge "Связь"
// @Failure 404 {object} response.ErrorResponse "Сценарий или узел не найден"
// @Router /flows/{flowID}/edges [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.connect"
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

	e, err := h.service.Connect(r.Context(), profileID, chi.URLParam(r, "flowID"), req.Source, req.Target)
	switch {
	case errors.Is(err, flow.ErrFlowNotFound), errors.Is(err, flowgraph.ErrNodeNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to connect nodes", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not connect nodes"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(e))
}
