// Package create реализует HTTP-обработчик создания сценария редактора.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/flowgraph"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Request тело запроса на создание сценария.
type Request struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Service описывает интерфейс бизнес-логики сценариев.
type Service interface {
	Create(ctx context.Context, profileID, name string) (*flowgraph.Graph, error)
}

// Handler создает сценарий.
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
// @Summary Создать сценарий
// @Tags Flows
// @Accept  json
// @Produce  json
// @Param request body Request true "Название сценария"
// @Success 201 {object} flowgraph.Graph "Созданный сценарий"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /flows [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flow.create"
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

	g, err := h.service.Create(r.Context(), profileID, req.Name)
	if err != nil {
		log.Error("failed to create flow", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create flow"))
		return
	}

	log.Info("flow created", slog.String("flow_id", g.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(g))
}
