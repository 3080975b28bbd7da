// Package purchasesub реализует HTTP-обработчик покупки подписки на все боты.
//
// Повторная покупка заменяет текущую подписку, сроки не суммируются.
package purchasesub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/lib/validation"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
)

// Service описывает интерфейс бизнес-логики тарифа.
type Service interface {
	PurchaseSubscription(ctx context.Context, profileID string, days int) (*models.UserPlan, error)
}

// Handler покупает подписку.
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
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Купить подписку
// @Tags Plan
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscriptionRequest true "Срок подписки в днях"
// @Success 200 {object} models.UserPlan "Обновленный тариф"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Недопустимый срок"
// @Router /plan/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.purchasesub"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscriptionRequest
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

	p, err := h.service.PurchaseSubscription(r.Context(), profileID, req.Days)
	if err != nil {
		if errors.Is(err, plan.ErrInvalidDuration) {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("subscription duration is not allowed"))
			return
		}
		log.Error("failed to purchase subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not purchase subscription"))
		return
	}

	log.Info("subscription purchased", slog.Int("days", req.Days))
	render.JSON(w, r, response.StatusOKWithData(p))
}
