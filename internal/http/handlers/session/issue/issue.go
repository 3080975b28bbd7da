// Package issue реализует HTTP-обработчик выдачи токена нового профиля.
//
// Профиль заменяет браузерный профиль дашборда: клиент получает токен один
// раз и передает его во всех запросах. Пробный период начинается при первом
// обращении к тарифу.
package issue

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Request необязательное имя профиля.
type Request struct {
	Name string `json:"name" validate:"max=64"`
}

// TokenMaker выпускает токен профиля.
type TokenMaker interface {
	GenerateToken(profileID, name string) (string, error)
}

// Handler выдает токены новым профилям.
type Handler struct {
	log      *slog.Logger
	maker    TokenMaker
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, maker TokenMaker) *Handler {
	return &Handler{
		log:      log,
		maker:    maker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать профиль
// @Description Создает новый профиль и возвращает его JWT.
// @Tags Session
// @Accept  json
// @Produce  json
// @Param request body Request false "Имя профиля"
// @Success 200 {object} map[string]any "profile_id и token"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /session [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.issue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
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

	profileID := uuid.NewString()
	token, err := h.maker.GenerateToken(profileID, req.Name)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	log.Info("profile created", slog.String("profile_id", profileID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile_id": profileID,
		"token":      token,
	}))
}
