package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/models"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
)

// AccessChecker решает, доступен ли бот профилю.
type AccessChecker interface {
	CanUseBot(ctx context.Context, profileID, botID string) (models.Decision, error)
}

// BotAccessMiddleware пропускает запрос, только если бот из параметра {id}
// доступен профилю. Бесплатное использование не расходуется.
func BotAccessMiddleware(log *slog.Logger, checker AccessChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID, ok := ProfileID(r.Context())
			if !ok {
				log.Error("profile identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("profile identification missing"))
				return
			}

			decision, err := checker.CanUseBot(r.Context(), profileID, chi.URLParam(r, "id"))
			if err != nil {
				if errors.Is(err, plan.ErrUnknownBot) {
					render.Status(r, http.StatusNotFound)
					render.JSON(w, r, response.Error("bot not found"))
					return
				}
				log.Error("failed to check bot access", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !decision.Allowed {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Denied("access denied, free use available after cooldown", decision))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
