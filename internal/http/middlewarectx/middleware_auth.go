// Package middlewarectx содержит HTTP middleware сервиса.
//
// JWTMiddleware проверяет JWT токен в заголовке Authorization и в случае
// успеха добавляет в контекст id профиля для дальнейшего использования в
// обработчиках. В случае ошибки возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/botcatalog/internal/http/response"
	"github.com/magabrotheeeer/botcatalog/internal/lib/jwt"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Profile ключ id профиля в контексте.
const Profile Key = "profile_id"

// TokenParser проверяет JWT токен.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.ProfileClaims, error)
}

// ProfileID возвращает id профиля из контекста запроса.
func ProfileID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(Profile).(string)
	return id, ok && id != ""
}

// WithProfileID кладёт id профиля в контекст.
func WithProfileID(ctx context.Context, profileID string) context.Context {
	return context.WithValue(ctx, Profile, profileID)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := parser.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), claims.Subject)))
		})
	}
}
