// Package botcatalog собирает HTTP-приложение каталога ботов.
package botcatalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация описания API для /docs.
	_ "github.com/magabrotheeeer/botcatalog/docs"

	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/bots/list"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/bots/logs"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/bots/read"
	flowaddnode "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/addnode"
	flowconnect "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/connect"
	flowcreate "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/create"
	flowlist "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/list"
	flowread "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/read"
	flowremovenode "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/removenode"
	flowsave "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/save"
	flowupdatenode "github.com/magabrotheeeer/botcatalog/internal/http/handlers/flow/updatenode"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/health"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/access"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/purchasebot"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/purchasesub"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/reset"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/status"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/plan/use"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/session/issue"
	tgget "github.com/magabrotheeeer/botcatalog/internal/http/handlers/telegram/get"
	tgremove "github.com/magabrotheeeer/botcatalog/internal/http/handlers/telegram/remove"
	tgsave "github.com/magabrotheeeer/botcatalog/internal/http/handlers/telegram/save"
	"github.com/magabrotheeeer/botcatalog/internal/http/middlewarectx"
	"github.com/magabrotheeeer/botcatalog/internal/lib/jwt"
	"github.com/magabrotheeeer/botcatalog/internal/livelog"
	"github.com/magabrotheeeer/botcatalog/internal/services/catalog"
	"github.com/magabrotheeeer/botcatalog/internal/services/flow"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
	"github.com/magabrotheeeer/botcatalog/internal/services/telegram"
)

// Deps зависимости маршрутов.
type Deps struct {
	Logger    *slog.Logger
	Tokens    *jwt.MakerImpl
	Catalog   *catalog.Catalog
	Plans     *plan.Service
	Telegram  *telegram.ConfigService
	Flows     *flow.Service
	Logs      *livelog.Simulator
	Health    health.Checker
	RateLimit float64
	RateBurst int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, d.RateLimit, d.RateBurst))

		// Открытые конечные точки
		r.Post("/session", issue.New(logger, d.Tokens).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, logger))

			r.Get("/bots", list.New(logger, d.Catalog).ServeHTTP)
			r.Get("/bots/{id}", read.New(logger, d.Catalog).ServeHTTP)
			r.With(middlewarectx.BotAccessMiddleware(logger, d.Plans)).
				Get("/bots/{id}/logs", logs.New(logger, d.Logs).ServeHTTP)

			r.Get("/plan", status.New(logger, d.Plans).ServeHTTP)
			r.Delete("/plan", reset.New(logger, d.Plans).ServeHTTP)
			r.Get("/plan/bots/{id}/access", access.New(logger, d.Plans).ServeHTTP)
			r.Post("/plan/bots/{id}/use", use.New(logger, d.Plans).ServeHTTP)
			r.Post("/plan/bots/{id}/purchase", purchasebot.New(logger, d.Plans).ServeHTTP)
			r.Post("/plan/subscription", purchasesub.New(logger, d.Plans).ServeHTTP)

			r.Get("/telegram/config", tgget.New(logger, d.Telegram).ServeHTTP)
			r.Put("/telegram/config", tgsave.New(logger, d.Telegram).ServeHTTP)
			r.Delete("/telegram/config", tgremove.New(logger, d.Telegram).ServeHTTP)

			r.Post("/flows", flowcreate.New(logger, d.Flows).ServeHTTP)
			r.Get("/flows", flowlist.New(logger, d.Flows).ServeHTTP)
			r.Get("/flows/{flowID}", flowread.New(logger, d.Flows).ServeHTTP)
			r.Post("/flows/{flowID}/nodes", flowaddnode.New(logger, d.Flows).ServeHTTP)
			r.Patch("/flows/{flowID}/nodes/{nodeID}", flowupdatenode.New(logger, d.Flows).ServeHTTP)
			r.Delete("/flows/{flowID}/nodes/{nodeID}", flowremovenode.New(logger, d.Flows).ServeHTTP)
			r.Post("/flows/{flowID}/edges", flowconnect.New(logger, d.Flows).ServeHTTP)
			r.Post("/flows/{flowID}/save", flowsave.New(logger, d.Flows).ServeHTTP)
		})
	})

	r.Handle("/health", health.New(logger, d.Health))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// NewRouter создает роутер с зарегистрированными маршрутами.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, d)
	return r
}
