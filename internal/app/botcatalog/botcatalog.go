package botcatalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/botcatalog/internal/cache"
	"github.com/magabrotheeeer/botcatalog/internal/config"
	"github.com/magabrotheeeer/botcatalog/internal/http/handlers/health"
	"github.com/magabrotheeeer/botcatalog/internal/lib/gate"
	"github.com/magabrotheeeer/botcatalog/internal/lib/jwt"
	"github.com/magabrotheeeer/botcatalog/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/botcatalog/internal/lib/secret"
	"github.com/magabrotheeeer/botcatalog/internal/lib/sl"
	"github.com/magabrotheeeer/botcatalog/internal/lib/statestore"
	"github.com/magabrotheeeer/botcatalog/internal/livelog"
	"github.com/magabrotheeeer/botcatalog/internal/migrations"
	"github.com/magabrotheeeer/botcatalog/internal/services/catalog"
	"github.com/magabrotheeeer/botcatalog/internal/services/flow"
	"github.com/magabrotheeeer/botcatalog/internal/services/plan"
	"github.com/magabrotheeeer/botcatalog/internal/services/telegram"
	"github.com/magabrotheeeer/botcatalog/internal/storage"
)

// App HTTP-сервер со всеми зависимостями.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	simulator *livelog.Simulator
	closers   []func() error
}

// New подключает хранилище, кеш и брокер и собирает сервер. Пустые адреса
// Postgres, Redis и RabbitMQ заменяются хранилищем в памяти, кешем-заглушкой
// и отключенной публикацией событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.botcatalog.New"
	a := &App{logger: logger}

	repo, checker, err := a.initStorage(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stateCache statestore.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, redisCache.Close)
		stateCache = redisCache
	} else {
		logger.Warn("redis address is empty, cache disabled")
	}
	store := statestore.New(repo, stateCache, cfg.CacheTTL, logger)

	planOpts := []plan.Option{}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		a.closers = append(a.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQExchange, rabbitmq.PlanEventQueues())
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		planOpts = append(planOpts, plan.WithPublisher(rabbitmq.NewPublisher(ch, cfg.RabbitMQExchange)))
	} else {
		logger.Warn("rabbitmq url is empty, plan events are not published")
	}

	sealer, err := newSealer(cfg.SealKey, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cat := catalog.New()
	policy := gate.Policy{
		TrialDuration:    cfg.TrialDuration,
		FreeCooldown:     cfg.FreeCooldown,
		SubscriptionDays: cfg.SubscriptionDuration,
	}
	a.simulator = livelog.NewSimulator(cat.IDs(), cfg.Capacity, cfg.Interval, logger)

	router := NewRouter(Deps{
		Logger:    logger,
		Tokens:    jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Catalog:   cat,
		Plans:     plan.NewService(store, cat, policy, logger, planOpts...),
		Telegram:  telegram.NewConfigService(store, sealer, logger),
		Flows:     flow.NewService(store, logger),
		Logs:      a.simulator,
		Health:    checker,
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) initStorage(cfg *config.Config) (statestore.Repository, health.Checker, error) {
	if cfg.StorageConnectionString == "" {
		a.logger.Warn("storage connection string is empty, state is kept in memory")
		return storage.NewMemory(), nil, nil
	}

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, db.Close)

	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("migrations applied", slog.Uint64("version", uint64(version)))
	return db, db, nil
}

func newSealer(key string, logger *slog.Logger) (*secret.Sealer, error) {
	if key == "" {
		logger.Warn("seal key is empty, generated a temporary one; stored telegram secrets will not survive a restart")
		generated, err := secret.GenerateKey()
		if err != nil {
			return nil, err
		}
		key = generated
	}
	return secret.NewSealer(key)
}

// Run запускает генератор логов и HTTP-сервер до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	simCtx, stopSim := context.WithCancel(ctx)
	defer stopSim()
	go a.simulator.Run(simCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

// close освобождает ресурсы в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}
