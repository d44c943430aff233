package contestcreator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/contest-creator/internal/cache"
	"github.com/magabrotheeeer/contest-creator/internal/config"
	"github.com/magabrotheeeer/contest-creator/internal/configstore"
	"github.com/magabrotheeeer/contest-creator/internal/ledger"
	appjwt "github.com/magabrotheeeer/contest-creator/internal/lib/jwt"
	"github.com/magabrotheeeer/contest-creator/internal/migrations"
	"github.com/magabrotheeeer/contest-creator/internal/rabbitmq"
	creatorservice "github.com/magabrotheeeer/contest-creator/internal/services/creator"
	purchasesvc "github.com/magabrotheeeer/contest-creator/internal/services/purchase"
	"github.com/magabrotheeeer/contest-creator/internal/storage/repository"
)

// App хранит зависимости запущенного приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
	registry *purchasesvc.Registry
	sweep    time.Duration
}

// New собирает приложение: хранилище с миграциями, redis-кеш снимков
// конфигурации, брокер событий, леджер-клиент и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	amqpChannel, err := rabbitmq.SetupChannel(amqpConn, cfg.EventsExchange, rabbitmq.DefaultQueues)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(amqpChannel, cfg.EventsExchange)

	ledgerClient := ledger.NewClient(cfg.LedgerBaseURL, cfg.LedgerAPIKey, cfg.LedgerTimeout)

	configStore := configstore.New(db, cacheRedis, logger, cfg.SnapshotTTL)
	registry := purchasesvc.NewRegistry(ledgerClient, db, publisher, logger,
		cfg.SessionTTL, cfg.SessionRetention)
	creatorService := creatorservice.New(configStore, registry, logger)

	jwtMaker := appjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, creatorService, registry, ledgerClient, db, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
		registry: registry,
		sweep:    cfg.SweepInterval,
	}, nil
}

// Run запускает фоновую уборку сессий и HTTP-сервер, останавливая их
// при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	go a.registry.Run(ctx, a.sweep)

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
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.amqpConn.Close(); cerr != nil {
			a.logger.Error("failed to close amqp connection", slog.Any("err", cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Error("failed to close database", slog.Any("err", cerr))
		}
		return err
	}
}
