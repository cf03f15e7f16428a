// Package entitlementservice собирает сервис доступа из его составных частей.
package entitlementservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/docupress/entitlement-service/internal/cache"
	"github.com/docupress/entitlement-service/internal/config"
	"github.com/docupress/entitlement-service/internal/lib/jwt"
	"github.com/docupress/entitlement-service/internal/lib/trial"
	"github.com/docupress/entitlement-service/internal/migrations"
	"github.com/docupress/entitlement-service/internal/paymentgateway"
	"github.com/docupress/entitlement-service/internal/rabbitmq"
	adminservice "github.com/docupress/entitlement-service/internal/services/admin"
	authservice "github.com/docupress/entitlement-service/internal/services/auth"
	entitlementsvc "github.com/docupress/entitlement-service/internal/services/entitlement"
	orderservice "github.com/docupress/entitlement-service/internal/services/order"
	paymentservice "github.com/docupress/entitlement-service/internal/services/payment"
	"github.com/docupress/entitlement-service/internal/storage"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	amqp   *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}
	if err = storage.CheckDatabaseReady(db); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	amqpConn, err := rabbitmq.Connect(cfg.RabbitMQURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	amqpChannel, err := rabbitmq.SetupChannel(amqpConn)
	if err != nil {
		return nil, err
	}
	auditPublisher := rabbitmq.NewPublisher(amqpChannel)

	window := trial.NewWindow(cfg.Entitlement.TrialEnd)
	if cfg.Entitlement.TrialEnd == "" || window.End().IsZero() {
		logger.Warn("trial end is not configured, trial window treated as expired")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := paymentgateway.NewClient(cfg.PaymentGateway.KeyID, cfg.PaymentGateway.KeySecret, cfg.PaymentGateway.BaseURL)

	authService := authservice.New(db, jwtMaker)
	orderService := orderservice.New(db, gatewayClient, cfg.PaymentGateway.PriceAmount, cfg.PaymentGateway.PriceCurrency, logger)
	paymentService := paymentservice.New(db, cacheRedis, auditPublisher, cfg.PaymentGateway.SigningSecret, logger)
	entitlementService := entitlementsvc.New(db, cacheRedis, window, logger)
	adminService := adminservice.New(db, cacheRedis, auditPublisher, cfg.Entitlement.AdminPhones, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:        authService,
		Order:       orderService,
		Payment:     paymentService,
		Entitlement: entitlementService,
		Admin:       adminService,
	}, cfg.PaymentGateway.KeyID)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
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
		_ = a.amqp.Close()
		_ = a.db.DB.Close()
		return err
	}
}
