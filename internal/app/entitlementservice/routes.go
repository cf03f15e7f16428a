// Package entitlementservice предоставляет маршруты для основного приложения.
package entitlementservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/docupress/entitlement-service/internal/http/handlers/admin/grantadmin"
	"github.com/docupress/entitlement-service/internal/http/handlers/auth/login"
	"github.com/docupress/entitlement-service/internal/http/handlers/auth/register"
	"github.com/docupress/entitlement-service/internal/http/handlers/entitlement/status"
	"github.com/docupress/entitlement-service/internal/http/handlers/health"
	"github.com/docupress/entitlement-service/internal/http/handlers/order/ordercreate"
	"github.com/docupress/entitlement-service/internal/http/handlers/payment/paymentverify"
	"github.com/docupress/entitlement-service/internal/http/middlewarectx"
)

// AuthService объединяет контракты аутентификации, которые нужны маршрутам.
type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Service
}

// Services перечисляет бизнес-логику, необходимую маршрутам.
type Services struct {
	Auth        AuthService
	Order       ordercreate.Service
	Payment     paymentverify.Service
	Entitlement status.Service
	Admin       grantadmin.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, services *Services, gatewayPublicKey string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, services.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, services.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(services.Auth, logger))
			r.Post("/orders", ordercreate.New(logger, services.Order, gatewayPublicKey).ServeHTTP)
			r.Post("/payments/verify", paymentverify.New(logger, services.Payment).ServeHTTP)
			r.Get("/entitlement", status.New(logger, services.Entitlement).ServeHTTP)
		})

		// Bootstrap администратора: без JWT, но под жёстким rate limit
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AdminRateLimitMiddleware(logger))
			r.Post("/admin/bootstrap", grantadmin.New(logger, services.Admin).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
