// Package order реализует выпуск платёжных заказов.
//
// Заказ создаётся в платёжном шлюзе и локально не сохраняется: шлюз владеет
// его состоянием целиком, а пользователь позже предъявляет значения заказа
// при подтверждении оплаты. Для уже премиального пользователя заказ не
// создаётся вовсе.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/docupress/entitlement-service/internal/metrics"
	"github.com/docupress/entitlement-service/internal/models"
	"github.com/docupress/entitlement-service/internal/paymentgateway"
)

// ErrGateway возвращается, когда платёжный шлюз не смог создать заказ.
var ErrGateway = errors.New("payment gateway error")

// ProfileRepository описывает чтение профиля для проверки идемпотентности.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

// GatewayClient описывает клиент платёжного шлюза.
type GatewayClient interface {
	CreateOrder(reqParams paymentgateway.CreateOrderRequest) (*paymentgateway.Order, error)
}

// Result — исход операции создания заказа.
//
// Либо AlreadyPaid=true и Order пуст, либо Order содержит реквизиты
// созданного заказа.
type Result struct {
	AlreadyPaid bool
	Order       *paymentgateway.Order
}

// Service создаёт заказы на оплату постоянного доступа.
type Service struct {
	repo     ProfileRepository
	gateway  GatewayClient
	amount   int64
	currency string
	log      *slog.Logger
}

// New создает новый экземпляр Service с фиксированной ценой апгрейда.
func New(repo ProfileRepository, gateway GatewayClient, amount int64, currency string, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		amount:   amount,
		currency: currency,
		log:      log,
	}
}

// Create выпускает новый заказ для пользователя userUID.
//
// Если профиль уже премиальный, возвращает Result{AlreadyPaid: true} и не
// обращается к шлюзу. Повторные вызовы для неоплаченного профиля каждый раз
// создают новый заказ: брошенный checkout не должен блокировать повторную
// попытку, идемпотентность обеспечивается на шаге подтверждения платежа.
func (s *Service) Create(ctx context.Context, userUID string) (*Result, error) {
	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	if profile.IsPremium {
		return &Result{AlreadyPaid: true}, nil
	}

	req := paymentgateway.CreateOrderRequest{
		Amount:   s.amount,
		Currency: s.currency,
		Receipt:  "rcpt_" + uuid.New().String(),
		Notes: map[string]string{
			"user_uid": userUID,
		},
	}
	gatewayOrder, err := s.gateway.CreateOrder(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	metrics.OrdersCreated.Inc()

	s.log.Info("payment order issued",
		slog.String("user_uid", userUID),
		slog.String("order_id", gatewayOrder.ID),
		slog.Int64("amount", gatewayOrder.Amount),
		slog.String("currency", gatewayOrder.Currency))

	return &Result{Order: gatewayOrder}, nil
}
