// Package payment реализует проверку завершённого платежа и апгрейд профиля.
//
// Единственный путь, выставляющий is_premium — успешная криптографическая
// проверка подписи платежа. Несовпадение подписи никогда не меняет профиль
// и фиксируется как событие безопасности. Отказ записи после успешной
// проверки — отдельный исход: деньги уже списаны, и операторам нужна сверка.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docupress/entitlement-service/internal/lib/signature"
	"github.com/docupress/entitlement-service/internal/metrics"
	"github.com/docupress/entitlement-service/internal/rabbitmq"
)

var (
	// ErrSignatureMismatch возвращается, когда подпись платежа не прошла проверку.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	// ErrPersistence возвращается, когда платёж проверен, но запись апгрейда
	// не стала долговечной. Повтор запроса с теми же входными данными обязан
	// иметь шанс на успех и не должен трактоваться как подделка подписи.
	ErrPersistence = errors.New("verified payment not persisted")
)

// ProfileRepository описывает условное обновление профиля.
type ProfileRepository interface {
	// MarkPremium выставляет is_premium одним условным UPDATE.
	// Возвращает true, если запись обновлена этим вызовом, и false, если
	// профиль уже был премиальным.
	MarkPremium(ctx context.Context, userUID, paymentID string) (bool, error)
}

// Cache описывает инвалидацию закешированного профиля.
type Cache interface {
	Invalidate(key string) error
}

// AuditPublisher описывает отправку событий аудита.
type AuditPublisher interface {
	PublishAudit(event rabbitmq.AuditEvent) error
}

// Result — исход успешной проверки платежа.
type Result struct {
	IsPremium bool // всегда true при успехе
	Upgraded  bool // false, если профиль уже был премиальным (повторный вызов)
}

// Service проверяет подтверждения платежей.
type Service struct {
	repo          ProfileRepository
	cache         Cache
	audit         AuditPublisher
	signingSecret string
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProfileRepository, cache Cache, audit AuditPublisher, signingSecret string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		cache:         cache,
		audit:         audit,
		signingSecret: signingSecret,
		log:           log,
	}
}

// VerifyAndUpgrade аутентифицирует заявленное завершение платежа и
// долговечно выставляет профилю is_premium.
//
// Ожидаемая подпись — HMAC-SHA256 от "{orderID}|{paymentID}" на серверном
// секрете; сравнение константно по времени. Повторный вызов с теми же
// входными данными после успешного апгрейда — безопасный no-op,
// подтверждающий is_premium=true и не меняющий paid_at.
func (s *Service) VerifyAndUpgrade(ctx context.Context, userUID, orderID, paymentID, providedSignature string) (*Result, error) {
	if !signature.Verify(s.signingSecret, orderID, paymentID, providedSignature) {
		s.log.Error("payment signature mismatch",
			slog.String("user_uid", userUID),
			slog.String("order_id", orderID))
		metrics.PaymentVerifications.WithLabelValues("signature_mismatch").Inc()
		s.publishAudit(rabbitmq.AuditEvent{
			Kind:    rabbitmq.EventSignatureMismatch,
			UserUID: userUID,
			Details: map[string]string{"order_id": orderID},
		})
		return nil, ErrSignatureMismatch
	}

	upgraded, err := s.repo.MarkPremium(ctx, userUID, paymentID)
	if err != nil {
		// Подпись уже доказала платёж: об этом нельзя молчать.
		s.log.Error("verified payment could not be persisted, manual reconciliation required",
			slog.String("user_uid", userUID),
			slog.String("order_id", orderID),
			slog.String("payment_id", paymentID),
			slog.Any("err", err))
		metrics.PaymentVerifications.WithLabelValues("persistence_failure").Inc()
		s.publishAudit(rabbitmq.AuditEvent{
			Kind:    rabbitmq.EventReconciliationRequired,
			UserUID: userUID,
			Details: map[string]string{"order_id": orderID, "payment_id": paymentID},
		})
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if upgraded {
		metrics.PaymentVerifications.WithLabelValues("upgraded").Inc()
		s.log.Info("profile upgraded to premium",
			slog.String("user_uid", userUID),
			slog.String("payment_id", paymentID))
	} else {
		metrics.PaymentVerifications.WithLabelValues("already_premium").Inc()
	}

	cacheKey := fmt.Sprintf("profile:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cached profile", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &Result{IsPremium: true, Upgraded: upgraded}, nil
}

func (s *Service) publishAudit(event rabbitmq.AuditEvent) {
	if err := s.audit.PublishAudit(event); err != nil {
		s.log.Warn("failed to publish audit event", slog.String("kind", event.Kind), slog.Any("err", err))
	}
}
