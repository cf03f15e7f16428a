// Package admin реализует одноразовую выдачу административных прав.
//
// Операция закрыта списком заранее зарегистрированных телефонов
// супер-администраторов из конфига: совпадение телефона — единственное
// условие выдачи. Любой вызов фиксируется в логе и в очереди аудита.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docupress/entitlement-service/internal/metrics"
	"github.com/docupress/entitlement-service/internal/rabbitmq"
)

// ErrPhoneNotAllowed возвращается, когда телефон не входит в список
// разрешённых: вызывающий опознан, но действие ему не разрешено.
var ErrPhoneNotAllowed = errors.New("phone is not on the admin allowlist")

// ProfileRepository описывает выставление признака администратора.
type ProfileRepository interface {
	SetAdmin(ctx context.Context, userUID string) error
}

// Cache описывает инвалидацию закешированного профиля.
type Cache interface {
	Invalidate(key string) error
}

// AuditPublisher описывает отправку событий аудита.
type AuditPublisher interface {
	PublishAudit(event rabbitmq.AuditEvent) error
}

// Service выдаёт административные права по списку телефонов.
type Service struct {
	repo          ProfileRepository
	cache         Cache
	audit         AuditPublisher
	allowedPhones map[string]struct{}
	log           *slog.Logger
}

// New создает новый экземпляр Service с допустимыми телефонами из конфига.
func New(repo ProfileRepository, cache Cache, audit AuditPublisher, allowedPhones []string, log *slog.Logger) *Service {
	allowed := make(map[string]struct{}, len(allowedPhones))
	for _, phone := range allowedPhones {
		allowed[phone] = struct{}{}
	}
	return &Service{
		repo:          repo,
		cache:         cache,
		audit:         audit,
		allowedPhones: allowed,
		log:           log,
	}
}

// Grant выставляет is_admin профилю userUID, если claimedPhone входит в
// список разрешённых. Несовпадение телефона никогда не меняет профиль.
func (s *Service) Grant(ctx context.Context, userUID, claimedPhone string) error {
	if _, ok := s.allowedPhones[claimedPhone]; !ok {
		s.log.Error("admin bootstrap rejected: phone not on allowlist",
			slog.String("user_uid", userUID))
		metrics.AdminGrants.WithLabelValues("forbidden").Inc()
		return ErrPhoneNotAllowed
	}

	if err := s.repo.SetAdmin(ctx, userUID); err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	metrics.AdminGrants.WithLabelValues("granted").Inc()

	cacheKey := fmt.Sprintf("profile:%s", userUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cached profile", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.log.Info("admin rights granted", slog.String("user_uid", userUID))
	if err := s.audit.PublishAudit(rabbitmq.AuditEvent{
		Kind:    rabbitmq.EventAdminGranted,
		UserUID: userUID,
	}); err != nil {
		s.log.Warn("failed to publish audit event", slog.Any("err", err))
	}
	return nil
}
