// Package entitlement объединяет пробное окно и флаг оплаченного доступа
// в единое решение о доступе к платным функциям.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docupress/entitlement-service/internal/lib/trial"
	"github.com/docupress/entitlement-service/internal/models"
)

// ProfileRepository описывает чтение профиля из хранилища.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

// Cache описывает методы для кэширования профилей.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// Status — ответ на проверку доступа пользователя.
type Status struct {
	Entitled       bool  `json:"entitled"`
	IsPremium      bool  `json:"is_premium"`
	TrialActive    bool  `json:"trial_active"`
	TrialRemaining int64 `json:"trial_remaining_seconds"`
}

// Service вычисляет решение о доступе.
type Service struct {
	repo   ProfileRepository
	cache  Cache
	window trial.Window
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProfileRepository, cache Cache, window trial.Window, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		window: window,
		log:    log,
	}
}

// IsEntitled — чистая функция решения о доступе в момент now.
//
// Пользователь имеет доступ, если профиль премиальный либо пробное окно
// ещё действует. Решение вычисляется заново при каждом обращении: граница
// пробного периода сдвигается вместе с часами.
func IsEntitled(profile *models.Profile, window trial.Window, now time.Time) bool {
	return profile.IsPremium || window.ActiveAt(now)
}

// Status возвращает развёрнутое решение о доступе для пользователя userUID.
//
// Профиль читается через кеш (инвалидируемый при апгрейде и выдаче прав);
// пробная составляющая всегда пересчитывается от текущего времени.
func (s *Service) Status(ctx context.Context, userUID string) (*Status, error) {
	profile, err := s.profile(ctx, userUID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Status{
		Entitled:       IsEntitled(profile, s.window, now),
		IsPremium:      profile.IsPremium,
		TrialActive:    s.window.ActiveAt(now),
		TrialRemaining: int64(s.window.RemainingAt(now).Seconds()),
	}, nil
}

func (s *Service) profile(ctx context.Context, userUID string) (*models.Profile, error) {
	var cached *models.Profile
	cacheKey := fmt.Sprintf("profile:%s", userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}
	if err != nil {
		s.log.Warn("failed to read cached profile", slog.String("key", cacheKey), slog.Any("err", err))
	}

	profile, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, profile, time.Hour); err != nil {
		s.log.Warn("failed to cache profile", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return profile, nil
}
