// Package auth содержит логику бизнес-уровня для работы с учётными записями и аутентификацией.
package auth

import (
	"context"
	"errors"

	"github.com/docupress/entitlement-service/internal/lib/jwt"
	"github.com/docupress/entitlement-service/internal/lib/password"
	"github.com/docupress/entitlement-service/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ProfileRepository описывает контракт для работы с профилями в базе данных.
type ProfileRepository interface {
	// RegisterProfile сохраняет новый профиль и возвращает его UID.
	RegisterProfile(ctx context.Context, profile models.Profile) (string, error)

	// GetProfileByUsername возвращает профиль по имени или ошибку, если не найден.
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	profiles ProfileRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(profiles ProfileRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		profiles: profiles,
		jwtMaker: jwtMaker,
	}
}

// Register создает новый профиль с хэшированием пароля.
//
// Поля доступа (is_premium, is_admin) остаются в значениях по умолчанию:
// апгрейд идёт только через проверку платежа, права администратора —
// только через bootstrap guard.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	profile := models.Profile{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	}
	return s.profiles.RegisterProfile(ctx, profile)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (string, error) {
	profile, err := s.profiles.GetProfileByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(profile.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(profile.Username, profile.UID)
}

// ValidateToken проверяет JWT и возвращает username и uid пользователя.
func (s *Service) ValidateToken(_ context.Context, token string) (username, userUID string, err error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", "", err
	}
	return claims.Username, claims.UserUID, nil
}
