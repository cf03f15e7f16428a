// Package models содержит доменную модель профиля пользователя сервиса,
// включающую данные учётной записи и поля доступа к платным функциям.
// Структура используется в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Profile представляет зарегистрированного пользователя продукта.
//
// IsPremium монотонен: после успешной проверки платежа флаг выставляется
// в true и этой подсистемой никогда не сбрасывается. PaymentID и PaidAt
// заполняются только вместе с IsPremium.
type Profile struct {
	UID          string     // Уникальный идентификатор пользователя
	Username     string     // Имя пользователя (уникальное)
	Email        string     // Электронная почта
	PasswordHash string     // Хэш пароля пользователя
	IsPremium    bool       // Признак постоянного платного доступа
	PaymentID    *string    // Идентификатор подтверждённого платежа
	PaidAt       *time.Time // Момент подтверждения платежа
	IsAdmin      bool       // Признак административных прав
	CreatedAt    time.Time
}
