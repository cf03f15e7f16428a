// Package signature реализует подпись и проверку подтверждения платежа.
//
// Шлюз подписывает пару (orderID, paymentID) кодом HMAC-SHA256 на общем
// секрете; клиент лишь передаёт подпись дальше. Проверка на стороне сервера
// доказывает, что сообщение о завершении платежа исходит от шлюза, а не
// подделано клиентом.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute возвращает hex-представление HMAC-SHA256 от строки
// "{orderID}|{paymentID}" на ключе secret.
func Compute(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify сравнивает переданную подпись с ожидаемой.
//
// Сравнение выполняется через hmac.Equal, чтобы время проверки не зависело
// от числа совпавших байт префикса.
func Verify(secret, orderID, paymentID, provided string) bool {
	expected := Compute(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
