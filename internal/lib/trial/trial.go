// Package trial реализует глобальное пробное окно продукта.
//
// Окно задаётся единственной датой окончания, прочитанной из конфига при
// старте процесса. Значение неизменяемо после загрузки, поэтому методы
// безопасны для любого числа конкурентных вызовов без синхронизации.
package trial

import "time"

// Window описывает пробный период (-inf, end).
type Window struct {
	end time.Time
}

// NewWindow создаёт окно из строки в формате RFC3339.
//
// Пустая или некорректная строка даёт нулевую дату окончания, то есть уже
// истекшее окно: отсутствие конфигурации закрывает доступ, а не открывает.
func NewWindow(trialEnd string) Window {
	if trialEnd == "" {
		return Window{}
	}
	end, err := time.Parse(time.RFC3339, trialEnd)
	if err != nil {
		return Window{}
	}
	return Window{end: end}
}

// End возвращает момент окончания пробного периода.
func (w Window) End() time.Time {
	return w.end
}

// Active сообщает, действует ли пробный период прямо сейчас.
func (w Window) Active() bool {
	return w.ActiveAt(time.Now())
}

// ActiveAt сообщает, действует ли пробный период в момент t.
func (w Window) ActiveAt(t time.Time) bool {
	return t.Before(w.end)
}

// Remaining возвращает время до окончания пробного периода.
func (w Window) Remaining() time.Duration {
	return w.RemainingAt(time.Now())
}

// RemainingAt возвращает время от t до окончания пробного периода,
// ноль — если период уже истёк.
func (w Window) RemainingAt(t time.Time) time.Duration {
	if !t.Before(w.end) {
		return 0
	}
	return w.end.Sub(t)
}
