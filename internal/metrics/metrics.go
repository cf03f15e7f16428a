// Package metrics определяет prometheus-счётчики подсистемы доступа.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersCreated — число заказов, созданных в платёжном шлюзе.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entitlement_orders_created_total",
		Help: "Number of payment orders issued at the gateway.",
	})

	// PaymentVerifications — исходы проверки платежей по метке result:
	// upgraded, already_premium, signature_mismatch, persistence_failure.
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlement_payment_verifications_total",
		Help: "Payment verification outcomes.",
	}, []string{"result"})

	// AdminGrants — исходы bootstrap-а администратора по метке result:
	// granted, forbidden.
	AdminGrants = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlement_admin_grants_total",
		Help: "Admin bootstrap outcomes.",
	}, []string{"result"})
)
