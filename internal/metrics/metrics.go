// Package metrics содержит prometheus-метрики сервиса создания конкурсов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal счётчик запросов на покупку конкурса по результату:
	// ok, rejected (валидация), error.
	PurchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contest_purchases_total",
		Help: "Contest purchase requests by result.",
	}, []string{"result"})

	// PaymentsTotal счётчик попыток оплаты по результату.
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contest_payments_total",
		Help: "Payment verification attempts by result.",
	}, []string{"result"})

	// ActiveSessions число сессий покупки в реестре.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "contest_active_sessions",
		Help: "Purchase sessions currently held by the registry.",
	})
)
