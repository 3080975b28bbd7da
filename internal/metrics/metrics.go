// Package metrics регистрирует метрики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/botcatalog/internal/models"
)

var (
	accessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "botcatalog",
		Name:      "access_decisions_total",
		Help:      "Bot access checks by decision reason.",
	}, []string{"reason", "allowed"})

	purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "botcatalog",
		Name:      "purchases_total",
		Help:      "Lifetime bot purchases and subscriptions.",
	}, []string{"kind"})

	flowSaves = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "botcatalog",
		Name:      "flow_saves_total",
		Help:      "Saved automation flows.",
	})
)

// ObserveDecision учитывает результат проверки доступа.
func ObserveDecision(d models.Decision) {
	allowed := "false"
	if d.Allowed {
		allowed = "true"
	}
	accessDecisions.WithLabelValues(string(d.Reason), allowed).Inc()
}

// ObservePurchase учитывает покупку. kind: "bot" или тип подписки ("30d").
func ObservePurchase(kind string) {
	purchases.WithLabelValues(kind).Inc()
}

// ObserveFlowSave учитывает сохранение сценария.
func ObserveFlowSave() {
	flowSaves.Inc()
}
