package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics содержит счётчики HTTP, модерации и уведомлений.
// Все методы безопасно вызывать на nil-получателе.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	ModerationTransitions *prometheus.CounterVec
	NotificationsFailed   *prometheus.CounterVec
	NotificationsSent     *prometheus.CounterVec
	WSConnectionsActive   prometheus.Gauge
}

// New регистрирует метрики в reg. В тестах передаётся свежий prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pata_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pata_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		ModerationTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pata_moderation_transitions_total",
			Help: "Listing state transitions by action",
		}, []string{"action"}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pata_notifications_failed_total",
			Help: "Best-effort notifications that failed to deliver",
		}, []string{"channel"}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pata_notifications_sent_total",
			Help: "Notifications delivered",
		}, []string{"channel"}),
		WSConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pata_ws_connections_active",
			Help: "Open websocket connections",
		}),
	}
}

// ObserveHTTP записывает результат HTTP-запроса.
func (m *Metrics) ObserveHTTP(method, route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// IncTransition учитывает переход состояния публикации (create, approve, reject, adopt, found).
func (m *Metrics) IncTransition(action string) {
	if m == nil {
		return
	}
	m.ModerationTransitions.WithLabelValues(action).Inc()
}

// IncNotificationFailed учитывает неудачную доставку (mail, ws).
func (m *Metrics) IncNotificationFailed(channel string) {
	if m == nil {
		return
	}
	m.NotificationsFailed.WithLabelValues(channel).Inc()
}

// IncNotificationSent учитывает успешную доставку.
func (m *Metrics) IncNotificationSent(channel string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(channel).Inc()
}

// WSConnected изменяет число активных websocket-соединений на delta.
func (m *Metrics) WSConnected(delta float64) {
	if m == nil {
		return
	}
	m.WSConnectionsActive.Add(delta)
}
