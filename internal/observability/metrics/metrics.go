package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leave_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	leaveTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_lifecycle_transitions_total",
		Help: "Leave request lifecycle operations by operation and resulting status",
	}, []string{"operation", "status"})

	leaveConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_conflicts_detected_total",
		Help: "Advisory conflicts reported at submission, by kind",
	}, []string{"kind"})

	holidaySyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_holiday_sync_total",
		Help: "Holiday provider syncs by country and result",
	}, []string{"country", "result"})

	holidaysIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_holidays_ingested_total",
		Help: "Holiday rows upserted by country",
	}, []string{"country"})

	balanceCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_balance_cache_total",
		Help: "PTO balance cache lookups by result",
	}, []string{"result"})

	outboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_outbox_published_total",
		Help: "Outbox events handed to the broker by result",
	}, []string{"result"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leave_notifications_total",
		Help: "Notifications sent to the chat sink by kind and result",
	}, []string{"kind", "result"})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveTransition counts a successful submit/decide/cancel.
func ObserveTransition(operation, status string) {
	leaveTransitions.WithLabelValues(operation, status).Inc()
}

func ObserveConflicts(kind string, count int) {
	if count <= 0 {
		return
	}
	leaveConflicts.WithLabelValues(kind).Add(float64(count))
}

func ObserveHolidaySync(country, result string) {
	holidaySyncs.WithLabelValues(country, result).Inc()
}

func ObserveHolidaysIngested(country string, count int) {
	holidaysIngested.WithLabelValues(country).Add(float64(count))
}

func ObserveBalanceCache(hit bool) {
	if hit {
		balanceCache.WithLabelValues("hit").Inc()
		return
	}
	balanceCache.WithLabelValues("miss").Inc()
}

func ObserveOutboxPublish(result string, count int) {
	outboxPublished.WithLabelValues(result).Add(float64(count))
}

func ObserveNotification(kind, result string) {
	notificationsSent.WithLabelValues(kind, result).Inc()
}
