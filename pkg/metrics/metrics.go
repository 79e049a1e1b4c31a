package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	ActionCreated = "created"
	ActionUpdated = "updated"
)

var (
	calendarSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_calendar_syncs_total",
		Help: "Calendar imports by source and outcome",
	}, []string{"source", "outcome"})

	calendarSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staybook_calendar_sync_duration_seconds",
		Help:    "Duration of a single calendar import including the feed fetch",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"source"})

	blockedDatesSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_blocked_dates_synced_total",
		Help: "Blocked dates written by calendar imports",
	}, []string{"source", "action"})

	syncEventErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_calendar_sync_event_errors_total",
		Help: "Feed events that could not be imported",
	}, []string{"source"})

	bookingOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_booking_operations_total",
		Help: "Booking writes by operation and outcome",
	}, []string{"operation", "outcome"})

	kafkaMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_kafka_messages_total",
		Help: "Kafka messages produced or consumed",
	}, []string{"topic", "direction", "outcome"})

	kafkaLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staybook_kafka_message_duration_seconds",
		Help:    "Time spent producing or handling a Kafka message",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic", "direction"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staybook_http_requests_total",
		Help: "HTTP requests by method and status code",
	}, []string{"method", "code"})
)

func ObserveCalendarSync(source string, success bool, created, updated, eventErrors int, took time.Duration) {
	calendarSyncs.WithLabelValues(source, outcome(success)).Inc()
	calendarSyncDuration.WithLabelValues(source).Observe(took.Seconds())
	if created > 0 {
		blockedDatesSynced.WithLabelValues(source, ActionCreated).Add(float64(created))
	}
	if updated > 0 {
		blockedDatesSynced.WithLabelValues(source, ActionUpdated).Add(float64(updated))
	}
	if eventErrors > 0 {
		syncEventErrors.WithLabelValues(source).Add(float64(eventErrors))
	}
}

func ObserveBooking(operation string, err error) {
	bookingOperations.WithLabelValues(operation, outcome(err == nil)).Inc()
}

func ObserveKafka(topic, direction string, err error, took time.Duration) {
	kafkaMessages.WithLabelValues(topic, direction, outcome(err == nil)).Inc()
	kafkaLatency.WithLabelValues(topic, direction).Observe(took.Seconds())
}

func ObserveHTTP(method string, status int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
