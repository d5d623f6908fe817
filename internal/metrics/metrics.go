// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthEvents считает операции аутентификации по виду и исходу.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskflow",
		Name:      "auth_events_total",
		Help:      "Authentication operations by event and outcome.",
	}, []string{"event", "outcome"})

	// NotificationsSent считает попытки доставки кода по транспорту и исходу.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskflow",
		Name:      "notifications_total",
		Help:      "Verification code deliveries by transport and outcome.",
	}, []string{"transport", "outcome"})

	// TaskCacheRequests считает обращения к кешу списков задач.
	TaskCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskflow",
		Name:      "task_cache_requests_total",
		Help:      "Task list cache lookups by result.",
	}, []string{"result"})

	// HTTPRequests считает HTTP-запросы по шаблону маршрута, методу и коду ответа.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskflow",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	// HTTPDuration распределение времени обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskflow",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)
