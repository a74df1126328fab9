package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках ничего не пишется
type Metrics struct {
	service string

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	BookingsTotal      *prometheus.CounterVec
	DispatchStageTotal *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
}

// New регистрирует метрики в глобальном registry prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном registry
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		service: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		HTTPRequestsInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests being processed",
		}, []string{"service"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		DBConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"service", "outcome"}),

		DispatchStageTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_no_availability_total",
			Help: "Dispatcher rejections by elimination stage",
		}, []string{"service", "stage"}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Booking confirmation deliveries by channel and result",
		}, []string{"service", "channel", "result"}),
	}
}

// ObserveHTTPRequest записывает завершенный HTTP-запрос
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, path).Observe(duration.Seconds())
}

// InFlight увеличивает счетчик активных запросов и возвращает функцию для уменьшения
func (m *Metrics) InFlight() func() {
	if m == nil {
		return func() {}
	}
	g := m.HTTPRequestsInFlight.WithLabelValues(m.service)
	g.Inc()
	return g.Dec
}

// ObserveDBQuery записывает длительность и результат запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.DBQueryErrors.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBStats обновляет метрики пула соединений
func (m *Metrics) SetDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.service, "open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues(m.service, "in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues(m.service, "idle").Set(float64(stats.Idle))
	m.DBConnections.WithLabelValues(m.service, "wait_count").Set(float64(stats.WaitCount))
}

// IncBooking учитывает попытку бронирования с результатом outcome
func (m *Metrics) IncBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(m.service, outcome).Inc()
}

// IncDispatchStage учитывает отказ диспетчера на этапе stage
func (m *Metrics) IncDispatchStage(stage string) {
	if m == nil {
		return
	}
	m.DispatchStageTotal.WithLabelValues(m.service, stage).Inc()
}

// IncNotification учитывает попытку доставки уведомления
func (m *Metrics) IncNotification(channel, result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(m.service, channel, result).Inc()
}
