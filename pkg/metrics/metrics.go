package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Connection pool БД
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec
	DBQueryDuration    *prometheus.HistogramVec

	// Бизнес-метрики
	RuleConflictsTotal    *prometheus.CounterVec
	BookingConflictsTotal *prometheus.CounterVec
	BookingsCreatedTotal  *prometheus.CounterVec
	SuggestionsReturned   *prometheus.HistogramVec
	RuleCacheLookups      *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry создает метрики и регистрирует их в указанном registry
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		RuleConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "price_rule_conflicts_total",
			Help:        "Rejected price rule writes by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),

		BookingConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Booking requests rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		BookingsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Successfully created bookings",
			ConstLabels: constLabels,
		}, []string{"kind"}),

		SuggestionsReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_suggestions_returned",
			Help:        "Number of alternative slots returned per conflicting request",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 3, 5, 10},
		}, []string{"source"}),

		RuleCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "price_rule_cache_lookups_total",
			Help:        "Price rule cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBQueryDuration,
		m.RuleConflictsTotal,
		m.BookingConflictsTotal,
		m.BookingsCreatedTotal,
		m.SuggestionsReturned,
		m.RuleCacheLookups,
	)

	return m
}

// Все методы ниже безопасны для nil *Metrics - метрики могут быть выключены в конфиге

// IncRuleConflict учитывает отклоненную запись правила
func (m *Metrics) IncRuleConflict(reason string) {
	if m == nil {
		return
	}
	m.RuleConflictsTotal.WithLabelValues(reason).Inc()
}

// IncBookingConflict учитывает конфликт бронирования
func (m *Metrics) IncBookingConflict(kind string) {
	if m == nil {
		return
	}
	m.BookingConflictsTotal.WithLabelValues(kind).Inc()
}

// IncBookingCreated учитывает созданное бронирование
func (m *Metrics) IncBookingCreated(kind string) {
	if m == nil {
		return
	}
	m.BookingsCreatedTotal.WithLabelValues(kind).Inc()
}

// ObserveSuggestions учитывает количество предложенных альтернатив
func (m *Metrics) ObserveSuggestions(source string, count int) {
	if m == nil {
		return
	}
	m.SuggestionsReturned.WithLabelValues(source).Observe(float64(count))
}

// IncCacheLookup учитывает попадание/промах кэша правил
func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.RuleCacheLookups.WithLabelValues(result).Inc()
}
