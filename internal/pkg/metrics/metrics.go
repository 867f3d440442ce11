package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gostockflow"

// Metrics agrupa os coletores do fluxo de requisições de estoque.
// Um *Metrics nil é válido e ignora todas as observações.
type Metrics struct {
	submitted            *prometheus.CounterVec
	transitions          *prometheus.CounterVec
	bulkSize             prometheus.Histogram
	priorityScore        prometheus.Histogram
	notificationFailures *prometheus.CounterVec
	notificationsDropped prometheus.Counter
	rateLimited          prometheus.Counter
}

// New cria e registra os coletores no registerer informado.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_requests_submitted_total",
			Help:      "Requisições de estoque submetidas, por urgência.",
		}, []string{"urgency"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_request_transitions_total",
			Help:      "Transições de estado de requisições, por estado final e modo.",
		}, []string{"status", "mode"}),
		bulkSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stock_request_bulk_approve_size",
			Help:      "Quantidade de requisições por aprovação consolidada.",
			Buckets:   []float64{2, 3, 5, 10, 20, 50, 100},
		}),
		priorityScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stock_request_priority_score",
			Help:      "Pontuação de prioridade atribuída na submissão.",
			Buckets:   []float64{1, 25, 50, 100, 150, 200, 250, 300, 400},
		}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Falhas ao entregar notificações, por tipo de evento.",
		}, []string{"event"}),
		notificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notificações descartadas por fila cheia ou encerrada.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requisições HTTP recusadas pelo rate limiter.",
		}),
	}

	registerer.MustRegister(
		m.submitted,
		m.transitions,
		m.bulkSize,
		m.priorityScore,
		m.notificationFailures,
		m.notificationsDropped,
		m.rateLimited,
	)
	return m
}

// NewRegistry cria um registry com os coletores de runtime do Go e do processo.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler expõe o registry no formato de exposição do Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RequestSubmitted(urgency string, score int) {
	if m == nil {
		return
	}
	m.submitted.WithLabelValues(urgency).Inc()
	m.priorityScore.Observe(float64(score))
}

// Transition registra transições individuais (mode "single") ou em lote (mode "bulk").
func (m *Metrics) Transition(status, mode string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.transitions.WithLabelValues(status, mode).Add(float64(count))
}

func (m *Metrics) BulkApproved(size int) {
	if m == nil {
		return
	}
	m.bulkSize.Observe(float64(size))
	m.Transition("Approved", "bulk", size)
}

func (m *Metrics) NotificationFailed(event string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.notificationsDropped.Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
