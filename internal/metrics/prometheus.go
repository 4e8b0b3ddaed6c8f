package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	signups      *prometheus.CounterVec
	logins       *prometheus.CounterVec
	logouts      prometheus.Counter
	contentViews *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus creates a PrometheusRecorder and registers its collectors.
// Panics if registration fails (following prometheus convention).
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	p := &PrometheusRecorder{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museum_signups_total",
			Help: "Signup attempts by outcome",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museum_logins_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "museum_logouts_total",
			Help: "Logouts",
		}),
		contentViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "museum_content_views_total",
			Help: "Specimen page views by kind and whether the key was known",
		}, []string{"kind", "found"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "museum_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(p.signups, p.logins, p.logouts, p.contentViews, p.httpDuration)
	return p
}

// NewRegistry returns a registry preloaded with Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// IncSignup increments the signup counter for outcome.
func (p *PrometheusRecorder) IncSignup(outcome string) {
	p.signups.WithLabelValues(outcome).Inc()
}

// IncLogin increments the login counter for outcome.
func (p *PrometheusRecorder) IncLogin(outcome string) {
	p.logins.WithLabelValues(outcome).Inc()
}

// IncLogout increments the logout counter.
func (p *PrometheusRecorder) IncLogout() {
	p.logouts.Inc()
}

// IncContentView increments the content view counter.
func (p *PrometheusRecorder) IncContentView(kind string, found bool) {
	p.contentViews.WithLabelValues(kind, strconv.FormatBool(found)).Inc()
}

// ObserveHTTPRequest records request duration.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	p.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
