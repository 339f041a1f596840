package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"livepoll/internal/services"
	"livepoll/internal/structures"
	"time"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncVotes(choice string)
	IncRejections(reason string)
	IncComments()
	IncResets(kind string)
	ObserveArchiveDuration(duration time.Duration)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	votesTotal      *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
	commentsTotal   prometheus.Counter
	resetsTotal     *prometheus.CounterVec
	archiveDuration prometheus.Histogram
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncVotes(choice string) {
	m.votesTotal.WithLabelValues(choice).Inc()
}

func (m *MetricsProvider) IncRejections(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) IncComments() {
	m.commentsTotal.Inc()
}

func (m *MetricsProvider) IncResets(kind string) {
	m.resetsTotal.WithLabelValues(kind).Inc()
}

func (m *MetricsProvider) ObserveArchiveDuration(duration time.Duration) {
	m.archiveDuration.Observe(duration.Seconds())
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, service services.PollServiceInterface) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "livepoll_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_cache_hits_total",
			Help: "Total number of results cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_cache_misses_total",
			Help: "Total number of results cache misses",
		}),

		votesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_votes_total",
			Help: "Accepted votes by choice",
		}, []string{"choice"}),

		rejectionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_rejections_total",
			Help: "Rejected participant submissions by error code",
		}, []string{"reason"}),

		commentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_comments_total",
			Help: "Accepted comments",
		}),

		resetsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_resets_total",
			Help: "Session resets by kind (session, clear)",
		}, []string{"kind"}),

		archiveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "livepoll_archive_duration_seconds",
			Help:    "Duration of archive writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "livepoll_session_id",
		Help: "Current voting session number",
	}, func() float64 {
		return float64(service.Stats().SessionID)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "livepoll_session_voters",
		Help: "Voters who voted in the current session",
	}, func() float64 {
		return float64(service.Stats().Voters)
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "livepoll_comment_log_size",
		Help: "Comments currently held in the feed",
	}, func() float64 {
		return float64(service.Stats().Comments)
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncVotes(_ string)                                {}
func (n *noopMetrics) IncRejections(_ string)                           {}
func (n *noopMetrics) IncComments()                                     {}
func (n *noopMetrics) IncResets(_ string)                               {}
func (n *noopMetrics) ObserveArchiveDuration(_ time.Duration)           {}
