package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "visiflow_query_"

// Query result labels.
const (
	ResultSuccess    = "success"
	ResultBadRequest = "bad_request"
	ResultForbidden  = "forbidden"
	ResultError      = "error"
)

var (
	registerOnce sync.Once

	queryRequests *prometheus.CounterVec
)

// Init registers query metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		queryRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "requests_total",
				Help: "Dashboard query requests by result",
			},
			[]string{"result"},
		)
		prometheus.MustRegister(queryRequests)
	})
}

// IncQuery counts one query request by result.
func IncQuery(result string) {
	if queryRequests != nil {
		queryRequests.WithLabelValues(result).Inc()
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
