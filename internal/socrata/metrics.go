package socrata

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// apiRequestsTotal counts page requests against the Socrata API by outcome:
// success, retry, network_error, http_error, decode_error.
var apiRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "landlordwatch_socrata_requests_total",
		Help: "Total Socrata API page requests by outcome",
	},
	[]string{"outcome"},
)
