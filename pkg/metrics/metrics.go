package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ticketing"

var (
	TicketsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_issued_total",
		Help:      "Tickets issued, by initial status.",
	}, []string{"status"})

	IssueRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issue_rejected_total",
		Help:      "Issue attempts rejected, by reason.",
	}, []string{"reason"})

	CheckIns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_ins_total",
		Help:      "Successful ticket check-ins.",
	})

	CheckInRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "check_in_rejected_total",
		Help:      "Check-in attempts rejected, by reason.",
	}, []string{"reason"})

	TicketsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_cancelled_total",
		Help:      "Tickets moved to CANCELLED.",
	})

	IssueDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "issue_duration_seconds",
		Help:      "Latency of the issue transaction.",
		Buckets:   prometheus.DefBuckets,
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "availability_cache_lookups_total",
		Help:      "Availability cache lookups, by result (hit|miss|error).",
	}, []string{"result"})
)

// Reason 將錯誤歸類為 metric label，未知錯誤一律為 "other"
func Reason(err error, known map[error]string) string {
	for target, label := range known {
		if errors.Is(err, target) {
			return label
		}
	}
	return "other"
}
