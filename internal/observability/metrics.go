// Package observability registers the Prometheus metrics for ledger writes and leaderboard reads.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	activityPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "ledger",
		Name:      "last_activity_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity written to the ledger.",
	})

	pointsAwardedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit",
		Subsystem: "ledger",
		Name:      "points_awarded_total",
		Help:      "Points awarded by logged activities, labeled by category and intensity.",
	}, []string{"category", "intensity"})

	activitiesLoggedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit",
		Subsystem: "ledger",
		Name:      "activities_logged_total",
		Help:      "Number of activities logged, labeled by category and intensity.",
	}, []string{"category", "intensity"})

	ledgerWriteDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "octofit",
		Subsystem: "ledger",
		Name:      "write_duration_seconds",
		Help:      "Time spent on ledger writes including the total recomputation.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"op", "outcome"})

	leaderboardDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "query_duration_seconds",
		Help:      "Time spent reading leaderboard standings.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"board"})
)

func init() {
	prometheus.MustRegister(activityPersistGauge, pointsAwardedCounter, activitiesLoggedCounter, ledgerWriteDuration, leaderboardDuration)
}

// RecordActivityPersisted updates the persistence watermark gauge.
func RecordActivityPersisted(ts time.Time) {
	if ts.IsZero() {
		return
	}
	activityPersistGauge.Set(float64(ts.Unix()))
}

// RecordPointsAwarded counts one logged activity and the points it earned.
func RecordPointsAwarded(category, intensity string, points int) {
	activitiesLoggedCounter.WithLabelValues(category, intensity).Inc()
	if points > 0 {
		pointsAwardedCounter.WithLabelValues(category, intensity).Add(float64(points))
	}
}

// ObserveLedgerWrite records the latency of a ledger write.
func ObserveLedgerWrite(op string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ledgerWriteDuration.WithLabelValues(op, outcome).Observe(elapsed.Seconds())
}

// ObserveLeaderboardQuery records the latency of a standings read.
func ObserveLeaderboardQuery(board string, elapsed time.Duration) {
	leaderboardDuration.WithLabelValues(board).Observe(elapsed.Seconds())
}
