// Package metrics holds the process-wide prometheus instrumentation,
// exposed by the HTTP server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_poll_cycles_total",
		Help: "Number of page check cycles started.",
	})

	PollFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_poll_faults_total",
		Help: "Number of page check cycles that ended in a fault.",
	})

	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_fetch_failures_total",
		Help: "Number of failed page fetches.",
	})

	PostsDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_posts_detected_total",
		Help: "Number of new promo posts detected.",
	})

	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_notifications_sent_total",
		Help: "Number of immediate notifications delivered.",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_notifications_failed_total",
		Help: "Number of immediate notifications that failed to deliver.",
	})

	RemindersScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_reminders_scheduled_total",
		Help: "Number of reminder deliveries scheduled.",
	})

	SubscribersRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaktus_subscribers_revoked_total",
		Help: "Number of subscribers deactivated after blocking the bot.",
	})
)
