// Package metrics exposes the Prometheus collectors shared by the API
// server and the background workers.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChannelPublishes counts real-time channel publish attempts by
	// outcome ("success" or "failure").
	ChannelPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_channel_publishes_total",
		Help: "Real-time channel publish attempts by outcome.",
	}, []string{"outcome"})

	// EmailsEnqueued counts emails accepted into (or rejected by) the
	// outbox mail queue.
	EmailsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dispatch_emails_enqueued_total",
		Help: "Emails enqueued for out-of-band delivery by outcome.",
	}, []string{"outcome"})

	// EmailsSent counts SMTP deliveries attempted by the mail worker.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mailer_emails_sent_total",
		Help: "SMTP deliveries attempted by the mail worker by outcome.",
	}, []string{"outcome"})

	// OutboxRelayed counts outbox events shipped to the mail broker.
	OutboxRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_relayed_total",
		Help: "Outbox events relayed to the broker by outcome.",
	}, []string{"outcome"})
)
