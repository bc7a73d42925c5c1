package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_registrations_confirmed_total",
		Help: "Registrations that reached confirmed status",
	})

	RegistrationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpindia_registrations_rejected_total",
		Help: "Registration attempts rejected, by reason",
	}, []string{"reason"})

	HoursLogged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_hours_entries_total",
		Help: "Volunteer hour entries appended",
	})

	DonationsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_donations_total",
		Help: "Donations recorded",
	})

	NotificationsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_notifications_emitted_total",
		Help: "Notification rows created",
	})

	NotificationsDeduped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_notifications_deduped_total",
		Help: "Notification dispatches collapsed onto an existing dedupe key",
	})

	FeedPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpindia_feed_publish_errors_total",
		Help: "Fire-and-forget feed publishes that failed",
	})
)
