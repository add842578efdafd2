package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var emailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "subtrackr",
	Subsystem: "notify",
	Name:      "emails_sent_total",
	Help:      "Delivered notification emails, partitioned by kind.",
}, []string{"kind"})

var emailSendFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "subtrackr",
	Subsystem: "notify",
	Name:      "email_send_failures_total",
	Help:      "Notification emails the delivery provider did not acknowledge.",
})
