package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	VolunteersCreated   prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	DiscordInvitesSent  prometheus.Counter
	EditLinksIssued     prometheus.Counter
	EditsApplied        prometheus.Counter
	EditQuotaRejections prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		VolunteersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mobiliza_volunteers_created_total",
			Help: "Total number of volunteers registered",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mobiliza_status_transitions_total",
			Help: "Total number of volunteer status transitions by destination status",
		}, []string{"status"}),
		DiscordInvitesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mobiliza_discord_invites_sent_total",
			Help: "Total number of Discord invites dispatched",
		}),
		EditLinksIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mobiliza_edit_links_issued_total",
			Help: "Total number of self-service edit links issued",
		}),
		EditsApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mobiliza_edits_applied_total",
			Help: "Total number of self-service profile edits applied",
		}),
		EditQuotaRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mobiliza_edit_quota_rejections_total",
			Help: "Total number of edits rejected by the daily quota",
		}),
	}
}

// IncrementVolunteersCreated increments the volunteers created counter by 1
func (m *Metrics) IncrementVolunteersCreated() {
	m.VolunteersCreated.Inc()
}

// IncrementStatusTransitions increments the transition counter for a status
func (m *Metrics) IncrementStatusTransitions(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}

// IncrementDiscordInvitesSent increments the invites counter by 1
func (m *Metrics) IncrementDiscordInvitesSent() {
	m.DiscordInvitesSent.Inc()
}

// IncrementEditLinksIssued increments the edit links counter by 1
func (m *Metrics) IncrementEditLinksIssued() {
	m.EditLinksIssued.Inc()
}

// IncrementEditsApplied increments the edits applied counter by 1
func (m *Metrics) IncrementEditsApplied() {
	m.EditsApplied.Inc()
}

// IncrementEditQuotaRejections increments the quota rejection counter by 1
func (m *Metrics) IncrementEditQuotaRejections() {
	m.EditQuotaRejections.Inc()
}
