package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds all the Prometheus metrics for the application
type Service struct {
	Registrations     prometheus.Counter
	Unregistrations   prometheus.Counter
	PlayersDeleted    prometheus.Counter
	AdminAuthFailures *prometheus.CounterVec
	TeamSplits        prometheus.Counter
	MatchUpdates      prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// NewHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_registrations_total",
			Help: "The total number of successful player registrations.",
		}),
		Unregistrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_unregistrations_total",
			Help: "The total number of players who removed their own registration.",
		}),
		PlayersDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_players_deleted_total",
			Help: "The total number of admin player deletions.",
		}),
		AdminAuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kickoff_admin_auth_failures_total",
			Help: "The total number of rejected admin passwords, by action.",
		}, []string{"action"}),
		TeamSplits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_team_splits_total",
			Help: "The total number of team splits applied.",
		}),
		MatchUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_match_updates_total",
			Help: "The total number of match info upserts.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kickoff_http_request_duration_seconds",
			Help:    "The duration of HTTP requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		s.Registrations,
		s.Unregistrations,
		s.PlayersDeleted,
		s.AdminAuthFailures,
		s.TeamSplits,
		s.MatchUpdates,
		s.RequestDuration,
	)

	return s
}

func (s *Service) IncRegistrations() {
	s.Registrations.Inc()
}

func (s *Service) IncUnregistrations() {
	s.Unregistrations.Inc()
}

func (s *Service) IncPlayersDeleted() {
	s.PlayersDeleted.Inc()
}

func (s *Service) IncAdminAuthFailures(action string) {
	s.AdminAuthFailures.WithLabelValues(action).Inc()
}

func (s *Service) IncTeamSplits() {
	s.TeamSplits.Inc()
}

func (s *Service) IncMatchUpdates() {
	s.MatchUpdates.Inc()
}

func (s *Service) ObserveRequestDuration(method, route string, status int, seconds float64) {
	s.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
