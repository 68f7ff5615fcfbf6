package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
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
		StandingsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_standings_computed_total",
			Help: "The total number of standings computations.",
		}),
		RoundsPaired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_rounds_paired_total",
			Help: "The total number of rounds for which pairings were generated and accepted.",
		}),
		ByesAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_byes_assigned_total",
			Help: "The total number of byes recorded.",
		}),
		MatchesReported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_matches_reported_total",
			Help: "The total number of match results recorded.",
		}),
		EngineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swiss_engine_errors_total",
			Help: "The total number of standings or pairing failures, by kind.",
		}, []string{"kind"}),
		PairingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "swiss_pairing_duration_seconds",
			Help:    "The duration of computing a round's pairings, including the store snapshot.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "swiss_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "swiss_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.StandingsComputed,
		s.RoundsPaired,
		s.ByesAssigned,
		s.MatchesReported,
		s.EngineErrors,
		s.PairingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncStandingsComputed() {
	s.StandingsComputed.Inc()
}

func (s *Service) IncRoundsPaired() {
	s.RoundsPaired.Inc()
}

func (s *Service) IncByesAssigned() {
	s.ByesAssigned.Inc()
}

func (s *Service) IncMatchesReported() {
	s.MatchesReported.Inc()
}

func (s *Service) IncEngineErrors(kind string) {
	s.EngineErrors.WithLabelValues(kind).Inc()
}

func (s *Service) ObservePairingDuration(duration float64) {
	s.PairingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
