package http

import (
	"net/http"

	"github.com/mauv0809/swiss-tribble/internal/config"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/notifier"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/round"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

func NewServer(store tournament.Store, rounds *round.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Rounds:         rounds,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	slackVerified := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /tournaments", Chain(s.CreateTournamentHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments", Chain(s.ListTournamentsHandler(), paramsMiddleware))
	s.Router.Handle("POST /tournaments/{id}/players", Chain(s.RegisterPlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/players/count", Chain(s.CountPlayersHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /tournaments/{id}/players", Chain(s.DeletePlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /tournaments/{id}/matches", Chain(s.ReportMatchHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /tournaments/{id}/matches", Chain(s.DeleteMatchesHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/standings", Chain(s.StandingsHandler(), paramsMiddleware))
	s.Router.Handle("GET /tournaments/{id}/pairings", Chain(s.PairingsHandler(), paramsMiddleware))
	s.Router.Handle("POST /tournaments/{id}/rounds", Chain(s.GenerateRoundHandler(), paramsMiddleware))

	s.Router.Handle("POST /slack/command/standings", Chain(s.StandingsCommandHandler(), paramsMiddleware, slackVerified))
	s.Router.Handle("POST /slack/command/pairings", Chain(s.PairingsCommandHandler(), paramsMiddleware, slackVerified))

	s.Router.Handle("POST /pubsub/round-paired", Chain(s.RoundPairedHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/match-reported", Chain(s.MatchReportedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
