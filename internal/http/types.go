package http

import (
	"net/http"

	"github.com/mauv0809/swiss-tribble/internal/config"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/notifier"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/round"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

type Server struct {
	Store          tournament.Store
	Rounds         *round.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

type createTournamentRequest struct {
	Name string `json:"name"`
}

type registerPlayerRequest struct {
	Name     string         `json:"name"`
	PlayerID swiss.PlayerID `json:"player_id,omitempty"`
}

type registerPlayerResponse struct {
	PlayerID swiss.PlayerID `json:"player_id"`
}

type countPlayersResponse struct {
	Count int `json:"count"`
}

type reportMatchRequest struct {
	Winner swiss.PlayerID `json:"winner"`
	Loser  swiss.PlayerID `json:"loser"`
	Draw   bool           `json:"draw"`
}
