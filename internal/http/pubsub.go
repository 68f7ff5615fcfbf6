package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

// pushMessage is the envelope of a Pub/Sub push subscription request.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"` // base64-encoded MessagePack payload
	} `json:"message"`
}

// decodePush unwraps a push request and decodes its payload into v.
// The returned status is meaningful only when err is not nil.
func (s *Server) decodePush(r *http.Request, v any) (int, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return bodyErrorStatus(err, http.StatusInternalServerError), fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var msg pushMessage
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
	if err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid base64 data: %w", err)
	}
	if err := s.pubsub.ProcessMessage(rawData, v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err)
	}
	return http.StatusOK, nil
}

// RoundPairedHandler announces a freshly paired round on Slack.
func (s *Server) RoundPairedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.RoundPairedEvent
		if status, err := s.decodePush(r, &event); err != nil {
			log.Error("Failed to decode round-paired message", "error", err)
			http.Error(w, err.Error(), status)
			return
		}
		t := tournament.Tournament{ID: event.TournamentID, Name: event.TournamentName}
		if _, err := s.Notifier.SendPairings(t, event.Round, event.Pairings, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce pairings", "tournament", t.ID, "round", event.Round, "error", err)
			http.Error(w, "Failed to announce pairings", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// MatchReportedHandler posts the updated standings after a result comes in.
func (s *Server) MatchReportedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event pubsub.MatchReportedEvent
		if status, err := s.decodePush(r, &event); err != nil {
			log.Error("Failed to decode match-reported message", "error", err)
			http.Error(w, err.Error(), status)
			return
		}
		t, err := s.Store.GetTournament(event.TournamentID)
		if err != nil {
			respondWithError(w, "Failed to load tournament", err)
			return
		}
		standings, err := s.Rounds.Standings(t.ID)
		if err != nil {
			respondWithError(w, "Failed to compute standings", err)
			return
		}
		if err := s.Notifier.SendStandings(t, standings, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to post standings", "tournament", t.ID, "error", err)
			http.Error(w, "Failed to post standings", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
