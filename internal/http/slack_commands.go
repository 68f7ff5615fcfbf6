package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
)

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	respondWithJSON(w, http.StatusOK, slackMsg)
}

// respondWithSlackError answers a slash command with a visible error instead of
// an HTTP failure, which Slack would only show as "dispatch_failed".
func (s *Server) respondWithSlackError(w http.ResponseWriter, text string) {
	msg, err := s.Notifier.FormatErrorResponse(text)
	if err != nil {
		http.Error(w, "Failed to format error", http.StatusInternalServerError)
		log.Error("Failed to format error response", "error", err)
		return
	}
	respondWithSlackMsg(w, msg)
}

// StandingsCommandHandler returns a handler for the /standings Slack command.
// The command text selects the tournament; empty means the latest one.
func (s *Server) StandingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", bodyErrorStatus(err, http.StatusBadRequest))
			return
		}
		log.Info("Received standings command", "user", cmd.UserName, "text", cmd.Text)

		id, err := parseTournamentID(cmd.Text, false)
		if err != nil {
			s.respondWithSlackError(w, err.Error())
			return
		}
		t, err := s.Store.GetTournament(id)
		if err != nil {
			log.Warn("Could not find tournament", "text", cmd.Text, "error", err)
			s.respondWithSlackError(w, err.Error())
			return
		}
		standings, err := s.Rounds.Standings(t.ID)
		if err != nil {
			log.Error("Failed to compute standings", "tournament", t.ID, "error", err)
			s.respondWithSlackError(w, "Could not compute standings.")
			return
		}

		msg, err := s.Notifier.FormatStandingsResponse(t, standings)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// PairingsCommandHandler returns a handler for the /pairings Slack command.
// It previews the next round without recording a bye.
func (s *Server) PairingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			http.Error(w, "Error parsing form", bodyErrorStatus(err, http.StatusBadRequest))
			return
		}
		log.Info("Received pairings command", "user", cmd.UserName, "text", cmd.Text)

		id, err := parseTournamentID(cmd.Text, false)
		if err != nil {
			s.respondWithSlackError(w, err.Error())
			return
		}
		t, err := s.Store.GetTournament(id)
		if err != nil {
			log.Warn("Could not find tournament", "text", cmd.Text, "error", err)
			s.respondWithSlackError(w, err.Error())
			return
		}
		pairings, err := s.Rounds.Pairings(t.ID)
		if err != nil {
			log.Error("Failed to compute pairings", "tournament", t.ID, "error", err)
			s.respondWithSlackError(w, "Could not compute pairings: "+err.Error())
			return
		}

		msg, err := s.Notifier.FormatPairingsResponse(t, pairings)
		if err != nil {
			http.Error(w, "Failed to format pairings", http.StatusInternalServerError)
			log.Error("Failed to format pairings", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}
