package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
)

var errBadTournamentID = errors.New("tournament id must be a positive number, latest or all")

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateTournamentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTournamentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", bodyErrorStatus(err, http.StatusBadRequest))
			return
		}
		t, err := s.Store.CreateTournament(req.Name)
		if err != nil {
			respondWithError(w, "Failed to create tournament", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, t)
	}
}

func (s *Server) ListTournamentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := s.Store.ListTournaments()
		if err != nil {
			respondWithError(w, "Failed to list tournaments", err)
			return
		}
		if tournaments == nil {
			tournaments = []tournament.Tournament{}
		}
		respondWithJSON(w, http.StatusOK, tournaments)
	}
}

func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req registerPlayerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", bodyErrorStatus(err, http.StatusBadRequest))
			return
		}
		playerID, err := s.Store.RegisterPlayer(req.Name, id, req.PlayerID)
		if err != nil {
			respondWithError(w, "Failed to register player", err)
			return
		}
		respondWithJSON(w, http.StatusCreated, registerPlayerResponse{PlayerID: playerID})
	}
}

func (s *Server) CountPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, true)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		count, err := s.Store.CountPlayers(id)
		if err != nil {
			respondWithError(w, "Failed to count players", err)
			return
		}
		respondWithJSON(w, http.StatusOK, countPlayersResponse{Count: count})
	}
}

func (s *Server) ReportMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var req reportMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", bodyErrorStatus(err, http.StatusBadRequest))
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have reported match", "tournament", id, "winner", req.Winner, "loser", req.Loser, "draw", req.Draw)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run: match not recorded.")
			return
		}
		if err := s.Rounds.ReportMatch(id, req.Winner, req.Loser, req.Draw); err != nil {
			respondWithError(w, "Failed to report match", err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintln(w, "Match recorded.")
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		standings, err := s.Rounds.Standings(id)
		if err != nil {
			respondWithError(w, "Failed to compute standings", err)
			return
		}
		respondWithJSON(w, http.StatusOK, standings)
	}
}

func (s *Server) PairingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		pairings, err := s.Rounds.Pairings(id)
		if err != nil {
			respondWithError(w, "Failed to compute pairings", err)
			return
		}
		respondWithJSON(w, http.StatusOK, pairings)
	}
}

func (s *Server) GenerateRoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		rnd, err := s.Rounds.GenerateRound(id, isDryRun)
		if err != nil {
			respondWithError(w, "Failed to generate round", err)
			return
		}
		status := http.StatusCreated
		if isDryRun {
			status = http.StatusOK
		}
		respondWithJSON(w, status, rnd)
	}
}

func (s *Server) DeleteMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, true)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have deleted matches", "tournament", id)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run: nothing deleted.")
			return
		}
		if err := s.Store.DeleteMatches(id); err != nil {
			respondWithError(w, "Failed to delete matches", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Matches deleted.")
	}
}

func (s *Server) DeletePlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := tournamentIDFromPath(r, true)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have deleted players", "tournament", id)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "Dry run: nothing deleted.")
			return
		}
		if err := s.Store.DeletePlayers(id); err != nil {
			respondWithError(w, "Failed to delete players", err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Players deleted.")
	}
}

// parseTournamentID reads "latest", "all" or a positive id. An empty value means latest.
func parseTournamentID(raw string, allowAll bool) (swiss.TournamentID, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "latest":
		return tournament.LatestTournament, nil
	case "all":
		if !allowAll {
			return 0, tournament.ErrAllNotAllowed
		}
		return tournament.AllTournaments, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadTournamentID
	}
	return swiss.TournamentID(id), nil
}

func tournamentIDFromPath(r *http.Request, allowAll bool) (swiss.TournamentID, error) {
	return parseTournamentID(r.PathValue("id"), allowAll)
}

// statusFor maps store and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tournament.ErrTournamentNotFound), errors.Is(err, tournament.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, tournament.ErrAlreadyRegistered),
		errors.Is(err, tournament.ErrByeAlreadyRecorded),
		errors.Is(err, swiss.ErrNoByeEligiblePlayer):
		return http.StatusConflict
	case errors.Is(err, tournament.ErrNotRegistered),
		errors.Is(err, tournament.ErrSamePlayer),
		errors.Is(err, tournament.ErrNameRequired),
		errors.Is(err, tournament.ErrAllNotAllowed):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondWithError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error(msg, "error", err)
	} else {
		log.Warn(msg, "error", err, "status", status)
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
}

func respondWithJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}
