package tournament

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
)

// New creates a new Store backed by db.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// CreateTournament starts a new tournament, which becomes the latest one.
func (s *store) CreateTournament(name string) (Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tournament{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	res, err := s.db.Exec("INSERT INTO tournaments (name, created_at) VALUES (?, ?)", name, now.Unix())
	if err != nil {
		return Tournament{}, fmt.Errorf("failed to create tournament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Tournament{}, fmt.Errorf("failed to read tournament id: %w", err)
	}

	t := Tournament{ID: swiss.TournamentID(id), Name: name, CreatedAt: time.Unix(now.Unix(), 0)}
	log.Info("Created tournament", "id", t.ID, "name", t.Name)
	return t, nil
}

// GetTournament returns the tournament with the given id, or the latest one.
func (s *store) GetTournament(id swiss.TournamentID) (Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := resolve(s.db, id)
	if err != nil {
		return Tournament{}, err
	}

	return readTournament(s.db, resolved)
}

// ListTournaments returns every tournament, newest first.
func (s *store) ListTournaments() ([]Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, created_at FROM tournaments ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := []Tournament{}
	for rows.Next() {
		var t Tournament
		var createdAt int64
		if err := rows.Scan(&t.ID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		t.CreatedAt = time.Unix(createdAt, 0)
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// RegisterPlayer adds a player to a tournament. A zero playerID creates a new
// player called name; any other id registers that existing player, and name is ignored.
func (s *store) RegisterPlayer(name string, tournamentID swiss.TournamentID, playerID swiss.PlayerID) (swiss.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolved, err := resolve(tx, tournamentID)
	if err != nil {
		return 0, err
	}

	if playerID == 0 {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, ErrNameRequired
		}
		res, err := tx.Exec("INSERT INTO players (name) VALUES (?)", name)
		if err != nil {
			return 0, fmt.Errorf("failed to create player: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read player id: %w", err)
		}
		playerID = swiss.PlayerID(id)
	} else {
		var exists bool
		if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", int64(playerID)).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to look up player %d: %w", playerID, err)
		}
		if !exists {
			return 0, fmt.Errorf("player %d: %w", playerID, ErrPlayerNotFound)
		}
	}

	res, err := tx.Exec("INSERT OR IGNORE INTO tournament_roster (tournament_id, player_id) VALUES (?, ?)", int64(resolved), int64(playerID))
	if err != nil {
		return 0, fmt.Errorf("failed to register player %d: %w", playerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("player %d in tournament %d: %w", playerID, resolved, ErrAlreadyRegistered)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit registration: %w", err)
	}
	log.Info("Registered player", "tournament", resolved, "player", playerID)
	return playerID, nil
}

// CountPlayers returns the size of a tournament's roster. For AllTournaments
// each player registered anywhere is counted once.
func (s *store) CountPlayers(tournamentID swiss.TournamentID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if tournamentID == AllTournaments {
		if err := s.db.QueryRow("SELECT COUNT(DISTINCT player_id) FROM tournament_roster").Scan(&count); err != nil {
			return 0, fmt.Errorf("failed to count players: %w", err)
		}
		return count, nil
	}

	resolved, err := resolve(s.db, tournamentID)
	if err != nil {
		return 0, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tournament_roster WHERE tournament_id = ?", int64(resolved)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players in tournament %d: %w", resolved, err)
	}
	return count, nil
}

// ReportMatch records the result of a match. For a draw, winner and loser only
// identify the two players.
func (s *store) ReportMatch(tournamentID swiss.TournamentID, winner, loser swiss.PlayerID, draw bool) error {
	if winner == loser {
		return fmt.Errorf("player %d: %w", winner, ErrSamePlayer)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolved, err := resolve(tx, tournamentID)
	if err != nil {
		return err
	}
	for _, id := range []swiss.PlayerID{winner, loser} {
		registered, err := isRegistered(tx, resolved, id)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("player %d in tournament %d: %w", id, resolved, ErrNotRegistered)
		}
	}

	outcome := swiss.OutcomeAWon
	if draw {
		outcome = swiss.OutcomeDraw
	}
	_, err = tx.Exec(`
		INSERT INTO tournament_matches (tournament_id, player_a, player_b, outcome, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, int64(resolved), int64(winner), int64(loser), string(outcome), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match: %w", err)
	}
	log.Info("Recorded match", "tournament", resolved, "player_a", winner, "player_b", loser, "outcome", outcome)
	return nil
}

// RecordBye marks that a player received their one bye of the tournament.
func (s *store) RecordBye(tournamentID swiss.TournamentID, playerID swiss.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolved, err := resolve(tx, tournamentID)
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE tournament_roster SET had_bye = 1
		WHERE tournament_id = ? AND player_id = ? AND had_bye = 0
	`, int64(resolved), int64(playerID))
	if err != nil {
		return fmt.Errorf("failed to record bye: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		registered, err := isRegistered(tx, resolved, playerID)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("player %d in tournament %d: %w", playerID, resolved, ErrNotRegistered)
		}
		return fmt.Errorf("player %d in tournament %d: %w", playerID, resolved, ErrByeAlreadyRecorded)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bye: %w", err)
	}
	log.Info("Recorded bye", "tournament", resolved, "player", playerID)
	return nil
}

// GetRoster returns the registered players of a tournament ordered by id.
func (s *store) GetRoster(tournamentID swiss.TournamentID) ([]swiss.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := resolve(s.db, tournamentID)
	if err != nil {
		return nil, err
	}
	return readRoster(s.db, resolved)
}

// GetMatches returns the match history of a tournament in the order it was reported.
func (s *store) GetMatches(tournamentID swiss.TournamentID) ([]swiss.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := resolve(s.db, tournamentID)
	if err != nil {
		return nil, err
	}
	return readMatches(s.db, resolved)
}

// GetByeEligibility reports, per registered player, whether they already had a bye.
func (s *store) GetByeEligibility(tournamentID swiss.TournamentID) (map[swiss.PlayerID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := resolve(s.db, tournamentID)
	if err != nil {
		return nil, err
	}
	return readByeFlags(s.db, resolved)
}

// Snapshot reads a tournament with its roster, matches and bye flags in one
// transaction, so the three always describe the same state.
func (s *store) Snapshot(tournamentID swiss.TournamentID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, err := s.db.Begin()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	resolved, err := resolve(tx, tournamentID)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{}
	if snap.Tournament, err = readTournament(tx, resolved); err != nil {
		return Snapshot{}, err
	}
	if snap.Roster, err = readRoster(tx, resolved); err != nil {
		return Snapshot{}, err
	}
	if snap.Matches, err = readMatches(tx, resolved); err != nil {
		return Snapshot{}, err
	}
	if snap.HadBye, err = readByeFlags(tx, resolved); err != nil {
		return Snapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to finish snapshot of tournament %d: %w", resolved, err)
	}
	return snap, nil
}

func readTournament(q querier, id swiss.TournamentID) (Tournament, error) {
	var t Tournament
	var createdAt int64
	err := q.QueryRow("SELECT id, name, created_at FROM tournaments WHERE id = ?", int64(id)).
		Scan(&t.ID, &t.Name, &createdAt)
	if err != nil {
		return Tournament{}, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	t.CreatedAt = time.Unix(createdAt, 0)
	return t, nil
}

func readRoster(q querier, tournamentID swiss.TournamentID) ([]swiss.RosterEntry, error) {
	rows, err := q.Query(`
		SELECT r.player_id, p.name, r.had_bye
		FROM tournament_roster r
		JOIN players p ON p.id = r.player_id
		WHERE r.tournament_id = ?
		ORDER BY r.player_id
	`, int64(tournamentID))
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	roster := []swiss.RosterEntry{}
	for rows.Next() {
		entry := swiss.RosterEntry{TournamentID: tournamentID}
		if err := rows.Scan(&entry.Player.ID, &entry.Player.Name, &entry.HadBye); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}

func readMatches(q querier, tournamentID swiss.TournamentID) ([]swiss.MatchRecord, error) {
	rows, err := q.Query(`
		SELECT player_a, player_b, outcome
		FROM tournament_matches
		WHERE tournament_id = ?
		ORDER BY id
	`, int64(tournamentID))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []swiss.MatchRecord{}
	for rows.Next() {
		m := swiss.MatchRecord{TournamentID: tournamentID}
		var outcome string
		if err := rows.Scan(&m.PlayerA, &m.PlayerB, &outcome); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		m.Outcome = swiss.Outcome(outcome)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func readByeFlags(q querier, tournamentID swiss.TournamentID) (map[swiss.PlayerID]bool, error) {
	rows, err := q.Query("SELECT player_id, had_bye FROM tournament_roster WHERE tournament_id = ?", int64(tournamentID))
	if err != nil {
		return nil, fmt.Errorf("failed to query bye flags: %w", err)
	}
	defer rows.Close()

	hadBye := make(map[swiss.PlayerID]bool)
	for rows.Next() {
		var id swiss.PlayerID
		var flag bool
		if err := rows.Scan(&id, &flag); err != nil {
			return nil, fmt.Errorf("failed to scan bye flag: %w", err)
		}
		hadBye[id] = flag
	}
	return hadBye, rows.Err()
}

// DeleteMatches removes the match history of a tournament, or of every
// tournament for AllTournaments.
func (s *store) DeleteMatches(tournamentID swiss.TournamentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tournamentID == AllTournaments {
		if _, err := s.db.Exec("DELETE FROM tournament_matches"); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		log.Info("Deleted matches of all tournaments")
		return nil
	}

	resolved, err := resolve(s.db, tournamentID)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM tournament_matches WHERE tournament_id = ?", int64(resolved)); err != nil {
		return fmt.Errorf("failed to delete matches of tournament %d: %w", resolved, err)
	}
	log.Info("Deleted matches", "tournament", resolved)
	return nil
}

// DeletePlayers empties a tournament's roster, together with its matches.
// For AllTournaments the player records themselves are removed too.
func (s *store) DeletePlayers(tournamentID swiss.TournamentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if tournamentID == AllTournaments {
		for _, stmt := range []string{
			"DELETE FROM tournament_matches",
			"DELETE FROM tournament_roster",
			"DELETE FROM players",
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to delete players: %w", err)
			}
		}
	} else {
		resolved, err := resolve(tx, tournamentID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM tournament_matches WHERE tournament_id = ?", int64(resolved)); err != nil {
			return fmt.Errorf("failed to delete matches of tournament %d: %w", resolved, err)
		}
		if _, err := tx.Exec("DELETE FROM tournament_roster WHERE tournament_id = ?", int64(resolved)); err != nil {
			return fmt.Errorf("failed to delete roster of tournament %d: %w", resolved, err)
		}
		tournamentID = resolved
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit player deletion: %w", err)
	}
	log.Info("Deleted players", "tournament", tournamentID)
	return nil
}

// resolve maps LatestTournament to the newest tournament id and checks that
// any other id exists.
func resolve(q querier, id swiss.TournamentID) (swiss.TournamentID, error) {
	switch {
	case id == AllTournaments:
		return 0, ErrAllNotAllowed
	case id == LatestTournament:
		var latest sql.NullInt64
		if err := q.QueryRow("SELECT MAX(id) FROM tournaments").Scan(&latest); err != nil {
			return 0, fmt.Errorf("failed to find latest tournament: %w", err)
		}
		if !latest.Valid {
			return 0, fmt.Errorf("latest tournament: %w", ErrTournamentNotFound)
		}
		return swiss.TournamentID(latest.Int64), nil
	case id < 0:
		return 0, fmt.Errorf("tournament %d: %w", id, ErrTournamentNotFound)
	}

	var exists bool
	if err := q.QueryRow("SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = ?)", int64(id)).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to look up tournament %d: %w", id, err)
	}
	if !exists {
		return 0, fmt.Errorf("tournament %d: %w", id, ErrTournamentNotFound)
	}
	return id, nil
}

func isRegistered(q querier, tournamentID swiss.TournamentID, playerID swiss.PlayerID) (bool, error) {
	var registered bool
	err := q.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM tournament_roster WHERE tournament_id = ? AND player_id = ?)",
		int64(tournamentID), int64(playerID),
	).Scan(&registered)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check registration of player %d: %w", playerID, err)
	}
	return registered, nil
}
