package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	draw       bool
	dryRun     bool
	playerID   int64
	withRoster bool
)

func init() {
	reportCmd.Flags().BoolVar(&draw, "draw", false, "Record the game as a draw")
	roundCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the round without recording the bye or announcing it")
	registerCmd.Flags().Int64Var(&playerID, "player-id", 0, "Register an existing player instead of creating one")
	resetCmd.Flags().BoolVar(&withRoster, "players", false, "Also remove the registered players")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(pairingsCmd)
	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(resetCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/tournaments", nil)
	},
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new tournament",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/tournaments", map[string]string{"name": args[0]})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <tournament> [name]",
	Short: "Register a player for a tournament",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"player_id": playerID}
		if len(args) == 2 {
			body["name"] = args[1]
		}
		return performRequest(http.MethodPost, tournamentPath(args[0], "/players"), body)
	},
}

var countCmd = &cobra.Command{
	Use:   "count [tournament]",
	Short: "Count the players of a tournament (or all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, tournamentPath(optional(args), "/players/count"), nil)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <tournament> <winner> <loser>",
	Short: "Report the result of a game",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		winner, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid winner id: %w", err)
		}
		loser, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid loser id: %w", err)
		}
		body := map[string]any{"winner": winner, "loser": loser, "draw": draw}
		return performRequest(http.MethodPost, tournamentPath(args[0], "/matches"), body)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings [tournament]",
	Short: "Show the standings of a tournament",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, tournamentPath(optional(args), "/standings"), nil)
	},
}

var pairingsCmd = &cobra.Command{
	Use:   "pairings [tournament]",
	Short: "Preview the pairings of the next round",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, tournamentPath(optional(args), "/pairings"), nil)
	},
}

var roundCmd = &cobra.Command{
	Use:   "round [tournament]",
	Short: "Pair the next round and record its bye",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := tournamentPath(optional(args), "/rounds")
		if dryRun {
			path += "?dry_run=true"
		}
		return performRequest(http.MethodPost, path, nil)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [tournament]",
	Short: "Delete the recorded matches of a tournament (or all)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := optional(args)
		if withRoster {
			return performRequest(http.MethodDelete, tournamentPath(id, "/players"), nil)
		}
		return performRequest(http.MethodDelete, tournamentPath(id, "/matches"), nil)
	},
}

// optional returns the tournament argument, defaulting to the latest tournament.
func optional(args []string) string {
	if len(args) == 0 {
		return "latest"
	}
	return args[0]
}

func tournamentPath(id, suffix string) string {
	return "/tournaments/" + id + suffix
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, url)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
