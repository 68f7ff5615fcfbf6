package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/swiss-tribble/internal/config"
	"github.com/mauv0809/swiss-tribble/internal/database"
	"github.com/mauv0809/swiss-tribble/internal/metrics"
	"github.com/mauv0809/swiss-tribble/internal/pubsub"
	"github.com/mauv0809/swiss-tribble/internal/round"
	"github.com/mauv0809/swiss-tribble/internal/swiss"
	"github.com/mauv0809/swiss-tribble/internal/tournament"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	name       string
	numPlayers int
	numRounds  int
	drawRate   float64
	seed       uint64
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Seed the database with a simulated Swiss tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&name, "name", "Seeded Open", "Name of the tournament to create")
	rootCmd.Flags().IntVar(&numPlayers, "players", 9, "Number of players to register")
	rootCmd.Flags().IntVar(&numRounds, "rounds", 4, "Number of rounds to pair and play")
	rootCmd.Flags().Float64Var(&drawRate, "draw-rate", 0.2, "Probability that a game ends in a draw")
	rootCmd.Flags().Uint64Var(&seed, "seed", 1, "Seed for the simulated results")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	log.Info("Starting database seeder...")
	cfg := config.Load()

	db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer teardown()

	store := tournament.New(db)
	rounds := round.New(store, swiss.NewEngine(cfg.ByeSelector()), pubsub.NewNop(), metrics.NewService())

	t, err := store.CreateTournament(name)
	if err != nil {
		return err
	}
	for i := 1; i <= numPlayers; i++ {
		if _, err := store.RegisterPlayer(fmt.Sprintf("Seeder Player %d", i), t.ID, 0); err != nil {
			return err
		}
	}
	log.Info("Registered players", "tournament", t.ID, "count", numPlayers)

	rng := rand.New(rand.NewPCG(seed, seed))
	for r := 1; r <= numRounds; r++ {
		rnd, err := rounds.GenerateRound(t.ID, false)
		if err != nil {
			return fmt.Errorf("failed to pair round %d: %w", r, err)
		}
		// Results are drawn in pairing order so a seed always gives the same
		// tournament, then reported concurrently.
		var g errgroup.Group
		g.SetLimit(4)
		for _, p := range rnd.Pairings {
			if p.IsBye() {
				continue
			}
			winner, loser := p.A.ID, p.B.ID
			if rng.IntN(2) == 0 {
				winner, loser = loser, winner
			}
			draw := rng.Float64() < drawRate
			g.Go(func() error {
				return rounds.ReportMatch(t.ID, winner, loser, draw)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("failed to report round %d: %w", r, err)
		}
		log.Info("Seeded round", "round", rnd.Number, "games", len(rnd.Pairings))
	}

	standings, err := rounds.Standings(t.ID)
	if err != nil {
		return err
	}
	for i, st := range standings {
		log.Info("Final standing", "place", i+1, "player", st.Name, "score", st.Score)
	}
	log.Info("Seeding complete", "tournament", t.ID)
	return nil
}
