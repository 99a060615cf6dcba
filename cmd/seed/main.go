// Command seed loads a YAML league fixture into the database.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/lamasia-league/config"
	"github.com/Dosada05/lamasia-league/db"
	"github.com/Dosada05/lamasia-league/repositories"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

//go:embed league.yaml
var defaultFixture []byte

var dryRun bool

var rootCmd = &cobra.Command{
	Use:   "seed [fixture.yaml]",
	Short: "Load teams, rounds, players and matches from a YAML fixture",
	Long:  `Without a file argument the bundled sample league is loaded.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the fixture without touching the database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	data := defaultFixture
	if len(args) == 1 {
		var err error
		data, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read fixture: %w", err)
		}
	}
	fixture, err := ParseFixture(data)
	if err != nil {
		return err
	}
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "fixture ok: %d teams, %d rounds, %d players, %d matches\n",
			len(fixture.Teams), len(fixture.Rounds), len(fixture.Players), len(fixture.Matches))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	if err := db.Migrate(ctx, dbConn); err != nil {
		return err
	}

	l := &loader{
		tx:         repositories.NewPostgresTransactor(dbConn),
		teamRepo:   repositories.NewPostgresTeamRepository(dbConn),
		roundRepo:  repositories.NewPostgresRoundRepository(dbConn),
		playerRepo: repositories.NewPostgresPlayerRepository(dbConn),
		matchRepo:  repositories.NewPostgresMatchRepository(dbConn),
		logger:     logger,
	}
	s, err := l.Load(ctx, fixture)
	if err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d teams, %d rounds, %d players, %d matches\n", s.Teams, s.Rounds, s.Players, s.Matches)
	return nil
}
