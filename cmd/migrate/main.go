// Package main is the migration CLI. It applies, rolls back, and reports the
// embedded schema migrations against DATABASE_URL.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/tuconnect/triplog/backend/internal/config"
	"github.com/tuconnect/triplog/backend/migrations"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the trip log database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withProvider(func(ctx context.Context, p *goose.Provider) error {
		results, err := p.Up(ctx)
		printResults(results)
		return err
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	Args:  cobra.NoArgs,
	RunE: withProvider(func(ctx context.Context, p *goose.Provider) error {
		result, err := p.Down(ctx)
		if result != nil {
			printResults([]*goose.MigrationResult{result})
		}
		return err
	}),
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Roll back every migration",
	Args:  cobra.NoArgs,
	RunE: withProvider(func(ctx context.Context, p *goose.Provider) error {
		results, err := p.DownTo(ctx, 0)
		printResults(results)
		return err
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	Args:  cobra.NoArgs,
	RunE: withProvider(func(ctx context.Context, p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT\tFILE")
		for _, s := range statuses {
			applied := "-"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
		}
		return tw.Flush()
	}),
}

// withProvider opens the database named by DATABASE_URL, builds a goose
// provider over the embedded migrations, and runs fn with it.
func withProvider(fn func(ctx context.Context, p *goose.Provider) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		url, err := config.DatabaseURL()
		if err != nil {
			return err
		}
		db, err := sql.Open("pgx", url)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		p, err := migrations.NewProvider(db)
		if err != nil {
			return err
		}
		return fn(cmd.Context(), p)
	}
}

func printResults(results []*goose.MigrationResult) {
	if len(results) == 0 {
		fmt.Println("no migrations to run")
		return
	}
	for _, r := range results {
		fmt.Println(r.String())
	}
}

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		stop()
		os.Exit(1)
	}
}
