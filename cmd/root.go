package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	backendJSON   = "json"
	backendSQLite = "sqlite"
)

var (
	configPath  string
	historyPath string
	backend     string
	logLevel    string
	metricsFile string
	redisURL    string

	logger zerolog.Logger
)

var (
	cHeader = color.New(color.FgCyan, color.Bold)
	cMuted  = color.New(color.Faint)
	cWarn   = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:   "poolstats",
	Short: "Hockey pool statistics and rankings",
	Long: `Turn league standings, a fan-to-team assignment and head-to-head results
into tie-aware leaderboard categories, cup odds and season-over-season history.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	home := filepath.Join(mustUserHome(), ".poolstats")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", envOr("POOLSTATS_CONFIG", filepath.Join(home, "league.json")), "path to league config JSON")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "history store path (default ~/.poolstats/history.json, or history.db with --backend sqlite)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", backendJSON, "history backend: json or sqlite")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", os.Getenv("POOLSTATS_REDIS_URL"), "cache team schedules in Redis (redis://host:port/db)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(improveCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Str("cmd", cmd.Name()).
		Logger()

	switch backend {
	case backendJSON, backendSQLite:
	default:
		return fmt.Errorf("invalid --backend %q: want %s or %s", backend, backendJSON, backendSQLite)
	}
	if historyPath == "" {
		name := "history.json"
		if backend == backendSQLite {
			name = "history.db"
		}
		historyPath = filepath.Join(mustUserHome(), ".poolstats", name)
	}
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
