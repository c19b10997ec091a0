// Package cmd implements the nomina CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nomina-io/nomina/cmd/nomina/app"
	"github.com/nomina-io/nomina/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	cfg *app.Config

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nomina",
	Short: "Entity name reconciliation CLI",
	Long: `Nomina reconciles free-text entity names against public authority
services: Wikidata, VIAF, and the Getty vocabularies (AAT, TGN, ULAN).

Given names of people, places, organizations, subjects, or artworks, it
proposes ranked candidate identities with confidence scores, suitable
for review in cataloging workflows.`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.nomina.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(fmt.Sprintf("Failed to bind config flag: %v", err))
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// setup loads configuration and wires logging before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = app.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || verbose
	cfg.Quiet = cfg.Quiet || quiet

	level := zerolog.InfoLevel
	switch {
	case cfg.Verbose:
		level = zerolog.DebugLevel
	case cfg.Quiet:
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "json" {
		logging.SetDefault(logging.NewJSON(os.Stderr).Level(level))
	} else {
		logging.SetDefault(logging.NewConsole().Level(level))
	}
	return nil
}
