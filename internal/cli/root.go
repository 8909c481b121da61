// Package cli implements the corkboard command-line interface, a thin
// consumer of the engine: every command maps onto one engine or
// serializer operation and adds no business logic.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/corkboard/internal/config"
	"github.com/roach88/corkboard/internal/engine"
	"github.com/roach88/corkboard/internal/snapshot"
	"github.com/roach88/corkboard/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	DBPath     string
	Verbose    bool
	Format     string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the corkboard CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "corkboard",
		Short: "Corkboard - kanban boards with teeth",
		Long:  "A kanban persistence engine that enforces WIP limits and keeps task ordering intact.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "corkboard.yaml", "config file path")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewBoardCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openEngine loads config, opens the store, and builds an engine.
// The caller must Close the returned store.
func openEngine(opts *RootOptions) (*engine.Engine, *store.Store, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DatabasePath
	if opts.DBPath != "" {
		path = opts.DBPath
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	eng := engine.New(s,
		engine.WithLogger(log),
		engine.WithRetryPolicy(cfg.RetryPolicy()),
	)
	return eng, s, nil
}

// openSerializer opens the store and builds the export/import
// serializer. The caller must Close the returned store.
func openSerializer(opts *RootOptions) (*snapshot.Serializer, *store.Store, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DatabasePath
	if opts.DBPath != "" {
		path = opts.DBPath
	}

	s, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return snapshot.New(s), s, nil
}
