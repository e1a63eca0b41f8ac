// Package cli implements the deckreader command line.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tsawler/deckreader/store"
)

var (
	verbose   bool
	storePath string
)

// logger is set up before any command runs
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "deckreader",
	Short: "Extract slide text in reading order",
	Long: `deckreader reads PowerPoint decks and extracts each slide's text in
reading order: column by column, top to bottom, with titles and headings
marked by their relative font size.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "path to the state database (default ~/.deckreader/deckreader.db)")
}

// Execute runs the command line until it completes or ctx is cancelled
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// openStore opens the state database named by --db
func openStore() (*store.Store, error) {
	return store.Open(storePath)
}
