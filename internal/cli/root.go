package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the flowlens CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (process,
// journeys, serve, cache), configures logging based on the --verbose flag,
// and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	cfg, cfgErr := loadConfig()

	root := &cobra.Command{
		Use:          "flowlens",
		Short:        "Flowlens normalizes policy state-machine documents into review-ready graphs",
		Long:         `Flowlens converts arbitrarily-shaped, externally-authored policy state-machine documents (mixed naming conventions, bilingual annotations, journey metadata) into a canonical directed graph with deterministic identifiers, ready for review tooling.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			if cfgErr != nil {
				logger.Warn("config file ignored", "err", cfgErr)
			}
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("flowlens %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newProcessCmd(cfg))
	root.AddCommand(newJourneysCmd())
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))

	return root.ExecuteContext(ctx)
}
