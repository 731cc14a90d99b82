// Package cli provides the command-line interface for thinkstep.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/raphaelgruber/thinkstep-go/internal/config"
	"github.com/raphaelgruber/thinkstep-go/internal/ledger"
	"github.com/raphaelgruber/thinkstep-go/internal/metrics"
	"github.com/raphaelgruber/thinkstep-go/internal/render"
	"github.com/raphaelgruber/thinkstep-go/internal/tools"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	categorySet  string
	categoryFile string
	noRender     bool

	// Global config, loaded before every command
	cfg config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "thinkstep",
	Short: "Reasoning step ledger served over MCP",
	Long: `Thinkstep records multi-step reasoning one step at a time.

Each step is validated, appended to an append-only ledger (with optional
revisions and branches) and answered with an accumulated status snapshot.
Without a subcommand thinkstep serves the ledger over MCP on stdio.

Configuration is read from THINKSTEP_* environment variables; the flags
below override them.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config for help
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if categorySet != "" {
			cfg.CategorySet = categorySet
		}
		if categoryFile != "" {
			cfg.CategoryFile = categoryFile
		}
		if noRender {
			cfg.DisableRendering = "true"
		}
		return cfg.Validate()
	},
	RunE: runServe,
}

// newDependencies wires a fresh ledger and its collaborators from cfg.
// Rendering goes to renderOut when enabled.
func newDependencies(logger *slog.Logger, renderOut io.Writer) (*tools.Dependencies, error) {
	set, err := cfg.Categories()
	if err != nil {
		return nil, fmt.Errorf("category set: %w", err)
	}

	var opts []ledger.Option
	if cfg.JudgmentEnabled(set) {
		opts = append(opts, ledger.WithJudgment(
			ledger.NewMarkerPolicy(set, cfg.AffirmativeMarker, cfg.NegativeMarker),
		))
	}

	deps := &tools.Dependencies{
		Ledger:     ledger.New(opts...),
		Categories: set,
		Metrics:    metrics.NewCollector(),
		Logger:     logger,
	}
	if cfg.RenderingEnabled() {
		deps.Renderer = render.New(renderOut, render.IsTerminal(renderOut))
	}
	return deps, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&categorySet, "category-set", "", "category set: phase, framework or free")
	rootCmd.PersistentFlags().StringVar(&categoryFile, "category-file", "", "YAML file with a custom category set")
	rootCmd.PersistentFlags().BoolVar(&noRender, "no-render", false, "do not render accepted steps to stderr")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(categoriesCmd)
}
