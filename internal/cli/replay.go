package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raphaelgruber/thinkstep-go/internal/tools"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var replayStrict bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a file of step payloads through a fresh ledger",
	Long: `Replay a file of step payloads through a fresh ledger.

The file holds a YAML or JSON list of payloads, each shaped like a
think_step call. One JSON result per payload is printed to stdout:
the snapshot for accepted steps, {"error", "status"} for rejected ones.
Accepted steps are rendered to stderr unless rendering is disabled.

Examples:
  thinkstep replay steps.yaml
  thinkstep replay steps.json --category-set framework
  thinkstep replay steps.yaml --strict --no-render`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "stop at the first rejected payload")
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read replay file: %w", err)
	}

	// YAML is a superset of JSON, so one decoder covers both.
	var payloads []any
	if err := yaml.Unmarshal(data, &payloads); err != nil {
		return fmt.Errorf("parse replay file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	deps, err := newDependencies(logger, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rejected := 0
	for i, payload := range payloads {
		snap, err := deps.Record(payload)
		if err != nil {
			rejected++
			if err := writeJSONLine(out, tools.Failure{Error: err.Error(), Status: tools.StatusFailed}); err != nil {
				return err
			}
			if replayStrict {
				return fmt.Errorf("payload %d rejected: %w", i+1, err)
			}
			continue
		}
		if err := writeJSONLine(out, snap); err != nil {
			return err
		}
	}

	logger.Info("replay complete",
		"payloads", len(payloads),
		"accepted", len(payloads)-rejected,
		"rejected", rejected,
	)
	return nil
}

func writeJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
