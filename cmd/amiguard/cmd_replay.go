package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yairfalse/amiguard/types"
)

// replayCmd pushes a captured event file through the handler, against
// real AWS clients. Pair with --dry-run to rehearse safely.
var replayCmd = &cobra.Command{
	Use:   "replay <event.json>",
	Short: "Run a captured launch event through the handler",
	Example: `  amiguard replay event.json                # remediate for real
  amiguard replay event.json --dry-run      # evaluate only
  amiguard replay event.json -r eu-west-1   # region override`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := os.ReadFile(args[0]) // #nosec G304 -- path is intentional user input
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}

	event, err := types.ParseLaunchEvent(data)
	if err != nil {
		return err
	}

	h, shutdown, err := buildHandler(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	resp, err := h.Handle(ctx, event)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.StatusCode, resp.Body)
	return nil
}
