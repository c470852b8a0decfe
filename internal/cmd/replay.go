package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/config"
	"github.com/Iron-Ham/groupsense/internal/session"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a saved game log and print the resulting group",
	Long: `Replay feeds every line of a saved log through the tracker, printing
group changes as they happen and the final group at the end.

No commands can be sent while replaying, so group checks are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var replayQuiet bool

func init() {
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "only print the final group")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil, func(cfg *config.Config) {
		cfg.Transport = config.TransportConfig{
			Kind:          session.KindFile,
			Path:          args[0],
			DialTimeoutMs: cfg.Transport.DialTimeoutMs,
		}
		cfg.Probe.IntervalSeconds = 0
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := newRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	if replayQuiet {
		err = r.pump(ctx)
	} else {
		err = r.runPlain(ctx, out)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d lines, %d recognized\n", r.lines, r.history.Handled())
	printState(out, r.tracker.Snapshot(), r.tracker.Broken())
	return nil
}
