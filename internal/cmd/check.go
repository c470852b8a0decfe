package cmd

import (
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Ask the server for the group once and print it",
	Long: `Check opens the configured transport, sends the group command, waits
for the report (up to probe.timeout_ms) and prints the group.

The stdin transport cannot be used: check needs to stop reading once the
report arrives.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFlags transportFlags

func init() {
	checkFlags.bind(checkCmd, true)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &checkFlags, nil)
	if err != nil {
		return err
	}
	if cfg.Transport.Kind == session.KindStdin {
		return errors.NewValidationError("check cannot read from stdin").
			WithField("transport.kind").
			WithValue(cfg.Transport.Kind)
	}

	ctx, cancel := commandContext(cmd, true)
	defer cancel()

	r, err := newRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := r.pump(ctx); err != nil {
			r.logger.Warn("source failed during check", "error", err)
		}
	})

	start := time.Now()
	r.tracker.Check(ctx)
	state := r.tracker.Snapshot()
	cancel()
	// Closing the transport unblocks a pump waiting on the network.
	_ = r.conn.Close()
	wg.Wait()

	out := cmd.OutOrStdout()
	if !state.Checked {
		fmt.Fprintf(out, "no group report after %s; membership may be incomplete\n",
			time.Since(start).Round(time.Millisecond))
	}
	printState(out, state, r.tracker.Broken())
	if !state.Checked {
		return errors.NewTimeoutError("group check", cfg.Probe.Timeout())
	}
	return nil
}
