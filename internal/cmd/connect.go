package cmd

import (
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Track the group over the configured transport",
	Long: `Connect opens the transport from the configuration (or the flags below)
and tracks the group until the connection ends or you quit.

On a terminal a live panel shows the group; press c to check it against
the server. Otherwise group changes are printed one per line.

When probe.interval_seconds is set the group is re-checked periodically
whenever the tracked membership is unconfirmed or disagrees with the room.`,
	Args: cobra.NoArgs,
	RunE: runConnect,
}

var (
	connectFlags transportFlags
	connectNoTUI bool
)

func init() {
	connectFlags.bind(connectCmd, true)
	connectCmd.Flags().BoolVar(&connectNoTUI, "no-tui", false, "print group changes instead of showing the panel")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &connectFlags, nil)
	if err != nil {
		return err
	}
	return runLive(cmd, cfg, connectNoTUI)
}
