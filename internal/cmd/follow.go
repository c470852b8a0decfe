package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/config"
	"github.com/Iron-Ham/groupsense/internal/session"
)

var followCmd = &cobra.Command{
	Use:   "follow <file>",
	Short: "Track the group from a game client's growing log file",
	Long: `Follow tails a log file written by a game client and tracks the group
as new lines arrive. The file may not exist yet, and may be truncated or
recreated while following.

Without --tmux-target group checks only wait for a report; type the group
command in the client yourself. With --tmux-target the command is typed
into that tmux pane.`,
	Args: cobra.ExactArgs(1),
	RunE: runFollow,
}

var (
	followFlags transportFlags
	followNoTUI bool
)

func init() {
	followFlags.bind(followCmd, false)
	followCmd.Flags().BoolVar(&followNoTUI, "no-tui", false, "print group changes instead of showing the panel")
	rootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &followFlags, func(cfg *config.Config) {
		cfg.Transport.Kind = session.KindFollow
		cfg.Transport.Path = args[0]
	})
	if err != nil {
		return err
	}
	return runLive(cmd, cfg, followNoTUI)
}
