package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/groupsense/internal/config"
	"github.com/Iron-Ham/groupsense/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "groupsense",
	Short: "Track group membership from a text game's output",
	Long: `groupsense reads the lines a text game server prints, keeps track of
the character's group (members, leader, open or closed status) and can ask
the server for a fresh group report when the picture looks stale.

Lines can come from a saved log, a growing log file, stdin, a TCP or
websocket relay, or a client process started under a pseudo terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	printHint(rootCmd.ErrOrStderr(), err)
	return err
}

// ExitCode maps a command error to a process exit status: 0 on success,
// 2 for warnings such as timeouts or bad input, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.GetSeverity(err) <= errors.SeverityWarning:
		return 2
	default:
		return 1
	}
}

// printHint follows a transient failure with a note that retrying may help.
func printHint(w io.Writer, err error) {
	if !errors.IsRetryable(err) {
		return
	}
	var transportErr *errors.TransportError
	if errors.As(err, &transportErr) {
		fmt.Fprintln(w, "hint: the connection may come back; check the server is reachable and run the command again")
		return
	}
	fmt.Fprintln(w, "hint: the game did not answer in time; run the command again")
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/groupsense/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	config.BindEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
