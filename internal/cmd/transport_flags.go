package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/config"
)

// transportFlags are the command-line overrides for the transport section.
// Only flags the user set replace configured values.
type transportFlags struct {
	kind       string
	path       string
	fromStart  bool
	address    string
	url        string
	exec       string
	tmuxTarget string
	tmuxSocket string
}

func (f *transportFlags) bind(cmd *cobra.Command, withKind bool) {
	flags := cmd.Flags()
	if withKind {
		flags.StringVar(&f.kind, "kind", "", "transport: stdin, file, follow, tcp, websocket or exec")
		flags.StringVar(&f.path, "path", "", "log file for the file and follow transports")
		flags.StringVar(&f.address, "address", "", "host:port for the tcp transport")
		flags.StringVar(&f.url, "url", "", "ws:// or wss:// URL for the websocket transport")
		flags.StringVar(&f.exec, "exec", "", "client command line for the exec transport")
	}
	flags.BoolVar(&f.fromStart, "from-start", false, "replay the existing log before following it")
	flags.StringVar(&f.tmuxTarget, "tmux-target", "", "tmux pane running the game client, for sending probes")
	flags.StringVar(&f.tmuxSocket, "tmux-socket", "", "tmux socket name (-L)")
}

func (f *transportFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	t := &cfg.Transport
	if flags.Changed("kind") {
		t.Kind = f.kind
	}
	if flags.Changed("path") {
		t.Path = f.path
	}
	if flags.Changed("from-start") {
		t.FromStart = f.fromStart
	}
	if flags.Changed("address") {
		t.Address = f.address
	}
	if flags.Changed("url") {
		t.URL = f.url
	}
	if flags.Changed("exec") {
		t.ExecCommand = f.exec
	}
	if flags.Changed("tmux-target") {
		t.TmuxTarget = f.tmuxTarget
	}
	if flags.Changed("tmux-socket") {
		t.TmuxSocket = f.tmuxSocket
	}
}

// revalidate checks cfg again after flags changed it.
func revalidate(cfg *config.Config) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}
	return nil
}
