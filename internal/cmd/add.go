package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/group"
	"github.com/Iron-Ham/groupsense/internal/session"
)

var addCmd = &cobra.Command{
	Use:   "add <member>...",
	Short: "Add characters to the group",
	Long: `Add opens the configured transport, optionally looks around to learn who
is nearby, then sends "group #<id>" for each member and waits for the
server's answer (up to probe.timeout_ms each).

A member is an id ("#5" or "5"), a noun or a name. Names are matched
against the tracked group and the characters seen in the received lines,
ignoring case and tolerating small typos.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addFlags transportFlags
	addLook  string
	addWait  time.Duration
)

func init() {
	addFlags.bind(addCmd, true)
	addCmd.Flags().StringVar(&addLook, "look", "look", "command sent first to list nearby characters (empty to skip)")
	addCmd.Flags().DurationVar(&addWait, "wait", time.Second, "how long to collect output before resolving names")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &addFlags, nil)
	if err != nil {
		return err
	}
	if cfg.Transport.Kind == session.KindStdin {
		return errors.NewValidationError("add cannot read from stdin").
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
			r.logger.Warn("source failed during add", "error", err)
		}
	})
	defer func() {
		cancel()
		_ = r.conn.Close()
		wg.Wait()
	}()

	if addLook != "" {
		if err := r.conn.Send(ctx, addLook); err != nil {
			r.logger.Warn("look command not sent", "command", addLook, "error", err)
		}
	}
	if addWait > 0 {
		select {
		case <-time.After(addWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	out := cmd.OutOrStdout()
	candidates := r.candidates()
	var (
		members []group.Member
		errs    []error
	)
	for _, arg := range args {
		m, err := resolveMember(candidates, arg)
		if err != nil {
			fmt.Fprintf(out, "unknown %s: %v\n", arg, err)
			errs = append(errs, err)
			continue
		}
		members = append(members, m)
	}

	for _, res := range r.tracker.AddMembers(ctx, members...) {
		if res.Err != nil {
			fmt.Fprintf(out, "failed %s: %v\n", res.Member, res.Err)
			errs = append(errs, res.Err)
			continue
		}
		fmt.Fprintf(out, "added %s\n", res.Member)
	}

	return errors.Join(errs...)
}

// candidates lists the characters add can resolve names against: the
// tracked group first, then everyone referenced in the received lines.
func (r *runtime) candidates() []group.Member {
	entries := r.history.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Line)
	}
	return append(r.tracker.Snapshot().Members, group.EntitiesIn(lines)...)
}

// resolveMember finds arg among candidates. An id nobody mentioned is still
// accepted; the server decides whether it exists.
func resolveMember(candidates []group.Member, arg string) (group.Member, error) {
	m, err := group.FindIn(candidates, arg)
	if err == nil {
		return m, nil
	}
	if id, perr := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64); perr == nil && id > 0 {
		return group.Member{ID: id}, nil
	}
	return group.Member{}, err
}
