package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/groupsense/internal/errors"
	"github.com/Iron-Ham/groupsense/internal/scenario"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario <path>...",
	Short: "Run scenario files against the tracker",
	Long: `Scenario loads YAML scenario files (or every .yaml/.yml file under a
directory), replays each scenario's lines through a fresh tracker and
compares the final group with the scenario's expectations.

The command fails if any scenario does not match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenario,
}

var scenarioVerbose bool

func init() {
	scenarioCmd.Flags().BoolVarP(&scenarioVerbose, "verbose", "v", false, "print the final group of every scenario")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil, nil)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	scenarios, err := scenario.NewLoader(nil).Load(args...)
	if err != nil {
		return err
	}

	runner := scenario.NewRunner(trackerConfig(cfg))
	runner.SetLogger(logger.WithComponent("scenario"))

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range runner.RunAll(scenarios) {
		if res.Passed() {
			fmt.Fprintf(out, "PASS %s (%d lines, %d fired)\n", res.Scenario.Name, len(res.Scenario.Lines), res.Fired)
		} else {
			failed++
			fmt.Fprintf(out, "FAIL %s\n", res.Scenario.Name)
			printFailure(cmd, res.Err)
		}
		if scenarioVerbose {
			printState(out, res.State, res.Broken)
		}
	}

	fmt.Fprintf(out, "\n%d passed, %d failed\n", len(scenarios)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return nil
}

func printFailure(cmd *cobra.Command, err error) {
	out := cmd.OutOrStdout()
	var scenarioErr *errors.ScenarioError
	if errors.As(err, &scenarioErr) && len(scenarioErr.Details) > 0 {
		for _, d := range scenarioErr.Details {
			fmt.Fprintf(out, "    %s\n", d)
		}
		return
	}
	fmt.Fprintf(out, "    %v\n", err)
}
