package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bringup-go/internal/board"
	"bringup-go/internal/platform/sim"
)

var (
	runOpts = struct {
		faults   []string
		horizon  uint64
		jitter   uint32
		body     uint32
		seed     uint64
		scenario string
		all      bool
		trace    bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Boot the simulated board",
		Long: "Boot the simulated board with optional injected faults and report what the status LED shows.\n" +
			"Scenarios come from flags, a YAML file (--scenario) or the built-in set (--all).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := selectScenarios()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var failed []error
			for _, s := range scenarios {
				var trace io.Writer
				if runOpts.trace {
					trace = out
				}
				o, err := runScenario(s, board.Selected, trace)
				o.print(out)
				if err != nil {
					failed = append(failed, err)
				}
			}
			return errors.Join(failed...)
		},
	}
)

func init() {
	f := runCmd.Flags()
	f.StringSliceVarP(&runOpts.faults, "fault", "f", nil, fmt.Sprintf("inject faults %v", sim.FaultNames()))
	f.Uint64Var(&runOpts.horizon, "horizon", sim.DefaultHorizon, "virtual run length in ms")
	f.Uint32Var(&runOpts.jitter, "jitter", 0, "maximum extra task wake-up latency in ms")
	f.Uint32Var(&runOpts.body, "body", 0, "task body duration in ms")
	f.Uint64Var(&runOpts.seed, "seed", 1, "jitter seed")
	f.StringVarP(&runOpts.scenario, "scenario", "s", "", "YAML scenario file")
	f.BoolVar(&runOpts.all, "all", false, "run every built-in scenario")
	f.BoolVar(&runOpts.trace, "trace", false, "print the hardware operation trace")
	runCmd.MarkFlagsMutuallyExclusive("scenario", "all")
}

func selectScenarios() ([]sim.Scenario, error) {
	switch {
	case runOpts.all:
		return sim.Builtin(), nil
	case runOpts.scenario != "":
		data, err := os.ReadFile(runOpts.scenario)
		if err != nil {
			return nil, err
		}
		return sim.LoadScenarios(data)
	}
	s := sim.Scenario{
		Name:      "cli",
		Faults:    runOpts.faults,
		HorizonMs: runOpts.horizon,
		JitterMs:  runOpts.jitter,
		BodyMs:    runOpts.body,
		Seed:      runOpts.seed,
	}
	if _, err := sim.ParseFaults(s.Faults); err != nil {
		return nil, err
	}
	return []sim.Scenario{s}, nil
}
