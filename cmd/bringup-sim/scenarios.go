package main

import (
	"github.com/spf13/cobra"

	"bringup-go/internal/platform/sim"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Print the built-in scenarios as a YAML file for --scenario",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := sim.MarshalScenarios(sim.Builtin())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
