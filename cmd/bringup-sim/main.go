// Command bringup-sim runs the board bring-up against the simulated
// STM32F746G-DISCO and reports on the board's clock plan and memory map.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"bringup-go/x/logx"
)

var (
	quiet bool

	rootCmd = &cobra.Command{
		Use:          "bringup-sim",
		Short:        "Simulate and inspect the board bring-up",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logx.SetOutput(cmd.OutOrStdout())
			if quiet {
				logx.SetLevel(logx.LevelWarn)
			} else {
				logx.SetLevel(logx.LevelInfo)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.AddCommand(runCmd, planCmd, mpuCmd, scenariosCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
