package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bringup-go/errcode"
	"bringup-go/internal/board"
	"bringup-go/internal/clockplan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Check the board's clock plan against the part limits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportPlan(cmd.OutOrStdout(), board.Selected)
	},
}

func mhz(hz uint32) string { return fmt.Sprintf("%g MHz", float64(hz)/clockplan.MHz) }

// reportPlan prints the derived frequencies and every limit the plan breaks
// as written. It fails only if raising the flash latency does not fix it.
func reportPlan(w io.Writer, d board.Descriptor) error {
	p, l := d.Plan, d.Limits
	fmt.Fprintf(w, "board      %s\n", d.Name)
	fmt.Fprintf(w, "pll        HSE %s /M%d xN%d /P%d /Q%d\n", mhz(p.HSE), p.M, p.N, p.P, p.Q)
	fmt.Fprintf(w, "vco        in %s, out %s\n", mhz(p.VCOIn()), mhz(p.VCOOut()))
	fmt.Fprintf(w, "sysclk     %s (documented %s)\n", mhz(p.SYSCLK()), mhz(clockplan.DocumentedSYSCLK))
	fmt.Fprintf(w, "hclk       %s  pclk1 %s  pclk2 %s  pll48 %s\n",
		mhz(p.HCLK()), mhz(p.PCLK1()), mhz(p.PCLK2()), mhz(p.PLL48()))
	fmt.Fprintf(w, "regulator  %s, over-drive %v\n", p.Scale, p.OverDrive)
	eff := p.EffectiveLatency(l)
	fmt.Fprintf(w, "flash      %d WS planned, %d WS programmed (minimum %d)\n",
		p.FlashLatency, eff, l.MinFlashLatency(p.HCLK()))

	if err := p.Validate(l, p.SYSCLK()); err != nil {
		fmt.Fprintf(w, "as written:\n%v\n", err)
	}
	fixed := p
	fixed.FlashLatency = eff
	if err := fixed.Validate(l, p.SYSCLK()); err != nil {
		return errcode.Wrap(errcode.InvalidPlan, "clock_plan", err)
	}
	fmt.Fprintln(w, "programmed plan is within limits")
	return nil
}
