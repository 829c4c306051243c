package main

import (
	"fmt"
	"io"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/cobra"

	"bringup-go/internal/board"
	"bringup-go/x/strx"
)

var mpuCmd = &cobra.Command{
	Use:   "mpu",
	Short: "Print the board's MPU regions and framebuffer placement",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportMPU(cmd.OutOrStdout(), board.Selected)
	},
}

func reportMPU(w io.Writer, d board.Descriptor) error {
	for _, r := range d.MPU.Regions {
		fmt.Fprintln(w, r)
		enc := r.Encode()
		fmt.Fprintf(w, "  rbar=%s rasr=%s policy=%s\n", strx.Hex32(enc.RBAR), strx.Hex32(enc.RASR), r.Policy())
		if r.Misaligned() {
			fmt.Fprintf(w, "  base not aligned to %s: hardware uses %s\n", r.Size, strx.Hex32(r.EffectiveBase()))
		}
	}
	if err := d.MPU.ValidateStrict(); err != nil {
		fmt.Fprintf(w, "full-assert builds reject this policy: %v\n", err)
	}
	fb := d.FramebufferBytes()
	fmt.Fprintf(w, "framebuffer %s at %s in %s of SDRAM\n",
		bytesize.New(float64(fb)), strx.Hex32(uint32(d.FramebufferBase)), bytesize.New(float64(d.SDRAMSize)))
	return d.Validate()
}
