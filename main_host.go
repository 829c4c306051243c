//go:build !stm32f7

package main

import (
	"os"

	"bringup-go/internal/board"
	"bringup-go/internal/boot"
	"bringup-go/internal/platform/sim"
	"bringup-go/x/logx"
)

// On the host the same reset path runs against the simulated board for
// ten virtual seconds.
func main() {
	logx.SetOutput(os.Stdout)
	println("boot", board.Selected.Name, "(simulated)")

	m := sim.New(sim.Options{})
	d := board.Selected
	m.Run(sim.DefaultHorizon, func() { boot.Run(m.Hardware(), d) })
	println(sim.Analyze(m.Edges(), uint64(d.BlinkPeriod)).String())
}
