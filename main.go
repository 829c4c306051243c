//go:build stm32f7

package main

import (
	"os"

	"bringup-go/internal/board"
	"bringup-go/internal/boot"
	"bringup-go/internal/platform/stm32f7"
	"bringup-go/x/logx"
)

func main() {
	logx.SetOutput(os.Stdout)
	println("boot", board.Selected.Name)

	d := board.Selected
	boot.Run(stm32f7.New(d), d)
}
