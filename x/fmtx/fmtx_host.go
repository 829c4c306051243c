//go:build !stm32f7

package fmtx

import "fmt"

func Sprintln(a ...any) string { return fmt.Sprintln(a...) }
