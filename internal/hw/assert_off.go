//go:build !fullassert

package hw

const AssertEnabled = false
