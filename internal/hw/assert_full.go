//go:build fullassert

package hw

// AssertEnabled mirrors the fullassert build tag.
const AssertEnabled = true
