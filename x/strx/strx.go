// Package strx has the few allocation-light string helpers the fault and
// trace paths need.
package strx

import "bringup-go/x/strconvx"

// Coalesce returns s if non-empty, otherwise d.
func Coalesce(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// Base returns the last slash-separated element of a path.
func Base(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// Location renders file:line with the file reduced to its base name.
func Location(file string, line int) string {
	return Coalesce(Base(file), "?") + ":" + strconvx.Itoa(line)
}

// Hex32 renders v as 0x-prefixed, zero-padded, 8 hex digits.
func Hex32(v uint32) string {
	const digits = "0123456789abcdef"
	var b [10]byte
	b[0], b[1] = '0', 'x'
	for i := 9; i >= 2; i-- {
		b[i] = digits[v&0xF]
		v >>= 4
	}
	return string(b[:])
}
