//go:build stm32f7

package fmtx

import (
	"bringup-go/x/strconvx"
)

// Sprintln spaces every operand and appends a newline, like fmt.Sprintln.
func Sprintln(a ...any) string {
	var b builder
	for i, v := range a {
		if i > 0 {
			b.byte(' ')
		}
		b.any(v)
	}
	b.byte('\n')
	return string(b.buf)
}

// --- tiny formatter: the %v forms the bring-up logs use ---

type builder struct{ buf []byte }

func (b *builder) byte(c byte)  { b.buf = append(b.buf, c) }
func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) any(v any) {
	switch x := v.(type) {
	case nil:
		b.str("<nil>")
	case string:
		b.str(x)
	case []byte:
		b.buf = append(b.buf, x...)
	case error:
		b.str(x.Error())
	case interface{ String() string }:
		b.str(x.String())
	case int:
		b.str(strconvx.FormatInt(int64(x), 10))
	case int8:
		b.str(strconvx.FormatInt(int64(x), 10))
	case int16:
		b.str(strconvx.FormatInt(int64(x), 10))
	case int32: // covers rune
		b.str(strconvx.FormatInt(int64(x), 10))
	case int64:
		b.str(strconvx.FormatInt(x, 10))
	case uint:
		b.str(strconvx.FormatUint(uint64(x), 10))
	case uint8: // covers byte
		b.str(strconvx.FormatUint(uint64(x), 10))
	case uint16:
		b.str(strconvx.FormatUint(uint64(x), 10))
	case uint32:
		b.str(strconvx.FormatUint(uint64(x), 10))
	case uint64:
		b.str(strconvx.FormatUint(x, 10))
	case uintptr:
		b.str("0x" + strconvx.FormatUint(uint64(x), 16))
	case bool:
		if x {
			b.str("true")
		} else {
			b.str("false")
		}
	case float32:
		b.str(strconvx.FormatFloat(float64(x), 'f', 6, 32))
	case float64:
		b.str(strconvx.FormatFloat(x, 'f', 6, 64))
	default:
		b.str("<unk>")
	}
}
