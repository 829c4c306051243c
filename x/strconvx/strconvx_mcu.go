//go:build stm32f7

package strconvx

// Allocation-light formatting with strconv's signatures. Bases 2..36.

func Itoa(i int) string { return FormatInt(int64(i), 10) }

func FormatInt(i int64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if i < 0 {
		return "-" + formatUint(uint64(-i), base)
	}
	return formatUint(uint64(i), base)
}

func FormatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	return formatUint(u, base)
}

func formatUint(u uint64, base int) string {
	if u == 0 {
		return "0"
	}
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

// FormatFloat only renders fixed-point decimals; fmt is treated as 'f'.
func FormatFloat(f float64, fmt byte, prec, _ int) string {
	if prec < 0 {
		prec = 6
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	pow := 1.0
	for i := 0; i < prec; i++ {
		pow *= 10
	}
	scaled := uint64(f*pow + 0.5)
	intp := scaled / uint64(pow)
	fracN := scaled % uint64(pow)

	ints := FormatUint(intp, 10)
	if prec == 0 {
		return sign + ints
	}
	fs := FormatUint(fracN, 10)
	for len(fs) < prec {
		fs = "0" + fs
	}
	return sign + ints + "." + fs
}
