package strconvx

import "testing"

func TestFormatIntUintBases(t *testing.T) {
	type C struct {
		u    uint64
		base int
		want string
	}
	for _, c := range []C{
		{0, 2, "0"},
		{5, 2, "101"},
		{255, 16, "ff"},
		{0xC0000000, 16, "c0000000"},
		{255, 10, "255"},
		{35, 36, "z"},
	} {
		if got := FormatUint(c.u, c.base); got != c.want {
			t.Fatalf("FormatUint(%d,%d) = %q, want %q", c.u, c.base, got, c.want)
		}
	}
	if got := FormatInt(-15, 10); got != "-15" {
		t.Fatalf("FormatInt(-15,10) = %q, want -15", got)
	}
	if got := Itoa(200000000); got != "200000000" {
		t.Fatalf("Itoa = %q", got)
	}
}

func TestFormatFloatFixed(t *testing.T) {
	type C struct {
		in   float64
		prec int
		want string
	}
	for _, c := range []C{
		{0, 0, "0"},
		{12.3, 1, "12.3"},
		{999.996, 2, "1000.00"},
		{-1.25, 2, "-1.25"},
		{1000.5, 3, "1000.500"},
	} {
		if got := FormatFloat(c.in, 'f', c.prec, 64); got != c.want {
			t.Fatalf("FormatFloat(%v,'f',%d) = %q, want %q", c.in, c.prec, got, c.want)
		}
	}
}
